package audio

import (
	"log/slog"
	"sync"
	"time"
)

// Sink receives raw PCM the moment a scheduled chunk's start time arrives.
type Sink interface {
	Write(pcm []byte) error
	// Flush discards anything the sink has buffered but not yet played.
	Flush()
}

// Scheduler plays incoming base64 PCM chunks gaplessly in arrival order.
// Each chunk starts at max(cursor, now) and the cursor then advances by
// exactly the chunk's duration, so consecutive chunks play back-to-back
// without overlap or gaps as long as audio arrives faster than real time.
//
// All in-flight sources are tracked so an interruption can cancel them
// immediately; a source removes itself when its playback naturally ends.
type Scheduler struct {
	logger     *slog.Logger
	sink       Sink
	sampleRate int

	mu      sync.Mutex
	now     func() time.Time
	cursor  time.Time // zero value: next chunk starts immediately
	sources map[int64]*source
	nextID  int64
	closed  bool

	// dump accumulates every received chunk for an optional WAV dump.
	dump []byte
	keep bool
}

type source struct {
	start *time.Timer
	done  *time.Timer
}

// NewScheduler creates a scheduler that writes into sink at the given sample
// rate (normally PlaybackSampleRate).
func NewScheduler(sink Sink, sampleRate int, logger *slog.Logger) *Scheduler {
	if sampleRate <= 0 {
		sampleRate = PlaybackSampleRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		logger:     logger,
		sink:       sink,
		sampleRate: sampleRate,
		now:        time.Now,
		sources:    make(map[int64]*source),
	}
}

// KeepPCM makes the scheduler retain all received audio for DumpWAV.
func (s *Scheduler) KeepPCM() {
	s.mu.Lock()
	s.keep = true
	s.mu.Unlock()
}

// DumpWAV returns everything received so far as a playable WAV, or nil when
// retention is off or nothing arrived. Interruptions do not discard audio
// that already arrived.
func (s *Scheduler) DumpWAV() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.keep || len(s.dump) == 0 {
		return nil
	}
	return PCMToWAV(s.dump, s.sampleRate, 16, channels)
}

// Enqueue schedules a base64 PCM chunk and returns its start time.
func (s *Scheduler) Enqueue(data string) (time.Time, error) {
	pcm, err := DecodePCM(data)
	if err != nil {
		return time.Time{}, err
	}
	if len(pcm) == 0 {
		return time.Time{}, nil
	}
	duration := PCMDuration(len(pcm), s.sampleRate)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return time.Time{}, nil
	}
	nowT := s.now()
	startAt := s.cursor
	if startAt.Before(nowT) {
		startAt = nowT
	}
	s.cursor = startAt.Add(duration)
	if s.keep {
		s.dump = append(s.dump, pcm...)
	}

	id := s.nextID
	s.nextID++
	src := &source{}
	s.sources[id] = src
	delay := startAt.Sub(nowT)
	src.start = time.AfterFunc(delay, func() {
		if err := s.sink.Write(pcm); err != nil {
			s.logger.Warn("playback write failed", "error", err)
		}
	})
	src.done = time.AfterFunc(delay+duration, func() {
		s.remove(id)
	})
	s.mu.Unlock()

	return startAt, nil
}

// Interrupt stops every scheduled-but-unfinished source, clears the tracking
// set, flushes the sink, and resets the cursor so the next chunk begins
// playing immediately rather than at a stale offset.
func (s *Scheduler) Interrupt() {
	s.mu.Lock()
	for id, src := range s.sources {
		src.start.Stop()
		src.done.Stop()
		delete(s.sources, id)
	}
	s.cursor = time.Time{}
	sink := s.sink
	s.mu.Unlock()

	if sink != nil {
		sink.Flush()
	}
}

// Pending returns the number of tracked in-flight sources.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sources)
}

// Close interrupts playback and rejects further chunks. Idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.Interrupt()
}

func (s *Scheduler) remove(id int64) {
	s.mu.Lock()
	delete(s.sources, id)
	s.mu.Unlock()
}
