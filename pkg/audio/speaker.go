package audio

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/retouch-ai/retouch/pkg/core"
)

// Speaker plays raw PCM through the system audio output. It implements Sink:
// the scheduler hands it each chunk at the chunk's scheduled start time, and
// the speaker streams it to an oto player via a pull-based reader.
type Speaker struct {
	otoCtx *oto.Context

	mu      sync.Mutex
	cond    *sync.Cond
	player  *oto.Player
	buf     []byte
	playing bool
	closed  bool
}

// NewSpeaker opens the system audio output at the given sample rate and
// blocks until the device is ready.
func NewSpeaker(sampleRate int) (*Speaker, error) {
	if sampleRate <= 0 {
		sampleRate = PlaybackSampleRate
	}
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		// Small buffer keeps interruption latency low at the cost of a
		// slightly higher underrun risk.
		BufferSize: 100 * time.Millisecond,
	}
	otoCtx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, core.NewNotReadyError("open audio output: " + err.Error())
	}
	<-ready

	s := &Speaker{otoCtx: otoCtx}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

// Write appends PCM for playback, starting the player lazily on first data.
func (s *Speaker) Write(pcm []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.NewNotReadyError("speaker is closed")
	}
	s.buf = append(s.buf, pcm...)
	if !s.playing {
		s.playing = true
		s.player = s.otoCtx.NewPlayer(readerFunc(s.pull))
		s.player.Play()
	}
	s.cond.Signal()
	return nil
}

// pull feeds the oto player. It blocks until data arrives or the speaker
// closes, then drains the internal buffer.
func (s *Speaker) pull(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed && len(s.buf) == 0 {
		// Silence lets oto drain gracefully instead of erroring.
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Flush discards pending audio and stops the current player so stale audio
// never overlaps whatever plays next.
func (s *Speaker) Flush() {
	s.mu.Lock()
	s.buf = s.buf[:0]
	player := s.player
	stopped := s.playing
	s.playing = false
	s.player = nil
	s.mu.Unlock()

	if player != nil && stopped {
		player.Pause()
		_ = player.Close()
	}
}

// Close stops playback and releases the player. The oto context itself has
// no close; it lives for the process.
func (s *Speaker) Close() {
	s.mu.Lock()
	s.closed = true
	player := s.player
	s.player = nil
	s.cond.Broadcast()
	s.mu.Unlock()

	if player != nil {
		_ = player.Close()
	}
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
