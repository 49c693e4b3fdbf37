package audio

import (
	"sync"
	"testing"
	"time"
)

type recordSink struct {
	mu      sync.Mutex
	writes  [][]byte
	flushes int
}

func (r *recordSink) Write(pcm []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, append([]byte(nil), pcm...))
	return nil
}

func (r *recordSink) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
}

func (r *recordSink) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

// pcmChunk builds a base64 chunk of the given duration at 24 kHz mono s16le.
func pcmChunk(d time.Duration) string {
	samples := int(d * PlaybackSampleRate / time.Second)
	return EncodePCM(make([]byte, samples*2))
}

func TestScheduler_GaplessStartTimes(t *testing.T) {
	t0 := time.Unix(1000, 0)
	sink := &recordSink{}
	s := NewScheduler(sink, PlaybackSampleRate, nil)
	s.now = func() time.Time { return t0 }

	durations := []time.Duration{500 * time.Millisecond, 300 * time.Millisecond, 200 * time.Millisecond}
	wantStarts := []time.Time{t0, t0.Add(500 * time.Millisecond), t0.Add(800 * time.Millisecond)}

	for i, d := range durations {
		start, err := s.Enqueue(pcmChunk(d))
		if err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
		if !start.Equal(wantStarts[i]) {
			t.Fatalf("chunk %d start=%v, want %v", i, start, wantStarts[i])
		}
	}
	if got := s.Pending(); got != 3 {
		t.Fatalf("Pending()=%d, want 3", got)
	}
}

func TestScheduler_CursorNeverSchedulesInThePast(t *testing.T) {
	clk := time.Unix(2000, 0)
	s := NewScheduler(&recordSink{}, PlaybackSampleRate, nil)
	s.now = func() time.Time { return clk }

	start, err := s.Enqueue(pcmChunk(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if !start.Equal(clk) {
		t.Fatalf("start=%v, want now", start)
	}

	// Playback falls behind real time: the next chunk starts now, not at
	// the stale cursor.
	clk = clk.Add(5 * time.Second)
	start, err = s.Enqueue(pcmChunk(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if !start.Equal(clk) {
		t.Fatalf("start=%v, want advanced now %v", start, clk)
	}
}

func TestScheduler_InterruptStopsAndResetsCursor(t *testing.T) {
	t0 := time.Unix(3000, 0)
	sink := &recordSink{}
	s := NewScheduler(sink, PlaybackSampleRate, nil)
	s.now = func() time.Time { return t0 }

	if _, err := s.Enqueue(pcmChunk(time.Second)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := s.Enqueue(pcmChunk(time.Second)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	s.Interrupt()
	if got := s.Pending(); got != 0 {
		t.Fatalf("Pending()=%d after Interrupt, want 0", got)
	}
	if sink.flushes != 1 {
		t.Fatalf("flushes=%d, want 1", sink.flushes)
	}

	// Cursor reset: next chunk plays immediately, not at the stale offset.
	start, err := s.Enqueue(pcmChunk(100 * time.Millisecond))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if !start.Equal(t0) {
		t.Fatalf("start after Interrupt=%v, want %v", start, t0)
	}
}

func TestScheduler_SourceRemovesItselfWhenPlaybackEnds(t *testing.T) {
	sink := &recordSink{}
	s := NewScheduler(sink, PlaybackSampleRate, nil)

	if _, err := s.Enqueue(pcmChunk(5 * time.Millisecond)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Pending() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("source still tracked after playback end, Pending()=%d", s.Pending())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if sink.writeCount() != 1 {
		t.Fatalf("writes=%d, want 1", sink.writeCount())
	}
}

func TestScheduler_RejectsBadBase64(t *testing.T) {
	s := NewScheduler(&recordSink{}, PlaybackSampleRate, nil)
	if _, err := s.Enqueue("!!not-base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
	if s.Pending() != 0 {
		t.Fatal("bad chunk must not be tracked")
	}
}

func TestScheduler_CloseIsIdempotent(t *testing.T) {
	sink := &recordSink{}
	s := NewScheduler(sink, PlaybackSampleRate, nil)
	s.Close()
	s.Close()
	if start, err := s.Enqueue(pcmChunk(time.Millisecond)); err != nil || !start.IsZero() {
		t.Fatalf("Enqueue after Close: start=%v err=%v", start, err)
	}
	if s.Pending() != 0 {
		t.Fatal("closed scheduler tracked a source")
	}
}
