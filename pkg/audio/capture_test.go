package audio

import "testing"

func TestCapture_StopBeforeStartIsSafe(t *testing.T) {
	c := NewCapture(nil)
	c.Stop()
	c.Stop()
}

func TestCapture_DropsFramesWithoutSink(t *testing.T) {
	c := NewCapture(nil)
	c.onCaptured(make([]byte, FrameBytes*2))

	// Attaching a sink afterwards must not replay the dropped audio, and a
	// fresh partial push must not inherit stale framer bytes.
	var frames []Frame
	c.SetSink(func(f Frame) { frames = append(frames, f) })
	c.onCaptured(make([]byte, FrameBytes-2))
	if len(frames) != 0 {
		t.Fatalf("frames=%d, want 0", len(frames))
	}
	c.onCaptured(make([]byte, 2))
	if len(frames) != 1 {
		t.Fatalf("frames=%d, want 1", len(frames))
	}
}

func TestCapture_EmitsEncodedFrames(t *testing.T) {
	c := NewCapture(nil)
	var frames []Frame
	c.SetSink(func(f Frame) { frames = append(frames, f) })

	c.onCaptured(make([]byte, FrameBytes*2+100))
	if len(frames) != 2 {
		t.Fatalf("frames=%d, want 2", len(frames))
	}
	for i, f := range frames {
		if f.MIMEType != CaptureMIMEType {
			t.Fatalf("frame %d mime=%q, want %q", i, f.MIMEType, CaptureMIMEType)
		}
		pcm, err := DecodePCM(f.Data)
		if err != nil {
			t.Fatalf("frame %d decode: %v", i, err)
		}
		if len(pcm) != FrameBytes {
			t.Fatalf("frame %d len=%d, want %d", i, len(pcm), FrameBytes)
		}
	}
}
