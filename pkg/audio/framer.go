package audio

// Framer slices a continuous capture byte stream into fixed-size frames.
// Capture devices deliver period-sized callbacks that rarely line up with the
// wire frame size, so leftover bytes carry over to the next push.
type Framer struct {
	frameBytes int
	buf        []byte
}

// NewFramer creates a framer emitting frames of frameSamples 16-bit samples.
func NewFramer(frameSamples int) *Framer {
	if frameSamples <= 0 {
		frameSamples = FrameSamples
	}
	return &Framer{frameBytes: frameSamples * bytesPerSample}
}

// Push appends captured bytes and invokes emit once per completed frame, in
// order. The emitted slice is only valid for the duration of the call.
func (f *Framer) Push(p []byte, emit func(frame []byte)) {
	if f == nil || emit == nil {
		return
	}
	f.buf = append(f.buf, p...)
	for len(f.buf) >= f.frameBytes {
		emit(f.buf[:f.frameBytes])
		f.buf = f.buf[f.frameBytes:]
	}
}

// Reset discards any partial frame.
func (f *Framer) Reset() {
	if f != nil {
		f.buf = f.buf[:0]
	}
}
