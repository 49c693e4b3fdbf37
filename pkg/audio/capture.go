package audio

import (
	"log/slog"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/retouch-ai/retouch/pkg/core"
)

// Frame is one encoded capture frame ready for the live transport.
type Frame struct {
	Data     string // base64 16-bit PCM
	MIMEType string
}

// Capture acquires the microphone at 16 kHz mono S16LE, slices the stream
// into fixed 4096-sample frames, and hands each base64-encoded frame to the
// sink. Frames produced while no sink is attached are dropped: real-time
// audio favors recency over completeness, so there is no buffering.
type Capture struct {
	logger *slog.Logger

	mu      sync.Mutex
	actx    *malgo.AllocatedContext
	device  *malgo.Device
	framer  *Framer
	sink    func(Frame)
	started bool
}

// NewCapture creates an idle capture pipeline.
func NewCapture(logger *slog.Logger) *Capture {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capture{
		logger: logger,
		framer: NewFramer(FrameSamples),
	}
}

// SetSink attaches (or, with nil, detaches) the frame consumer.
func (c *Capture) SetSink(sink func(Frame)) {
	c.mu.Lock()
	c.sink = sink
	c.mu.Unlock()
}

// Start opens the audio context and microphone device and begins capturing.
// Call only after the transport reports open. A device or permission failure
// surfaces as a permission error; the pipeline is left fully torn down.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	ctxCfg := malgo.ContextConfig{}
	ctxCfg.ThreadPriority = malgo.ThreadPriorityRealtime
	actx, err := malgo.InitContext(nil, ctxCfg, nil)
	if err != nil {
		return core.NewPermissionError("open audio context: " + err.Error())
	}

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceCfg.Capture.Format = malgo.FormatS16
	deviceCfg.Capture.Channels = channels
	deviceCfg.SampleRate = CaptureSampleRate
	deviceCfg.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			c.onCaptured(input)
		},
	}
	device, err := malgo.InitDevice(actx.Context, deviceCfg, callbacks)
	if err != nil {
		_ = actx.Uninit()
		return core.NewPermissionError("open microphone: " + err.Error())
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		_ = actx.Uninit()
		return core.NewPermissionError("start microphone: " + err.Error())
	}

	c.actx = actx
	c.device = device
	c.framer.Reset()
	c.started = true
	c.logger.Debug("microphone capture started",
		"sample_rate", CaptureSampleRate, "frame_samples", FrameSamples)
	return nil
}

// Stop disconnects the device and closes the audio context. Safe to call
// repeatedly and before Start.
func (c *Capture) Stop() {
	// Detach under the lock, tear down outside it: stopping the device joins
	// the audio thread, whose data callback takes the same lock.
	c.mu.Lock()
	device := c.device
	actx := c.actx
	wasStarted := c.started
	c.device = nil
	c.actx = nil
	c.started = false
	c.framer.Reset()
	c.mu.Unlock()

	if device != nil {
		device.Stop()
		device.Uninit()
	}
	if actx != nil {
		_ = actx.Uninit()
	}
	if wasStarted {
		c.logger.Debug("microphone capture stopped")
	}
}

func (c *Capture) onCaptured(input []byte) {
	c.mu.Lock()
	sink := c.sink
	if sink == nil {
		// No open session: drop rather than queue.
		c.framer.Reset()
		c.mu.Unlock()
		return
	}
	var frames []Frame
	c.framer.Push(input, func(frame []byte) {
		frames = append(frames, Frame{Data: EncodePCM(frame), MIMEType: CaptureMIMEType})
	})
	c.mu.Unlock()

	for _, f := range frames {
		sink(f)
	}
}
