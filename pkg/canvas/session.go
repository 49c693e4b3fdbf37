package canvas

import (
	"log/slog"

	"github.com/retouch-ai/retouch/pkg/core"
)

// DefaultBrushRadius is the initial brush radius in display pixels.
const DefaultBrushRadius = 20.0

// Session owns one masking surface for one image: the display-scaled stroke
// layer, the undo/redo history, pointer-to-stroke translation, and mask
// export. Exactly one Session exists per active image; it is driven from the
// UI event loop and is not safe for concurrent use.
type Session struct {
	logger *slog.Logger

	nativeW int
	nativeH int

	layout  Layout
	layer   *Layer
	history *History

	brushRadius float64

	// in-progress stroke state between pointer down and up
	stroking bool
	lastX    float64
	lastY    float64

	onHistory func(canUndo, canRedo bool)
}

// NewSession creates a masking session. onHistory receives (canUndo, canRedo)
// after every history operation; it may be nil.
func NewSession(logger *slog.Logger, onHistory func(canUndo, canRedo bool)) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		logger:      logger,
		brushRadius: DefaultBrushRadius,
		onHistory:   onHistory,
	}
}

// SetImageSize records the native dimensions of the loaded image. The mask
// surface is unusable until Relayout has run at least once afterwards.
func (s *Session) SetImageSize(nativeW, nativeH int) {
	s.nativeW = nativeW
	s.nativeH = nativeH
	s.layout = Layout{}
	s.layer = nil
	s.history = nil
}

// Relayout recomputes the display canvas for the given container size and
// resets the mask layer and history: the pixel buffer is resolution-dependent,
// so a resize invalidates every snapshot.
func (s *Session) Relayout(containerW, containerH float64) error {
	if s.nativeW <= 0 || s.nativeH <= 0 {
		return core.NewNotReadyError("no image loaded")
	}
	layout := FitToContainer(containerW, containerH, s.nativeW, s.nativeH)
	if layout.Empty() {
		return core.NewNotReadyError("container has no usable area")
	}
	s.layout = layout
	s.layer = NewLayer(layout.Width, layout.Height)
	s.history = NewHistory(s.layer, s.onHistory)
	s.history.Clear()
	s.stroking = false
	s.logger.Debug("mask surface laid out",
		"display_w", layout.Width, "display_h", layout.Height,
		"native_w", s.nativeW, "native_h", s.nativeH,
		"scale", layout.Scale)
	return nil
}

// Layout returns the current letterbox layout.
func (s *Session) Layout() Layout { return s.layout }

// Overlay exposes the stroke layer for on-screen rendering; nil until the
// first Relayout.
func (s *Session) Overlay() *Layer { return s.layer }

// Ready reports whether the surface can accept strokes and export a mask.
func (s *Session) Ready() bool {
	return s.layer != nil && s.nativeW > 0 && s.nativeH > 0
}

// SetBrushRadius updates the brush radius in display pixels.
func (s *Session) SetBrushRadius(r float64) {
	if r > 0 {
		s.brushRadius = r
	}
}

// BrushRadius returns the current brush radius for cursor rendering.
func (s *Session) BrushRadius() float64 { return s.brushRadius }

// PointerDown starts a stroke at a container-space position: a tap with no
// prior point renders a single round dot.
func (s *Session) PointerDown(x, y float64) {
	if !s.Ready() {
		return
	}
	cx, cy, _ := s.layout.ToCanvas(x, y)
	s.layer.Dot(cx, cy, s.brushRadius)
	s.stroking = true
	s.lastX, s.lastY = cx, cy
}

// PointerMove extends the active stroke with a round-cap segment joining the
// last recorded point. Ignored while no stroke is active.
func (s *Session) PointerMove(x, y float64) {
	if !s.Ready() || !s.stroking {
		return
	}
	cx, cy, _ := s.layout.ToCanvas(x, y)
	s.layer.Segment(s.lastX, s.lastY, cx, cy, s.brushRadius)
	s.lastX, s.lastY = cx, cy
}

// PointerUp completes the stroke and commits a history snapshot. Snapshots
// are taken only here, never mid-stroke.
func (s *Session) PointerUp() {
	if !s.Ready() || !s.stroking {
		return
	}
	s.stroking = false
	s.history.Save()
}

// MaskAsBase64 exports the current mask as an image/png data URI at the
// original image's native resolution. Fails with a not-ready error before
// the image has loaded and the surface has been laid out.
func (s *Session) MaskAsBase64() (string, error) {
	if !s.Ready() {
		return "", core.NewNotReadyError("mask surface is not initialized")
	}
	return MaskPNGDataURI(s.layer, s.nativeW, s.nativeH)
}

// ClearMask wipes the layer and resets history to the single blank entry.
func (s *Session) ClearMask() {
	if s.history == nil {
		return
	}
	s.stroking = false
	s.history.Clear()
}

// Undo steps the mask back one committed stroke.
func (s *Session) Undo() {
	if s.history != nil {
		s.history.Undo()
	}
}

// Redo re-applies an undone stroke.
func (s *Session) Redo() {
	if s.history != nil {
		s.history.Redo()
	}
}

// CanUndo reports whether Undo would change the mask.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change the mask.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }
