// Package ui assembles the Fyne desktop interface: the masking canvas
// widget, the voice panel, and the main window.
package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/retouch-ai/retouch/pkg/canvas"
)

// MaskWidget displays the loaded photo letterboxed in its area, renders the
// stroke layer on top, and forwards pointer events to the masking session.
type MaskWidget struct {
	widget.BaseWidget

	session *canvas.Session
	photo   image.Image

	lastSize fyne.Size
	hovering bool
	cursorAt fyne.Position
}

var _ fyne.Widget = (*MaskWidget)(nil)
var _ fyne.Draggable = (*MaskWidget)(nil)
var _ desktop.Mouseable = (*MaskWidget)(nil)
var _ desktop.Hoverable = (*MaskWidget)(nil)

// NewMaskWidget creates the widget around an existing masking session.
func NewMaskWidget(session *canvas.Session) *MaskWidget {
	w := &MaskWidget{session: session}
	w.ExtendBaseWidget(w)
	return w
}

// SetPhoto swaps in a new image and lays the mask surface out for it.
func (w *MaskWidget) SetPhoto(img image.Image) {
	w.photo = img
	b := img.Bounds()
	w.session.SetImageSize(b.Dx(), b.Dy())
	if size := w.Size(); size.Width > 0 && size.Height > 0 {
		_ = w.session.Relayout(float64(size.Width), float64(size.Height))
	}
	w.Refresh()
}

// Resize recomputes the letterbox layout when the widget's size actually
// changes. Relayout resets the mask and its history, so spurious calls with
// an unchanged size must not reach the session.
func (w *MaskWidget) Resize(size fyne.Size) {
	w.BaseWidget.Resize(size)
	if size == w.lastSize {
		return
	}
	w.lastSize = size
	if w.photo != nil && size.Width > 0 && size.Height > 0 {
		_ = w.session.Relayout(float64(size.Width), float64(size.Height))
		w.Refresh()
	}
}

func (w *MaskWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.session.PointerDown(float64(e.Position.X), float64(e.Position.Y))
	w.Refresh()
}

func (w *MaskWidget) MouseUp(*desktop.MouseEvent) {
	w.session.PointerUp()
	w.Refresh()
}

func (w *MaskWidget) Dragged(e *fyne.DragEvent) {
	w.cursorAt = e.Position
	w.session.PointerMove(float64(e.Position.X), float64(e.Position.Y))
	w.Refresh()
}

func (w *MaskWidget) DragEnd() {
	w.session.PointerUp()
	w.Refresh()
}

func (w *MaskWidget) MouseIn(e *desktop.MouseEvent) {
	w.hovering = true
	w.cursorAt = e.Position
	w.Refresh()
}

func (w *MaskWidget) MouseMoved(e *desktop.MouseEvent) {
	w.cursorAt = e.Position
	w.Refresh()
}

func (w *MaskWidget) MouseOut() {
	w.hovering = false
	w.Refresh()
}

func (w *MaskWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &maskWidgetRenderer{w: w}
	r.background = fynecanvas.NewRectangle(color.NRGBA{R: 24, G: 24, B: 28, A: 255})
	r.photo = &fynecanvas.Image{FillMode: fynecanvas.ImageFillStretch}
	r.overlay = &fynecanvas.Image{FillMode: fynecanvas.ImageFillStretch}
	r.cursor = &fynecanvas.Circle{
		StrokeColor: color.NRGBA{R: 255, G: 255, B: 255, A: 220},
		StrokeWidth: 1.5,
		FillColor:   color.NRGBA{R: 236, G: 72, B: 153, A: 60},
	}
	return r
}

type maskWidgetRenderer struct {
	w          *MaskWidget
	background *fynecanvas.Rectangle
	photo      *fynecanvas.Image
	overlay    *fynecanvas.Image
	cursor     *fynecanvas.Circle
}

func (r *maskWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.photo, r.overlay, r.cursor}
}

func (r *maskWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.placeSurface()
}

func (r *maskWidgetRenderer) placeSurface() {
	layout := r.w.session.Layout()
	if layout.Empty() {
		r.photo.Hide()
		r.overlay.Hide()
		return
	}
	pos := fyne.NewPos(float32(layout.OffsetX), float32(layout.OffsetY))
	size := fyne.NewSize(float32(layout.Width), float32(layout.Height))
	r.photo.Move(pos)
	r.photo.Resize(size)
	r.overlay.Move(pos)
	r.overlay.Resize(size)
	r.photo.Show()
	r.overlay.Show()
}

func (r *maskWidgetRenderer) Refresh() {
	r.photo.Image = r.w.photo
	if layer := r.w.session.Overlay(); layer != nil {
		r.overlay.Image = layer.Image()
	} else {
		r.overlay.Image = nil
	}
	r.placeSurface()

	if r.w.hovering && r.w.photo != nil {
		radius := float32(r.w.session.BrushRadius())
		r.cursor.Move(fyne.NewPos(r.w.cursorAt.X-radius, r.w.cursorAt.Y-radius))
		r.cursor.Resize(fyne.NewSize(2*radius, 2*radius))
		r.cursor.Show()
	} else {
		r.cursor.Hide()
	}

	r.photo.Refresh()
	r.overlay.Refresh()
	fynecanvas.Refresh(r.w)
}

func (r *maskWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *maskWidgetRenderer) Destroy() {}
