// Package canvas implements the interactive masking core: a display-scaled
// stroke layer, snapshot-based undo/redo history, and export of a binary
// black/white mask at the original image's native resolution.
package canvas

import "math"

// Layout describes how a native-resolution image maps onto a display
// container: the image is scaled to fit and centered, leaving letterbox
// margins on one axis.
type Layout struct {
	// Scale converts native pixels to display pixels.
	Scale float64

	// Width and Height are the display canvas dimensions in pixels.
	Width  int
	Height int

	// OffsetX and OffsetY position the canvas inside the container.
	OffsetX float64
	OffsetY float64
}

// FitToContainer computes the letterboxed layout for an image of
// nativeW x nativeH inside a container of containerW x containerH.
func FitToContainer(containerW, containerH float64, nativeW, nativeH int) Layout {
	if containerW <= 0 || containerH <= 0 || nativeW <= 0 || nativeH <= 0 {
		return Layout{}
	}
	scale := math.Min(containerW/float64(nativeW), containerH/float64(nativeH))
	w := math.Round(float64(nativeW) * scale)
	h := math.Round(float64(nativeH) * scale)
	return Layout{
		Scale:   scale,
		Width:   int(w),
		Height:  int(h),
		OffsetX: (containerW - w) / 2,
		OffsetY: (containerH - h) / 2,
	}
}

// ToCanvas translates a container-space point into canvas-local coordinates.
// The second return is false when the point falls outside the canvas.
func (l Layout) ToCanvas(x, y float64) (float64, float64, bool) {
	cx := x - l.OffsetX
	cy := y - l.OffsetY
	inside := cx >= 0 && cy >= 0 && cx < float64(l.Width) && cy < float64(l.Height)
	return cx, cy, inside
}

// Empty reports whether the layout has not been computed yet.
func (l Layout) Empty() bool {
	return l.Width <= 0 || l.Height <= 0
}
