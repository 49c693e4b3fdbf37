package canvas

import (
	"image"
	"image/color"
	"math"
)

// brushColor is the paint used for strokes on the layer. The compositor only
// cares about alpha coverage; the hue exists so the on-screen overlay is
// visible against the photo.
var brushColor = color.NRGBA{R: 236, G: 72, B: 153, A: 255}

// Layer is the mutable raster the brush paints into, sized to the display
// canvas. It is owned by exactly one Session; nothing else writes to it.
type Layer struct {
	img *image.NRGBA
}

// NewLayer allocates a transparent layer of the given display dimensions.
func NewLayer(width, height int) *Layer {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &Layer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Image exposes the backing raster for rendering and export. Callers must
// not mutate it.
func (l *Layer) Image() *image.NRGBA {
	if l == nil {
		return nil
	}
	return l.img
}

// Dot stamps a single filled disc, the shape of a tap with a round brush.
func (l *Layer) Dot(x, y, radius float64) {
	if l == nil || radius <= 0 {
		return
	}
	l.stamp(x, y, radius)
}

// Segment paints a line from (x0,y0) to (x1,y1) with round caps and joins by
// stamping discs at sub-pixel spacing along the path.
func (l *Layer) Segment(x0, y0, x1, y1, radius float64) {
	if l == nil || radius <= 0 {
		return
	}
	dx := x1 - x0
	dy := y1 - y0
	dist := math.Hypot(dx, dy)
	steps := int(math.Ceil(dist))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		l.stamp(x0+dx*t, y0+dy*t, radius)
	}
}

// stamp fills a disc centered at (cx,cy) with a one-pixel soft edge. The
// edge alpha is binarized later by the compositor's within-shape recolor.
func (l *Layer) stamp(cx, cy, radius float64) {
	b := l.img.Bounds()
	minX := int(math.Floor(cx - radius - 1))
	maxX := int(math.Ceil(cx + radius + 1))
	minY := int(math.Floor(cy - radius - 1))
	maxY := int(math.Ceil(cy + radius + 1))
	if minX < b.Min.X {
		minX = b.Min.X
	}
	if minY < b.Min.Y {
		minY = b.Min.Y
	}
	if maxX > b.Max.X {
		maxX = b.Max.X
	}
	if maxY > b.Max.Y {
		maxY = b.Max.Y
	}
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			coverage := radius + 0.5 - d
			if coverage <= 0 {
				continue
			}
			if coverage > 1 {
				coverage = 1
			}
			a := uint8(math.Round(coverage * 255))
			i := l.img.PixOffset(x, y)
			if l.img.Pix[i+3] >= a {
				continue
			}
			l.img.Pix[i+0] = brushColor.R
			l.img.Pix[i+1] = brushColor.G
			l.img.Pix[i+2] = brushColor.B
			l.img.Pix[i+3] = a
		}
	}
}

// Clear resets every pixel to transparent.
func (l *Layer) Clear() {
	if l == nil {
		return
	}
	for i := range l.img.Pix {
		l.img.Pix[i] = 0
	}
}

// Snapshot copies the full pixel state.
func (l *Layer) Snapshot() []byte {
	if l == nil {
		return nil
	}
	return append([]byte(nil), l.img.Pix...)
}

// Restore clears the layer and copies a snapshot back in. Snapshots from a
// layer of a different size are ignored.
func (l *Layer) Restore(pix []byte) {
	if l == nil || len(pix) != len(l.img.Pix) {
		return
	}
	copy(l.img.Pix, pix)
}
