package canvas

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/retouch-ai/retouch/pkg/core"
)

// ExportMask rasterizes the stroke layer into a binary mask at the original
// image's native resolution: pure opaque white wherever a stroke painted,
// pure opaque black everywhere else, no surviving antialiased edges.
//
// The compositing runs in three order-dependent passes:
//  1. scale the display-resolution strokes onto a native-resolution buffer,
//     preserving the alpha shape (stroke color is irrelevant here);
//  2. recolor within shape: every pixel with any alpha becomes opaque white;
//  3. paint opaque black behind the remaining fully transparent pixels.
//
// No explicit threshold is applied; pass 2 binarizes scaled edge pixels.
func ExportMask(layer *Layer, nativeW, nativeH int) (*image.NRGBA, error) {
	if layer == nil || layer.Image() == nil {
		return nil, core.NewNotReadyError("mask layer is not initialized")
	}
	if nativeW <= 0 || nativeH <= 0 {
		return nil, core.NewNotReadyError("original image dimensions are not available")
	}

	dst := image.NewNRGBA(image.Rect(0, 0, nativeW, nativeH))
	src := layer.Image()
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	recolorWithinShape(dst)
	fillBehindWithBlack(dst)
	return dst, nil
}

// MaskPNGDataURI exports the binary mask as an image/png data URI.
func MaskPNGDataURI(layer *Layer, nativeW, nativeH int) (string, error) {
	mask, err := ExportMask(layer, nativeW, nativeH)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, mask); err != nil {
		return "", core.NewProcessingError("encode mask png: " + err.Error())
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// recolorWithinShape turns every pixel already covered by a stroke (nonzero
// alpha) into pure opaque white. Transparent regions are untouched.
func recolorWithinShape(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i+3] == 0 {
			continue
		}
		pix[i+0] = 0xff
		pix[i+1] = 0xff
		pix[i+2] = 0xff
		pix[i+3] = 0xff
	}
}

// fillBehindWithBlack paints opaque black under the remaining transparent
// pixels. White strokes set in the previous pass are never overwritten.
func fillBehindWithBlack(img *image.NRGBA) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i+3] != 0 {
			continue
		}
		pix[i+0] = 0x00
		pix[i+1] = 0x00
		pix[i+2] = 0x00
		pix[i+3] = 0xff
	}
}
