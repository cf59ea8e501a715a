package detection

import (
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/blob-detector/internal/imaging"
)

// RenderOptions controls how blobs are drawn.
type RenderOptions struct {
	// Color of the circles. Nil draws red.
	Color color.Color

	// Thickness is the stroke width in pixels. Zero draws 2-pixel strokes;
	// imaging.Filled fills each disk.
	Thickness int
}

var defaultRenderColor = color.NRGBA{R: 255, A: 255}

const defaultRenderThickness = 2

// Render returns a copy of img with a circle drawn for every blob.
//
// Each circle is centred on the blob's Center with radius round(Radius).
// Circles extending past the image edges are clipped. With no blobs the
// result is a plain copy of img. img itself is never modified.
func Render(img image.Image, blobs []Blob, opts RenderOptions) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if img.Bounds().Empty() {
		return nil, imaging.ErrEmptyImage
	}

	c := opts.Color
	if c == nil {
		c = defaultRenderColor
	}
	thickness := opts.Thickness
	if thickness == 0 {
		thickness = defaultRenderThickness
	}

	out := imaging.CopyImage(img)
	for _, b := range blobs {
		center := image.Point{X: b.Center.X, Y: b.Center.Y}
		imaging.DrawCircle(out, center, int(math.Round(b.Radius)), c, thickness)
	}
	return out, nil
}
