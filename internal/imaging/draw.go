package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Filled, passed as the thickness to DrawCircle, fills the disk instead of
// stroking its outline.
const Filled = -1

// CopyImage returns an NRGBA copy of img with the same bounds.
// The source image is not modified.
func CopyImage(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)
	return out
}

// DrawCircle draws a circle outline of the given radius centred at center.
//
// The stroke covers every pixel whose distance from the centre is within
// thickness/2 of radius, so a thickness of 2 produces a ring about three
// pixels wide. A negative thickness (see Filled) fills the disk. Pixels
// outside dst's bounds are skipped.
func DrawCircle(dst draw.Image, center image.Point, radius int, c color.Color, thickness int) {
	if radius < 0 {
		return
	}

	r := float64(radius)
	inner, outer := 0.0, r
	if thickness >= 0 {
		half := float64(thickness) / 2
		if half < 0.5 {
			half = 0.5
		}
		inner = math.Max(0, r-half)
		outer = r + half
	}

	bounds := dst.Bounds()
	reach := int(math.Ceil(outer))
	for y := center.Y - reach; y <= center.Y+reach; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := center.X - reach; x <= center.X+reach; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x - center.X)
			dy := float64(y - center.Y)
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= inner && d <= outer {
				dst.Set(x, y, c)
			}
		}
	}
}

// ParseColor parses a hex colour string like "#FF0000", "FF0000" or "#F00".
// The returned colour is fully opaque.
func ParseColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}

	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
