package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyImage is returned for images or buffers with no pixels.
	ErrEmptyImage = errors.New("empty image")

	// ErrNotNormalized is returned when a float buffer holds values outside [0, 1].
	ErrNotNormalized = errors.New("image values not normalized to [0,1]")
)

// ToGray converts an image to a grayscale float buffer normalized to [0, 1].
//
// Luminance uses the ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B),
// quantized to 8 bits and divided by 255. The returned matrix has one row per
// image row and is indexed relative to img.Bounds().Min.
//
// Returns ErrEmptyImage if the image has no pixels.
func ToGray(img image.Image) (*mat.Dense, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	gray := imaging.Grayscale(img)
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()

	data := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			// R, G and B are identical after Grayscale
			data[y*width+x] = float64(row[x*4]) / 255.0
		}
	}

	return mat.NewDense(height, width, data), nil
}

// FromGray renders a [0, 1] float buffer as an 8-bit grayscale image.
// Values outside the range are clamped.
func FromGray(m *mat.Dense) (*image.Gray, error) {
	if isEmpty(m) {
		return nil, ErrEmptyImage
	}

	rows, cols := m.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := math.Max(0, math.Min(1, m.At(y, x)))
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(v * 255))})
		}
	}
	return img, nil
}

// CheckUnit verifies that m is a non-empty buffer with every value in [0, 1].
//
// NaN values fail the check.
func CheckUnit(m *mat.Dense) error {
	if isEmpty(m) {
		return ErrEmptyImage
	}

	rows, cols := m.Dims()
	raw := m.RawMatrix()
	for y := 0; y < rows; y++ {
		for x, v := range raw.Data[y*raw.Stride : y*raw.Stride+cols] {
			if !(v >= 0 && v <= 1) {
				return fmt.Errorf("%w: value %g at (%d,%d)", ErrNotNormalized, v, x, y)
			}
		}
	}
	return nil
}

// isEmpty reports whether m is nil or has a zero dimension.
func isEmpty(m *mat.Dense) bool {
	if m == nil || m.IsEmpty() {
		return true
	}
	rows, cols := m.Dims()
	return rows == 0 || cols == 0
}
