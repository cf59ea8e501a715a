package imaging

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrKernelWidth is returned for even or non-positive kernel widths.
	ErrKernelWidth = errors.New("kernel width must be a positive odd number")

	// ErrSigma is returned for non-positive Gaussian standard deviations.
	ErrSigma = errors.New("sigma must be positive")
)

// Filter performs the smoothing primitives used to build a scale space.
//
// Implementations must return new buffers with the same dimensions as src
// and must not modify src.
type Filter interface {
	// Blur convolves src with a kernelWidth x kernelWidth Gaussian of
	// standard deviation sigma.
	Blur(src *mat.Dense, kernelWidth int, sigma float64) (*mat.Dense, error)

	// Laplacian applies the 4-neighbour discrete Laplacian to src.
	Laplacian(src *mat.Dense) (*mat.Dense, error)
}

// KernelWidth returns the odd Gaussian kernel width covering three standard
// deviations on each side of the centre: 2*ceil(3*sigma)+1.
func KernelWidth(sigma float64) int {
	return 2*int(math.Ceil(3*sigma)) + 1
}

// GaussianKernel returns the normalized 1-D Gaussian weights for the given
// odd width and sigma. The weights sum to 1.
func GaussianKernel(width int, sigma float64) []float64 {
	kernel := make([]float64, width)
	half := width / 2
	scale := -0.5 / (sigma * sigma)

	var sum float64
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(scale * d * d)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// NativeFilter is a pure Go Filter.
//
// The Gaussian blur is separable (a horizontal pass followed by a vertical
// pass) and the Laplacian uses the kernel
//
//	0  1  0
//	1 -4  1
//	0  1  0
//
// Border pixels are mirrored without repeating the edge (reflect-101), which
// keeps a constant image constant under both operators.
type NativeFilter struct{}

// Blur implements Filter.
func (NativeFilter) Blur(src *mat.Dense, kernelWidth int, sigma float64) (*mat.Dense, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	if kernelWidth < 1 || kernelWidth%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrKernelWidth, kernelWidth)
	}
	if !(sigma > 0) {
		return nil, fmt.Errorf("%w: got %g", ErrSigma, sigma)
	}

	rows, cols := src.Dims()
	in := src.RawMatrix()
	kernel := GaussianKernel(kernelWidth, sigma)
	half := kernelWidth / 2

	// Horizontal pass
	tmp := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		row := in.Data[y*in.Stride : y*in.Stride+cols]
		for x := 0; x < cols; x++ {
			var sum float64
			for k, w := range kernel {
				sum += w * row[reflect101(x+k-half, cols)]
			}
			tmp[y*cols+x] = sum
		}
	}

	// Vertical pass
	out := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var sum float64
			for k, w := range kernel {
				sum += w * tmp[reflect101(y+k-half, rows)*cols+x]
			}
			out[y*cols+x] = sum
		}
	}

	return mat.NewDense(rows, cols, out), nil
}

// Laplacian implements Filter.
func (NativeFilter) Laplacian(src *mat.Dense) (*mat.Dense, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}

	rows, cols := src.Dims()
	in := src.RawMatrix()
	at := func(x, y int) float64 {
		return in.Data[reflect101(y, rows)*in.Stride+reflect101(x, cols)]
	}

	out := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out[y*cols+x] = at(x, y-1) + at(x, y+1) + at(x-1, y) + at(x+1, y) - 4*at(x, y)
		}
	}

	return mat.NewDense(rows, cols, out), nil
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring about
// the edge pixels without repeating them: -1 -> 1, n -> n-2.
// Offsets larger than the image bounce between both edges.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*(n-1) - i
		}
	}
	return i
}
