//go:build gocv

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// DefaultFilter returns the Filter used when callers do not supply one.
// With the gocv build tag this is the OpenCV-backed OpenCVFilter.
func DefaultFilter() Filter {
	return OpenCVFilter{}
}

// OpenCVFilter implements Filter with OpenCV through gocv.
//
// Buffers are converted to single-channel CV_32F mats, so results differ from
// NativeFilter by float32 rounding only.
type OpenCVFilter struct{}

// Blur implements Filter using cv::GaussianBlur.
func (OpenCVFilter) Blur(src *mat.Dense, kernelWidth int, sigma float64) (*mat.Dense, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	if kernelWidth < 1 || kernelWidth%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrKernelWidth, kernelWidth)
	}
	if !(sigma > 0) {
		return nil, fmt.Errorf("%w: got %g", ErrSigma, sigma)
	}

	in := denseToMat(src)
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()

	gocv.GaussianBlur(in, &out, image.Point{X: kernelWidth, Y: kernelWidth}, sigma, sigma, gocv.BorderDefault)
	return matToDense(out)
}

// Laplacian implements Filter using cv::Laplacian with aperture size 1.
func (OpenCVFilter) Laplacian(src *mat.Dense) (*mat.Dense, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}

	in := denseToMat(src)
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()

	gocv.Laplacian(in, &out, gocv.MatTypeCV32F, 1, 1, 0, gocv.BorderDefault)
	return matToDense(out)
}

// denseToMat copies a float buffer into a new CV_32F mat. The caller closes it.
func denseToMat(m *mat.Dense) gocv.Mat {
	rows, cols := m.Dims()
	out := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out.SetFloatAt(y, x, float32(m.At(y, x)))
		}
	}
	return out
}

// matToDense copies a CV_32F mat into a new float buffer.
func matToDense(m gocv.Mat) (*mat.Dense, error) {
	if m.Empty() {
		return nil, fmt.Errorf("opencv returned an empty mat")
	}
	if m.Type() != gocv.MatTypeCV32F {
		return nil, fmt.Errorf("opencv returned mat type %v, want CV_32F", m.Type())
	}

	rows, cols := m.Rows(), m.Cols()
	data := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			data[y*cols+x] = float64(m.GetFloatAt(y, x))
		}
	}
	return mat.NewDense(rows, cols, data), nil
}
