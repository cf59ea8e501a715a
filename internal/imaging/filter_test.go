package imaging

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKernelWidth(t *testing.T) {
	tests := []struct {
		sigma float64
		want  int
	}{
		{1.0, 7},
		{math.Exp(0.5), 11},
		{math.Exp(1.0), 19},
		{math.Exp(3.5), 201},
		{0.1, 3},
	}

	for _, tt := range tests {
		if got := KernelWidth(tt.sigma); got != tt.want {
			t.Errorf("KernelWidth(%f): got %d, want %d", tt.sigma, got, tt.want)
		}
		if KernelWidth(tt.sigma)%2 != 1 {
			t.Errorf("KernelWidth(%f) is even", tt.sigma)
		}
	}
}

func TestGaussianKernel(t *testing.T) {
	kernel := GaussianKernel(9, 1.5)

	var sum float64
	for _, w := range kernel {
		sum += w
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("kernel sum: got %f, want 1", sum)
	}

	for i := 0; i < len(kernel)/2; i++ {
		if kernel[i] != kernel[len(kernel)-1-i] {
			t.Errorf("kernel not symmetric at %d: %f vs %f", i, kernel[i], kernel[len(kernel)-1-i])
		}
		if kernel[i] >= kernel[i+1] {
			t.Errorf("kernel not increasing towards centre at %d", i)
		}
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-7, 5, 1},
		{13, 5, 3},
		{3, 1, 0},
	}

	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestNativeFilter_BlurUniform(t *testing.T) {
	src := constantDense(20, 30, 0.42)

	// A kernel wider than the image still keeps a flat image flat.
	for _, width := range []int{3, 11, 75} {
		out, err := NativeFilter{}.Blur(src, width, float64(width)/6)
		if err != nil {
			t.Fatalf("Blur(%d) failed: %v", width, err)
		}

		rows, cols := out.Dims()
		if rows != 20 || cols != 30 {
			t.Fatalf("dims: got %dx%d, want 30x20", cols, rows)
		}

		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				if math.Abs(out.At(y, x)-0.42) > 1e-12 {
					t.Fatalf("width %d: pixel (%d,%d) = %f, want 0.42", width, x, y, out.At(y, x))
				}
			}
		}
	}
}

func TestNativeFilter_BlurImpulse(t *testing.T) {
	src := mat.NewDense(21, 21, nil)
	src.Set(10, 10, 1)

	out, err := NativeFilter{}.Blur(src, 7, 1.0)
	if err != nil {
		t.Fatalf("Blur failed: %v", err)
	}

	kernel := GaussianKernel(7, 1.0)
	if want := kernel[3] * kernel[3]; math.Abs(out.At(10, 10)-want) > 1e-12 {
		t.Errorf("centre: got %f, want %f", out.At(10, 10), want)
	}
	if want := kernel[0] * kernel[3]; math.Abs(out.At(10, 7)-want) > 1e-12 {
		t.Errorf("kernel edge: got %f, want %f", out.At(10, 7), want)
	}
	if out.At(10, 6) != 0 {
		t.Errorf("outside kernel support: got %f, want 0", out.At(10, 6))
	}
	if out.At(8, 11) != out.At(11, 8) {
		t.Errorf("blur not symmetric: %f vs %f", out.At(8, 11), out.At(11, 8))
	}

	// Source untouched
	if src.At(10, 11) != 0 {
		t.Error("Blur modified its input")
	}
}

func TestNativeFilter_BlurInvalid(t *testing.T) {
	src := constantDense(5, 5, 0.5)

	if _, err := (NativeFilter{}).Blur(src, 4, 1); !errors.Is(err, ErrKernelWidth) {
		t.Errorf("even width: got %v, want ErrKernelWidth", err)
	}
	if _, err := (NativeFilter{}).Blur(src, 0, 1); !errors.Is(err, ErrKernelWidth) {
		t.Errorf("zero width: got %v, want ErrKernelWidth", err)
	}
	if _, err := (NativeFilter{}).Blur(src, 3, 0); !errors.Is(err, ErrSigma) {
		t.Errorf("zero sigma: got %v, want ErrSigma", err)
	}
	if _, err := (NativeFilter{}).Blur(nil, 3, 1); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil source: got %v, want ErrEmptyImage", err)
	}
}

func TestNativeFilter_Laplacian(t *testing.T) {
	// f(x, y) = x^2 + y^2 has a discrete Laplacian of exactly 4 away from the border.
	rows, cols := 9, 12
	src := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			src.Set(y, x, float64(x*x+y*y))
		}
	}

	out, err := NativeFilter{}.Laplacian(src)
	if err != nil {
		t.Fatalf("Laplacian failed: %v", err)
	}

	for y := 1; y < rows-1; y++ {
		for x := 1; x < cols-1; x++ {
			if out.At(y, x) != 4 {
				t.Fatalf("pixel (%d,%d): got %f, want 4", x, y, out.At(y, x))
			}
		}
	}

	// Reflect-101 at x=0: f(1)+f(1)-2f(0) = 2 horizontally.
	if got := out.At(4, 0); got != 4 {
		t.Errorf("left border (0,4): got %f, want 4", got)
	}
}

func TestNativeFilter_LaplacianFlat(t *testing.T) {
	out, err := NativeFilter{}.Laplacian(constantDense(6, 6, 0.3))
	if err != nil {
		t.Fatalf("Laplacian failed: %v", err)
	}

	first := out.At(0, 0)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if out.At(y, x) != first {
				t.Fatalf("flat input produced non-uniform output at (%d,%d)", x, y)
			}
		}
	}
	if math.Abs(first) > 1e-12 {
		t.Errorf("flat Laplacian: got %g, want ~0", first)
	}
}

func TestDefaultFilter(t *testing.T) {
	if DefaultFilter() == nil {
		t.Fatal("DefaultFilter returned nil")
	}
}

func constantDense(rows, cols int, v float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = v
	}
	return mat.NewDense(rows, cols, data)
}
