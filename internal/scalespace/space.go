package scalespace

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrTooFewLevels is returned for spaces with fewer than MinLevels levels.
	ErrTooFewLevels = errors.New("scale space needs at least 3 levels")

	// ErrDimensionMismatch is returned when levels differ in size.
	ErrDimensionMismatch = errors.New("scale space levels differ in size")

	// ErrSigmaOrder is returned when sigmas are not strictly increasing.
	ErrSigmaOrder = errors.New("scale space sigmas not strictly increasing")

	// ErrImageTooSmall is returned when the source image is smaller than the
	// smallest kernel of the strategy.
	ErrImageTooSmall = errors.New("image too small for scale space")
)

// MinLevels is the smallest usable stack: one interior level with a level
// below and above it.
const MinLevels = 3

// Level is one filtered copy of the source image.
type Level struct {
	// Image holds the response, one matrix row per image row.
	Image *mat.Dense

	// Sigma is the Gaussian standard deviation used to produce Image.
	Sigma float64
}

// Space is an ordered stack of levels with strictly increasing sigma.
//
// A Space owns its levels; candidates refer to them by index. It is not
// modified after Build returns.
type Space struct {
	Strategy Strategy
	Levels   []Level
}

// Len returns the number of levels.
func (s *Space) Len() int {
	return len(s.Levels)
}

// Dims returns the shared image size as (rows, cols), i.e. (height, width).
func (s *Space) Dims() (rows, cols int) {
	if len(s.Levels) == 0 || s.Levels[0].Image == nil {
		return 0, 0
	}
	return s.Levels[0].Image.Dims()
}

// Sigmas returns the sigma of every level in order.
func (s *Space) Sigmas() []float64 {
	sigmas := make([]float64, len(s.Levels))
	for i, l := range s.Levels {
		sigmas[i] = l.Sigma
	}
	return sigmas
}

// Validate checks the structural invariants: at least MinLevels levels,
// non-empty images of identical size and strictly increasing sigma.
func (s *Space) Validate() error {
	if s == nil || len(s.Levels) < MinLevels {
		n := 0
		if s != nil {
			n = len(s.Levels)
		}
		return fmt.Errorf("%w: got %d", ErrTooFewLevels, n)
	}

	rows, cols := s.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("%w: level 0 is empty", ErrDimensionMismatch)
	}

	for i, l := range s.Levels {
		if l.Image == nil {
			return fmt.Errorf("%w: level %d has no image", ErrDimensionMismatch, i)
		}
		if r, c := l.Image.Dims(); r != rows || c != cols {
			return fmt.Errorf("%w: level %d is %dx%d, level 0 is %dx%d",
				ErrDimensionMismatch, i, c, r, cols, rows)
		}
		if !(l.Sigma > 0) {
			return fmt.Errorf("%w: level %d has sigma %g", ErrSigmaOrder, i, l.Sigma)
		}
		if i > 0 && l.Sigma <= s.Levels[i-1].Sigma {
			return fmt.Errorf("%w: level %d sigma %g <= %g",
				ErrSigmaOrder, i, l.Sigma, s.Levels[i-1].Sigma)
		}
	}
	return nil
}
