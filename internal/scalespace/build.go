package scalespace

import (
	"fmt"
	"log"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/blob-detector/internal/imaging"
)

// epsilon is the float64 machine epsilon. A DoG level whose response range
// is no larger than this is treated as flat.
var epsilon = math.Nextafter(1, 2) - 1

// Options configures Build.
type Options struct {
	// Filter performs blurring and Laplacian filtering.
	// Nil selects imaging.DefaultFilter().
	Filter imaging.Filter

	// Workers bounds how many levels are filtered concurrently.
	// Zero or negative selects runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives debug output. Nil disables logging.
	Logger *log.Logger
}

// Build converts a grayscale image normalized to [0, 1] into a Space.
//
// The image range is not re-checked here; callers own that precondition.
// Images smaller than strategy.MinSize() on either side are rejected with
// ErrImageTooSmall.
//
// # Algorithm
//
// LoG: for every sigma, blur with a KernelWidth(sigma) Gaussian, apply the
// Laplacian, multiply by sigma^2 and take the absolute value.
//
// DoG: for every sigma, blur as above. Once all blurs exist, level i (except
// the last) becomes |(blur_i - blur_i+1) * sigma_i^2| rescaled to [0, 1]. The
// last level keeps its blurred image and only serves as the upper neighbour
// of the level below it.
//
// Levels are filtered concurrently. DoG differencing starts only after every
// blur has finished.
func Build(gray *mat.Dense, strategy Strategy, opts Options) (*Space, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, strategy)
	}
	if gray == nil || gray.IsEmpty() {
		return nil, imaging.ErrEmptyImage
	}

	rows, cols := gray.Dims()
	if minSize := strategy.MinSize(); rows < minSize || cols < minSize {
		return nil, fmt.Errorf("%w: %dx%d, %v needs at least %dx%d",
			ErrImageTooSmall, cols, rows, strategy, minSize, minSize)
	}

	filter := opts.Filter
	if filter == nil {
		filter = imaging.DefaultFilter()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sigmas := strategy.Sigmas()
	levels := make([]Level, len(sigmas))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, sigma := range sigmas {
		i, sigma := i, sigma
		g.Go(func() error {
			img, err := filterLevel(filter, gray, strategy, sigma)
			if err != nil {
				return fmt.Errorf("level %d (sigma %.3f): %w", i, sigma, err)
			}
			levels[i] = Level{Image: img, Sigma: sigma}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if strategy == DoG {
		difference(levels, workers)
	}

	space := &Space{Strategy: strategy, Levels: levels}
	if err := space.Validate(); err != nil {
		return nil, err
	}

	if opts.Logger != nil {
		opts.Logger.Printf("built %v scale space: %d levels, %dx%d, sigma %.3f..%.3f",
			strategy, len(levels), cols, rows, sigmas[0], sigmas[len(sigmas)-1])
	}
	return space, nil
}

// filterLevel produces the per-sigma image: the LoG response, or the plain
// blur that DoG differences later.
func filterLevel(f imaging.Filter, gray *mat.Dense, strategy Strategy, sigma float64) (*mat.Dense, error) {
	blurred, err := f.Blur(gray, imaging.KernelWidth(sigma), sigma)
	if err != nil {
		return nil, err
	}
	if strategy != LoG {
		return blurred, nil
	}

	lap, err := f.Laplacian(blurred)
	if err != nil {
		return nil, err
	}
	lap.Scale(sigma*sigma, lap)
	lap.Apply(absElem, lap)
	return lap, nil
}

// difference replaces every level but the last with the normalized
// difference to the next level. Results go to fresh buffers so that no
// worker reads a level another worker has already replaced.
func difference(levels []Level, workers int) {
	diffs := make([]*mat.Dense, len(levels)-1)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range diffs {
		i := i
		g.Go(func() error {
			diffs[i] = normalizedDifference(levels[i].Image, levels[i+1].Image, levels[i].Sigma)
			return nil
		})
	}
	_ = g.Wait()

	for i, d := range diffs {
		levels[i].Image = d
	}
}

func normalizedDifference(a, b *mat.Dense, sigma float64) *mat.Dense {
	var d mat.Dense
	d.Sub(a, b)
	d.Scale(sigma*sigma, &d)
	d.Apply(absElem, &d)
	normalize01(d.RawMatrix().Data)
	return &d
}

// normalize01 linearly rescales data in place so that its minimum becomes 0
// and its maximum 1. A flat slice becomes all zeros.
func normalize01(data []float64) {
	lo, hi := floats.Min(data), floats.Max(data)
	if hi-lo <= epsilon {
		for i := range data {
			data[i] = 0
		}
		return
	}
	floats.AddConst(-lo, data)
	floats.Scale(1/(hi-lo), data)
}

func absElem(_, _ int, v float64) float64 {
	return math.Abs(v)
}
