package scalespace

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/blob-detector/internal/imaging"
)

// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown scale-space strategy")

// Strategy selects how a Space is constructed and which response threshold
// applies to it. Strategies are stateless.
type Strategy int

const (
	// LoG builds |sigma^2 * Laplacian(Gaussian(image, sigma))| responses.
	LoG Strategy = iota

	// DoG builds min-max normalized |sigma^2 * (G(sigma_i) - G(sigma_i+1))|
	// responses from adjacent Gaussian blurs.
	DoG
)

// schedule describes the log-scale sampling: sigma = e^t for t = start,
// start+step, ... while t <= stop.
type schedule struct {
	start, stop, step float64
}

var schedules = map[Strategy]schedule{
	LoG: {start: 0.5, stop: 3.5, step: 0.4},
	DoG: {start: 1.0, stop: 3.2, step: 0.4},
}

// Thresholds differ because the two responses are normalized differently.
var thresholds = map[Strategy]float64{
	LoG: 0.35,
	DoG: 0.7,
}

// String returns the short name of the strategy.
func (s Strategy) String() string {
	switch s {
	case LoG:
		return "LoG"
	case DoG:
		return "DoG"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	_, ok := schedules[s]
	return ok
}

// Threshold is the minimum response a scale-space maximum must exceed to be
// reported as a blob.
func (s Strategy) Threshold() float64 {
	return thresholds[s]
}

// Sigmas returns the blur scales sampled by the strategy, in increasing order.
//
// The parameter t is accumulated by repeated addition, so the number of
// samples matches a plain float loop: 8 for LoG and 6 for DoG.
func (s Strategy) Sigmas() []float64 {
	sch, ok := schedules[s]
	if !ok {
		return nil
	}

	var sigmas []float64
	for t := sch.start; t <= sch.stop; t += sch.step {
		sigmas = append(sigmas, math.Exp(t))
	}
	return sigmas
}

// MinSize is the smallest width and height the strategy accepts: the kernel
// width of its first (smallest) scale.
func (s Strategy) MinSize() int {
	sch, ok := schedules[s]
	if !ok {
		return 0
	}
	return imaging.KernelWidth(math.Exp(sch.start))
}

// ParseStrategy looks up a strategy by name. Matching is case-insensitive and
// the empty string selects LoG.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "log", "laplacian", "laplacian-of-gaussian":
		return LoG, nil
	case "dog", "difference", "difference-of-gaussians":
		return DoG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
