package detection

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/blob-detector/internal/extrema"
	"github.com/ironsheep/blob-detector/internal/imaging"
	"github.com/ironsheep/blob-detector/internal/scalespace"
)

// ErrNilImage is returned when a nil image is passed to the detector.
var ErrNilImage = errors.New("nil image")

// Strategy selects how the scale space is built.
type Strategy = scalespace.Strategy

const (
	LoG = scalespace.LoG
	DoG = scalespace.DoG
)

// ParseStrategy resolves a strategy name such as "log" or "dog".
// Matching is case-insensitive and the empty string selects LoG.
func ParseStrategy(name string) (Strategy, error) {
	return scalespace.ParseStrategy(name)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Blob is a detected blob.
type Blob struct {
	// Center is the blob's position in the input image's coordinates.
	Center Point `json:"center"`

	// Sigma is the scale the blob was found at.
	Sigma float64 `json:"sigma"`

	// Radius is Sigma*sqrt(2).
	Radius float64 `json:"radius"`

	// Response is the scale-space value at the blob's centre. Always above
	// the strategy's threshold.
	Response float64 `json:"response"`

	// Level is the scale-space level index.
	Level int `json:"level"`
}

// RadiusForSigma returns the radius of a blob detected at scale sigma.
func RadiusForSigma(sigma float64) float64 {
	return sigma * math.Sqrt2
}

// State is a Detector's progress through the detection pipeline.
type State int

const (
	Uninitialized State = iota
	ScaleSpaceBuilt
	BlobsDetected
	Rendered
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ScaleSpaceBuilt:
		return "scale space built"
	case BlobsDetected:
		return "blobs detected"
	case Rendered:
		return "rendered"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Detector runs blob detection on one image.
//
// New builds the scale space eagerly. Blobs scans it on first use and caches
// the result; Render draws the cached blobs over a copy of the image.
type Detector struct {
	img      image.Image
	cfg      Config
	strategy Strategy
	space    *scalespace.Space
	logger   *log.Logger

	once  sync.Once
	blobs []Blob
	err   error

	mu    sync.Mutex
	state State
}

// New converts img to grayscale and builds its scale space.
//
// Returns ErrNilImage, imaging.ErrEmptyImage or scalespace.ErrImageTooSmall
// when img cannot be processed, and a config error when cfg is invalid.
func New(img image.Image, cfg Config) (*Detector, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gray, err := imaging.ToGray(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	return newDetector(img, gray, cfg)
}

// NewFromGray builds a detector from a grayscale buffer normalized to [0, 1].
// Values outside the range are rejected with imaging.ErrNotNormalized.
//
// The buffer is used as-is for detection; an 8-bit rendition of it serves as
// the background for Render.
func NewFromGray(gray *mat.Dense, cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := imaging.CheckUnit(gray); err != nil {
		return nil, err
	}

	img, err := imaging.FromGray(gray)
	if err != nil {
		return nil, err
	}
	return newDetector(img, gray, cfg)
}

func newDetector(img image.Image, gray *mat.Dense, cfg Config) (*Detector, error) {
	d := &Detector{
		img:      img,
		cfg:      cfg,
		strategy: cfg.strategy(),
		logger:   cfg.logger(),
	}

	space, err := scalespace.Build(gray, d.strategy, scalespace.Options{
		Filter:  cfg.Filter,
		Workers: cfg.Workers,
		Logger:  d.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build scale space: %w", err)
	}

	d.space = space
	d.setState(ScaleSpaceBuilt)
	return d, nil
}

// Blobs returns the detected blobs ordered by level, then row, then column.
//
// The scan runs once; later calls return a copy of the cached result. An
// image without blobs yields an empty slice and no error.
func (d *Detector) Blobs() ([]Blob, error) {
	d.once.Do(d.detect)
	if d.err != nil {
		return nil, d.err
	}
	return slices.Clone(d.blobs), nil
}

func (d *Detector) detect() {
	candidates, err := extrema.Scan(d.space, d.strategy.Threshold())
	if err != nil {
		d.err = fmt.Errorf("failed to scan scale space: %w", err)
		return
	}

	offset := d.img.Bounds().Min
	perLevel := make([]int, d.space.Len())
	blobs := make([]Blob, 0, len(candidates))
	for _, c := range candidates {
		perLevel[c.Level]++
		blobs = append(blobs, Blob{
			Center:   Point{X: c.X + offset.X, Y: c.Y + offset.Y},
			Sigma:    c.Sigma,
			Radius:   RadiusForSigma(c.Sigma),
			Response: c.Response,
			Level:    c.Level,
		})
	}

	d.logger.Printf("%v: %d blobs above %.2f, per level %v",
		d.strategy, len(blobs), d.strategy.Threshold(), perLevel)

	d.blobs = blobs
	d.setState(BlobsDetected)
}

// Render draws every blob as a circle over a copy of the input image, using
// the colour and thickness from the detector's Config. The input image is
// never modified.
func (d *Detector) Render() (*image.NRGBA, error) {
	blobs, err := d.Blobs()
	if err != nil {
		return nil, err
	}

	out, err := Render(d.img, blobs, d.cfg.renderOptions())
	if err != nil {
		return nil, err
	}
	d.setState(Rendered)
	return out, nil
}

// ScaleSpace returns the scale space the detector scans. Callers must not
// modify it.
func (d *Detector) ScaleSpace() *scalespace.Space {
	return d.space
}

// Strategy returns the strategy the scale space was built with.
func (d *Detector) Strategy() Strategy {
	return d.strategy
}

// State returns the furthest pipeline stage reached so far.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// setState advances the state; it never moves backwards.
func (d *Detector) setState(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s > d.state {
		d.state = s
	}
}

// Detect runs blob detection on img with the default configuration and the
// given strategy.
func Detect(img image.Image, strategy Strategy) ([]Blob, error) {
	d, err := New(img, configFor(strategy))
	if err != nil {
		return nil, err
	}
	return d.Blobs()
}

// DetectGray runs blob detection on a grayscale buffer normalized to [0, 1].
func DetectGray(gray *mat.Dense, strategy Strategy) ([]Blob, error) {
	d, err := NewFromGray(gray, configFor(strategy))
	if err != nil {
		return nil, err
	}
	return d.Blobs()
}

func configFor(strategy Strategy) Config {
	cfg := DefaultConfig()
	cfg.Strategy = strategy.String()
	return cfg
}
