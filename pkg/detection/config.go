package detection

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/blob-detector/internal/imaging"
	"github.com/ironsheep/blob-detector/internal/scalespace"
)

// LogLevelEnv overrides Config.LogLevel when set. "debug" enables logging.
const LogLevelEnv = "BLOB_LOG_LEVEL"

// Config controls a Detector.
//
// A zero Config is not valid; start from DefaultConfig or ParseConfig.
type Config struct {
	// Strategy names the scale-space construction: "log" or "dog".
	Strategy string `yaml:"strategy"`

	// Workers bounds how many scale levels are filtered concurrently.
	// Zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`

	// LogLevel is "" (quiet), "info" or "debug".
	LogLevel string `yaml:"log_level"`

	// Render controls the overlay drawn by Detector.Render.
	Render RenderConfig `yaml:"render"`

	// Filter overrides the blur/Laplacian backend. Not serialized.
	Filter imaging.Filter `yaml:"-"`
}

// RenderConfig controls blob overlays.
type RenderConfig struct {
	// Color is the circle colour as "#RRGGBB".
	Color string `yaml:"color"`

	// Thickness is the stroke width in pixels. Negative fills the circles.
	Thickness int `yaml:"thickness"`
}

// DefaultConfig returns the configuration used by Detect: LoG strategy,
// all CPUs, red circles two pixels wide.
func DefaultConfig() Config {
	return Config{
		Strategy: "log",
		Render: RenderConfig{
			Color:     "#FF0000",
			Thickness: 2,
		},
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
// Omitted fields keep their defaults.
//
// Example:
//
//	strategy: dog
//	workers: 4
//	render:
//	  color: "#00FF00"
//	  thickness: 1
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, err := scalespace.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid config: workers must be >= 0, got %d", c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "info", "debug":
	default:
		return fmt.Errorf("invalid config: unknown log level %q", c.LogLevel)
	}
	if c.Render.Thickness == 0 {
		return fmt.Errorf("invalid config: render thickness must be non-zero")
	}
	if _, err := imaging.ParseColor(c.Render.Color); err != nil {
		return fmt.Errorf("invalid config: render color: %w", err)
	}
	return nil
}

// strategy returns the parsed strategy. Call only on a validated Config.
func (c Config) strategy() scalespace.Strategy {
	s, _ := scalespace.ParseStrategy(c.Strategy)
	return s
}

// renderOptions converts the render section. Call only on a validated Config.
func (c Config) renderOptions() RenderOptions {
	col, _ := imaging.ParseColor(c.Render.Color)
	return RenderOptions{Color: col, Thickness: c.Render.Thickness}
}

// logger returns a stderr logger when debug logging is enabled, or a logger
// that discards everything.
func (c Config) logger() *log.Logger {
	level := c.LogLevel
	if env := os.Getenv(LogLevelEnv); env != "" {
		level = env
	}
	if strings.EqualFold(level, "debug") {
		return log.New(os.Stderr, "blob-detector: ", log.Ldate|log.Ltime|log.Lshortfile)
	}
	return log.New(io.Discard, "", 0)
}
