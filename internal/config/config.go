package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"lightcone/internal/logging"
	"lightcone/internal/report"
	"lightcone/spacetime"
)

// Default values. DefaultX and DefaultY are the two space magnitudes the tool
// evaluates when run without arguments.
const (
	DefaultX        = 3.0
	DefaultY        = 4.0
	DefaultLang     = report.LangDE
	DefaultLogLevel = logging.LevelInfo

	DefaultWidth  = 480
	DefaultHeight = 400
	DefaultScale  = 2
	DefaultTPS    = 60

	DefaultYaw   = -0.6
	DefaultPitch = 0.5
	DefaultZoom  = 1.0
)

// Config is the full tool configuration. Fields map 1:1 to the YAML file.
type Config struct {
	Space     SpaceConfig     `yaml:"space"`
	Tolerance ToleranceConfig `yaml:"tolerance"`

	// Lang selects report and plot text: de | en.
	Lang report.Lang `yaml:"lang"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	Window WindowConfig `yaml:"window"`
	View   ViewConfig   `yaml:"view"`
}

// SpaceConfig holds the two legs of the triangle.
type SpaceConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ToleranceConfig bounds the ct² == x² + y² comparison.
type ToleranceConfig struct {
	Rel float64 `yaml:"rel"`
	Abs float64 `yaml:"abs"`
}

// Tolerance converts the config block to a spacetime.Tolerance.
func (t ToleranceConfig) Tolerance() spacetime.Tolerance {
	return spacetime.Tolerance{Rel: t.Rel, Abs: t.Abs}
}

// WindowConfig sizes the plot window.
type WindowConfig struct {
	// Width and Height are the framebuffer size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Scale multiplies the framebuffer size for the initial window size.
	Scale int `yaml:"scale"`

	// TPS is the update rate of the window loop.
	TPS int `yaml:"tps"`
}

// ViewConfig is the initial camera orientation in radians.
type ViewConfig struct {
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
	Zoom  float64 `yaml:"zoom"`
}

// Defaults returns a Config matching the tool's built-in constants.
func Defaults() *Config {
	return &Config{
		Space: SpaceConfig{X: DefaultX, Y: DefaultY},
		Tolerance: ToleranceConfig{
			Rel: spacetime.DefaultRelTolerance,
			Abs: spacetime.DefaultAbsTolerance,
		},
		Lang:     DefaultLang,
		LogLevel: DefaultLogLevel,
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Scale:  DefaultScale,
			TPS:    DefaultTPS,
		},
		View: ViewConfig{Yaw: DefaultYaw, Pitch: DefaultPitch, Zoom: DefaultZoom},
	}
}

// Load reads and parses the YAML config file at path.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of Defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and enums.
func (c *Config) Validate() error {
	var errs []error
	if !finite(c.Space.X) {
		errs = append(errs, fmt.Errorf("space.x must be finite, got %v", c.Space.X))
	}
	if !finite(c.Space.Y) {
		errs = append(errs, fmt.Errorf("space.y must be finite, got %v", c.Space.Y))
	}
	if !finite(c.Tolerance.Rel) || c.Tolerance.Rel < 0 {
		errs = append(errs, fmt.Errorf("tolerance.rel must be a non-negative number, got %v", c.Tolerance.Rel))
	}
	if !finite(c.Tolerance.Abs) || c.Tolerance.Abs < 0 {
		errs = append(errs, fmt.Errorf("tolerance.abs must be a non-negative number, got %v", c.Tolerance.Abs))
	}
	if !report.Supported(c.Lang) {
		errs = append(errs, fmt.Errorf("unknown lang %q (want de or en)", c.Lang))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Window.Width < 64 || c.Window.Width > 4096 {
		errs = append(errs, fmt.Errorf("window.width must be in [64, 4096], got %d", c.Window.Width))
	}
	if c.Window.Height < 64 || c.Window.Height > 4096 {
		errs = append(errs, fmt.Errorf("window.height must be in [64, 4096], got %d", c.Window.Height))
	}
	if c.Window.Scale < 1 || c.Window.Scale > 8 {
		errs = append(errs, fmt.Errorf("window.scale must be in [1, 8], got %d", c.Window.Scale))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window.tps must be positive"))
	}
	if !finite(c.View.Yaw) || !finite(c.View.Pitch) {
		errs = append(errs, fmt.Errorf("view.yaw and view.pitch must be finite"))
	}
	if !finite(c.View.Zoom) || c.View.Zoom <= 0 {
		errs = append(errs, fmt.Errorf("view.zoom must be positive, got %v", c.View.Zoom))
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
