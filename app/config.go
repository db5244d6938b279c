package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
	"github.com/Raysphere24/HenonViewer4D/henon/orient"
	"github.com/Raysphere24/HenonViewer4D/henon/tasks/viewer"
)

// Config is the viewer configuration file.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	View    ViewConfig    `yaml:"view"`
	Input   InputConfig   `yaml:"input"`
	Model   ModelConfig   `yaml:"model"`
	Render  RenderConfig  `yaml:"render"`
	Console ConsoleConfig `yaml:"console"`

	// ExitOnFatal makes a fatal error end the run immediately instead of
	// waiting on the error screen. Set by the headless runner.
	ExitOnFatal bool `yaml:"-"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scale  int    `yaml:"scale"`
	Title  string `yaml:"title"`
	Tint   RGB    `yaml:"tint"`
}

type ViewConfig struct {
	BoundY      float32 `yaml:"boundY"`
	EyeDistance float32 `yaml:"eyeDistance"`
}

type InputConfig struct {
	DragDivisor  float32 `yaml:"dragDivisor"`
	WheelDivisor float32 `yaml:"wheelDivisor"`
	Mode         string  `yaml:"mode"`
}

type ModelConfig struct {
	Path        string   `yaml:"path"`
	MaxBytes    int64    `yaml:"maxBytes"`
	HTTPTimeout Duration `yaml:"httpTimeout"`
}

type RenderConfig struct {
	ClearColor RGB  `yaml:"clearColor"`
	Color      RGB  `yaml:"color"`
	Depth      bool `yaml:"depth"`
	HUD        bool `yaml:"hud"`
}

type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
	Lines   int  `yaml:"lines"`
}

// RGB is a color written as [r, g, b] with 0-255 channels.
type RGB [3]int

func (c RGB) Color() hypergl.Color {
	return hypergl.RGB(uint8(c[0]), uint8(c[1]), uint8(c[2]))
}

func (c RGB) valid() bool {
	for _, v := range c {
		if v < 0 || v > 255 {
			return false
		}
	}
	return true
}

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// DefaultModel is loaded at startup unless the configuration names another.
const DefaultModel = "depth42.4pa"

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  512,
			Height: 512,
			Scale:  1,
			Title:  "HenonViewer4D",
			Tint:   RGB{255, 255, 255},
		},
		View: ViewConfig{
			BoundY:      2.5,
			EyeDistance: 5,
		},
		Input: InputConfig{
			DragDivisor:  128,
			WheelDivisor: -256,
			Mode:         orient.ModeXYZ.String(),
		},
		Model: ModelConfig{
			Path:        DefaultModel,
			MaxBytes:    256 << 20,
			HTTPTimeout: Duration(30 * time.Second),
		},
		Render: RenderConfig{
			ClearColor: RGB{0, 0, 0},
			Color:      RGB{255, 255, 255},
			Depth:      true,
			HUD:        true,
		},
		Console: ConsoleConfig{
			Enabled: false,
			Lines:   8,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
// Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Scale < 1 {
		errs = append(errs, fmt.Errorf("window: scale %d must be at least 1", c.Window.Scale))
	}
	if !c.Window.Tint.valid() {
		errs = append(errs, fmt.Errorf("window: tint %v out of range", c.Window.Tint))
	}
	if !positive(c.View.BoundY) {
		errs = append(errs, fmt.Errorf("view: boundY %v must be positive", c.View.BoundY))
	}
	if !positive(c.View.EyeDistance) {
		errs = append(errs, fmt.Errorf("view: eyeDistance %v must be positive", c.View.EyeDistance))
	}
	if !nonzero(c.Input.DragDivisor) || !nonzero(c.Input.WheelDivisor) {
		errs = append(errs, fmt.Errorf("input: divisors %v, %v must be finite and nonzero", c.Input.DragDivisor, c.Input.WheelDivisor))
	}
	if _, err := orient.ParseMode(c.Input.Mode); err != nil {
		errs = append(errs, fmt.Errorf("input: %w", err))
	}
	if c.Model.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("model: maxBytes %d must not be negative", c.Model.MaxBytes))
	}
	if c.Model.HTTPTimeout < 0 {
		errs = append(errs, errors.New("model: httpTimeout must not be negative"))
	}
	if !c.Render.ClearColor.valid() || !c.Render.Color.valid() {
		errs = append(errs, errors.New("render: color channels must be 0-255"))
	}
	if c.Console.Lines <= 0 {
		errs = append(errs, fmt.Errorf("console: lines %d must be positive", c.Console.Lines))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// positive reports whether v is finite and above zero. NaN fails.
func positive(v float32) bool {
	return v > 0 && !math32.IsInf(v, 1)
}

func nonzero(v float32) bool {
	return v != 0 && !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

// Viewer converts c to the viewer task's configuration. c must be valid.
func (c Config) Viewer() viewer.Config {
	mode, _ := orient.ParseMode(c.Input.Mode)
	return viewer.Config{
		BoundY:       c.View.BoundY,
		EyeDistance:  c.View.EyeDistance,
		DragDivisor:  c.Input.DragDivisor,
		WheelDivisor: c.Input.WheelDivisor,
		Mode:         mode,
		Model:        c.Model.Path,
		MaxBytes:     c.Model.MaxBytes,
		HTTPTimeout:  time.Duration(c.Model.HTTPTimeout),
		ClearColor:   c.Render.ClearColor.Color(),
		Color:        c.Render.Color.Color(),
		Depth:        c.Render.Depth,
		HUD:          c.Render.HUD,
		Console:      c.Console.Enabled,
		ConsoleLines: c.Console.Lines,
	}
}

// Tint returns the window tint as shader factors in [0, 1].
func (c Config) Tint() [3]float32 {
	var t [3]float32
	for i, v := range c.Window.Tint {
		t[i] = float32(v) / 255
	}
	return t
}
