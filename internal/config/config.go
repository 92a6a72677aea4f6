package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataset  = "data/landsat.csv"
	DefaultFallback = "data/landsat_sample.csv"

	DefaultWidth       = 720
	DefaultChartHeight = 420
	MinPlotWidth       = 320

	DefaultMarkRadius  = 4.5
	DefaultMarkOpacity = 0.85
	DefaultTooltipDX   = 12
	DefaultTooltipDY   = 12
	DefaultXTicks      = 8
	DefaultYTicks      = 6
	DefaultLegendMax   = 7
)

// Key modes for mark identity.
const (
	KeyIndex  = "index"
	KeyRecord = "record"
)

// Class resolution modes.
const (
	ClassCanonical = "canonical"
	ClassPerRecord = "per_record"
)

type Config struct {
	Dataset     string           `yaml:"dataset"`
	Fallback    string           `yaml:"fallback"`
	Theme       string           `yaml:"theme"`
	Key         string           `yaml:"key"`
	ClassMode   string           `yaml:"class_mode"`
	Width       int              `yaml:"width"`
	ChartHeight int              `yaml:"chart_height"`
	Margin      MarginConfig     `yaml:"margin"`
	Transitions TransitionConfig `yaml:"transitions"`
	Marks       MarkConfig       `yaml:"marks"`
	Axes        AxisConfig       `yaml:"axes"`
	Legend      LegendConfig     `yaml:"legend"`
	Tooltip     TooltipConfig    `yaml:"tooltip"`
	Palette     []string         `yaml:"palette"`
	OutDir      string           `yaml:"out_dir"`
}

type MarginConfig struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// TransitionConfig holds durations in milliseconds.
type TransitionConfig struct {
	EnterMs  int `yaml:"enter_ms"`
	UpdateMs int `yaml:"update_ms"`
	ExitMs   int `yaml:"exit_ms"`
	AxisMs   int `yaml:"axis_ms"`
}

type MarkConfig struct {
	Radius  float64 `yaml:"radius"`
	Opacity float64 `yaml:"opacity"`
}

type AxisConfig struct {
	XTicks    int    `yaml:"x_ticks"`
	YTicks    int    `yaml:"y_ticks"`
	TextColor string `yaml:"text_color"`
}

type LegendConfig struct {
	MaxEntries int `yaml:"max_entries"`
	Stride     int `yaml:"stride"`
	Swatch     int `yaml:"swatch"`
}

type TooltipConfig struct {
	OffsetX int `yaml:"offset_x"`
	OffsetY int `yaml:"offset_y"`
}

// DefaultPalette is the earth-like palette used for class colours.
var DefaultPalette = []string{
	"#2b6cb0",
	"#38a169",
	"#dd6b20",
	"#d53f8c",
	"#805ad5",
	"#718096",
	"#e53e3e",
}

func DefaultConfig() *Config {
	palette := make([]string, len(DefaultPalette))
	copy(palette, DefaultPalette)
	return &Config{
		Dataset:     DefaultDataset,
		Fallback:    DefaultFallback,
		Theme:       "ocean",
		Key:         KeyIndex,
		ClassMode:   ClassCanonical,
		Width:       DefaultWidth,
		ChartHeight: DefaultChartHeight,
		Margin:      MarginConfig{Top: 18, Right: 18, Bottom: 48, Left: 58},
		Transitions: TransitionConfig{EnterMs: 700, UpdateMs: 800, ExitMs: 500, AxisMs: 600},
		Marks:       MarkConfig{Radius: DefaultMarkRadius, Opacity: DefaultMarkOpacity},
		Axes:        AxisConfig{XTicks: DefaultXTicks, YTicks: DefaultYTicks, TextColor: "#9aa4b2"},
		Legend:      LegendConfig{MaxEntries: DefaultLegendMax, Stride: 20, Swatch: 12},
		Tooltip:     TooltipConfig{OffsetX: DefaultTooltipDX, OffsetY: DefaultTooltipDY},
		Palette:     palette,
		OutDir:      "exports",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the pipeline cannot work with.
func (c *Config) Validate() error {
	switch c.Key {
	case KeyIndex, KeyRecord:
	default:
		return errors.Errorf("config: unknown key mode %q", c.Key)
	}
	switch c.ClassMode {
	case ClassCanonical, ClassPerRecord:
	default:
		return errors.Errorf("config: unknown class mode %q", c.ClassMode)
	}
	if len(c.Palette) == 0 {
		return errors.New("config: palette must not be empty")
	}
	if c.Dataset == "" {
		return errors.New("config: dataset path must not be empty")
	}
	return nil
}

// PlotSize returns the inner drawing area for a container of the given
// width, following the fixed chart height.
func (c *Config) PlotSize(containerWidth int) (w, h int) {
	w = containerWidth - c.Margin.Left - c.Margin.Right
	if w < MinPlotWidth {
		w = MinPlotWidth
	}
	h = c.ChartHeight - c.Margin.Top - c.Margin.Bottom
	if h < 1 {
		h = 1
	}
	return w, h
}
