package view

import (
	"time"

	"github.com/san-kum/scatterview/internal/config"
	"github.com/san-kum/scatterview/internal/legend"
	"github.com/san-kum/scatterview/internal/reconcile"
	"github.com/san-kum/scatterview/internal/tween"
)

// Options fixes everything about a view that does not change between
// loads.
type Options struct {
	Key            reconcile.KeyMode
	PerRecordClass bool
	Timing         reconcile.Timing
	AxisDuration   time.Duration
	Palette        []string
	Legend         legend.Layout
	XTicks, YTicks int
	TooltipDX      float64
	TooltipDY      float64
	HitRadius      float64
	Width, Height  float64

	// MarkScale is the factor between mark radii and drawn radii, used
	// when hit-testing. Zero means 1.
	MarkScale float64

	// Now is the animation clock. Defaults to time.Now.
	Now func() time.Time
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// OptionsFrom derives view options from a config and the width of the
// container the plot lives in.
func OptionsFrom(cfg *config.Config, containerWidth int) Options {
	w, h := cfg.PlotSize(containerWidth)
	return Options{
		Key:            reconcile.ParseKeyMode(cfg.Key),
		PerRecordClass: cfg.ClassMode == config.ClassPerRecord,
		Timing: reconcile.Timing{
			Enter:  ms(cfg.Transitions.EnterMs),
			Update: ms(cfg.Transitions.UpdateMs),
			Exit:   ms(cfg.Transitions.ExitMs),
			Radius: cfg.Marks.Radius,
			Ease:   tween.CubicOut,
		},
		AxisDuration: ms(cfg.Transitions.AxisMs),
		Palette:      cfg.Palette,
		Legend: legend.Layout{
			MaxEntries: cfg.Legend.MaxEntries,
			Stride:     cfg.Legend.Stride,
			Swatch:     cfg.Legend.Swatch,
		},
		XTicks:    cfg.Axes.XTicks,
		YTicks:    cfg.Axes.YTicks,
		TooltipDX: float64(cfg.Tooltip.OffsetX),
		TooltipDY: float64(cfg.Tooltip.OffsetY),
		HitRadius: 2,
		Width:     float64(w),
		Height:    float64(h),
	}
}

// DefaultOptions is OptionsFrom applied to the default config.
func DefaultOptions() Options {
	return OptionsFrom(config.DefaultConfig(), config.DefaultWidth)
}
