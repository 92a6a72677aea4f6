package view

import (
	"time"

	mscale "github.com/aclements/go-moremath/scale"
	"github.com/san-kum/scatterview/internal/legend"
	"github.com/san-kum/scatterview/internal/reconcile"
	"github.com/san-kum/scatterview/internal/scale"
	"github.com/san-kum/scatterview/internal/selection"
	"github.com/san-kum/scatterview/internal/tween"
)

// Frame is everything a surface needs to draw the plot at one instant.
// Coordinates are relative to the plot area's top-left corner.
type Frame struct {
	Width, Height float64

	Dataset   string
	Selection selection.State
	Rows      int
	Shown     int

	// Axes is false when no usable dataset is loaded; only Status
	// should be drawn then.
	Axes           bool
	X, Y           scale.Axis
	XTicks, YTicks []scale.Tick

	Marks   []reconcile.Mark
	Legend  []legend.Entry
	Tooltip legend.Tooltip
	Status  Status
}

// Frame samples the view at now.
func (v *View) Frame(now time.Time) Frame {
	f := Frame{
		Width:     v.opts.Width,
		Height:    v.opts.Height,
		Selection: v.sel,
		Status:    v.status,
		Tooltip:   *v.tooltip,
	}
	if v.ds != nil {
		f.Dataset = v.ds.Path
		f.Rows = v.ds.Len()
	}
	if !v.ready() {
		return f
	}

	f.Axes = true
	f.Shown = v.shown
	f.X = animatedAxis(v.scales.X, v.xMin, v.xMax, now)
	f.Y = animatedAxis(v.scales.Y, v.yMin, v.yMax, now)
	f.XTicks = f.X.Ticks(v.opts.XTicks)
	f.YTicks = f.Y.Ticks(v.opts.YTicks)
	f.Marks = v.marks.Marks(now)
	f.Legend = v.entries
	return f
}

// animatedAxis swaps the axis domain for the one showing at now.
func animatedAxis(a scale.Axis, lo, hi tween.Float, now time.Time) scale.Axis {
	a.Domain = mscale.Linear{Min: lo.At(now), Max: hi.At(now)}
	return a
}
