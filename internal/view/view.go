// Package view owns the state of one scatter plot.
//
// A View is the only thing that mutates the dataset, schema, selection,
// scales and marks of a plot. Every mutation goes through a method that
// runs the filter, scale, reconcile and legend stages in that order.
// Loads are split into BeginLoad and CompleteLoad so the caller can run
// the fetch elsewhere; completions carrying an outdated token are
// dropped.
package view

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/san-kum/scatterview/internal/dataset"
	"github.com/san-kum/scatterview/internal/legend"
	"github.com/san-kum/scatterview/internal/reconcile"
	"github.com/san-kum/scatterview/internal/scale"
	"github.com/san-kum/scatterview/internal/schema"
	"github.com/san-kum/scatterview/internal/selection"
	"github.com/san-kum/scatterview/internal/tween"
	"github.com/sirupsen/logrus"
)

var ErrNotReady = errors.New("view: no usable dataset")

// Token identifies one load request. Tokens increase monotonically.
type Token uint64

type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Degraded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Degraded:
		return "degraded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type Status struct {
	Phase   Phase
	Message string
	Err     error
}

type View struct {
	opts Options

	token     Token
	requested string
	status    Status

	ds      *dataset.Dataset
	schema  schema.Schema
	sel     selection.State
	class   schema.Resolver
	palette *legend.Palette
	scales  scale.Scales
	entries []legend.Entry
	shown   int

	xMin, xMax tween.Float
	yMin, yMax tween.Float

	marks   *reconcile.Reconciler
	tooltip *legend.Tooltip
}

func New(opts Options) *View {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &View{
		opts:    opts,
		marks:   reconcile.New(opts.Timing),
		tooltip: legend.NewTooltip(opts.TooltipDX, opts.TooltipDY),
	}
}

// BeginLoad records path as the current request and returns its token.
func (v *View) BeginLoad(path string) Token {
	v.token++
	v.requested = path
	v.status = Status{Phase: Loading, Message: fmt.Sprintf("Loading %s ...", path)}
	logrus.WithFields(logrus.Fields{"path": path, "token": v.token}).Info("load requested")
	return v.token
}

// Requested returns the path of the current load request.
func (v *View) Requested() string { return v.requested }

// CompleteLoad applies the outcome of the load identified by tok. It
// returns false and changes nothing when tok is no longer current.
func (v *View) CompleteLoad(tok Token, ds *dataset.Dataset, err error) bool {
	if tok != v.token {
		logrus.WithFields(logrus.Fields{"token": tok, "current": v.token}).Warn("discarding stale load")
		return false
	}

	v.tooltip.Leave()
	v.marks.Clear()
	v.entries = nil
	v.shown = 0

	if err != nil {
		v.ds = nil
		v.schema = schema.Schema{}
		v.status = Status{Phase: Failed, Message: "No dataset available.", Err: err}
		logrus.WithError(err).Error("dataset load failed")
		return true
	}

	v.ds = ds
	sch, serr := schema.Discover(ds, v.opts.PerRecordClass)
	v.schema = sch
	v.sel = selection.New(sch)
	v.class = sch.Resolver(v.opts.PerRecordClass)

	pal, perr := legend.NewPalette(v.opts.Palette, sch.Classes)
	if perr != nil {
		v.status = Status{Phase: Failed, Message: "Invalid colour palette.", Err: perr}
		return true
	}
	v.palette = pal

	if serr != nil {
		v.status = Status{Phase: Degraded, Message: degradedMessage(ds, sch), Err: serr}
		logrus.WithError(serr).Warn("dataset not plottable")
		return true
	}

	v.status = Status{
		Phase:   Ready,
		Message: fmt.Sprintf("Loaded %d rows, numeric columns: %d", ds.Len(), len(sch.Numeric)),
	}
	if ds.FellBack() {
		v.status.Message += fmt.Sprintf(" (fallback %s)", ds.Path)
	}
	v.pass(true)
	return true
}

func degradedMessage(ds *dataset.Dataset, sch schema.Schema) string {
	if ds.Len() == 0 {
		return "Dataset is empty; nothing to plot."
	}
	return fmt.Sprintf("Loaded %d rows but only %d numeric columns; axes disabled.", ds.Len(), len(sch.Numeric))
}

func (v *View) Status() Status { return v.status }

func (v *View) Schema() schema.Schema { return v.schema }

func (v *View) Selection() selection.State { return v.sel }

func (v *View) Dataset() *dataset.Dataset { return v.ds }

func (v *View) ready() bool { return v.status.Phase == Ready }

// SetX, SetY and SetClassFilter change one selector and run a pass.
func (v *View) SetX(attr string) error {
	return v.mutate(func(s *selection.State) error { return s.SetX(attr) })
}

func (v *View) SetY(attr string) error {
	return v.mutate(func(s *selection.State) error { return s.SetY(attr) })
}

func (v *View) SetClassFilter(class string) error {
	return v.mutate(func(s *selection.State) error { return s.SetClassFilter(class) })
}

func (v *View) CycleX(delta int) error {
	return v.mutate(func(s *selection.State) error { s.CycleX(delta); return nil })
}

func (v *View) CycleY(delta int) error {
	return v.mutate(func(s *selection.State) error { s.CycleY(delta); return nil })
}

func (v *View) CycleClass(delta int) error {
	return v.mutate(func(s *selection.State) error { s.CycleClass(delta); return nil })
}

// Reset restores the load-time selection.
func (v *View) Reset() error {
	return v.mutate(func(s *selection.State) error { s.Reset(); return nil })
}

func (v *View) mutate(f func(*selection.State) error) error {
	if !v.ready() {
		return ErrNotReady
	}
	if err := f(&v.sel); err != nil {
		return err
	}
	v.pass(false)
	return nil
}

// Resize changes the plot area and rebuilds every mark in place.
func (v *View) Resize(w, h float64) {
	v.opts.Width, v.opts.Height = w, h
	v.tooltip.Leave()
	if v.ready() {
		v.pass(true)
	}
}

// pass runs filter, scales, reconcile and legend. A rebuild places the
// marks and axes without animation.
func (v *View) pass(rebuild bool) {
	now := v.opts.Now()
	sc, err := scale.Compute(v.ds, v.sel.X, v.sel.Y, v.opts.Width, v.opts.Height)
	if err != nil {
		v.tooltip.Leave()
		v.status = Status{Phase: Degraded, Message: "Select two numeric attributes.", Err: err}
		return
	}
	v.scales = sc

	filtered := reconcile.Filter(v.ds.Records, v.class, v.sel)
	targets := reconcile.Targets(filtered, sc, v.class, v.palette.Color, v.opts.Key)
	v.shown = len(filtered)

	if rebuild {
		v.marks.Rebuild(targets)
		v.xMin.Jump(sc.X.Domain.Min)
		v.xMax.Jump(sc.X.Domain.Max)
		v.yMin.Jump(sc.Y.Domain.Min)
		v.yMax.Jump(sc.Y.Domain.Max)
	} else {
		v.marks.Apply(now, targets)
		d, e := v.opts.AxisDuration, v.opts.Timing.Ease
		v.xMin.Retarget(now, sc.X.Domain.Min, d, e)
		v.xMax.Retarget(now, sc.X.Domain.Max, d, e)
		v.yMin.Retarget(now, sc.Y.Domain.Min, d, e)
		v.yMax.Retarget(now, sc.Y.Domain.Max, d, e)
	}

	v.entries = legend.Build(v.schema.Classes, v.palette, v.opts.Legend)
	v.refreshTooltip(now)

	logrus.WithFields(logrus.Fields{
		"x":      v.sel.X,
		"y":      v.sel.Y,
		"filter": v.sel.ClassFilter,
		"shown":  v.shown,
	}).Debug("view updated")
}

// refreshTooltip rebinds a visible tooltip to whatever record its mark
// now shows, or hides it when the mark is gone or leaving.
func (v *View) refreshTooltip(now time.Time) {
	if !v.tooltip.Visible {
		return
	}
	for _, m := range v.marks.Marks(now) {
		if m.Key == v.tooltip.Key && !m.Exiting {
			v.tooltip.Refresh(m, v.sel.X, v.sel.Y)
			return
		}
	}
	v.tooltip.Leave()
}

// Advance drops finished exits and reports whether anything is still
// animating.
func (v *View) Advance(now time.Time) bool {
	v.marks.Advance(now)
	if v.marks.Animating(now) {
		return true
	}
	for _, t := range []tween.Float{v.xMin, v.xMax, v.yMin, v.yMax} {
		if !t.Done(now) {
			return true
		}
	}
	return false
}

// Hover moves the pointer to pt, in plot coordinates. The tooltip
// enters, follows or leaves depending on the mark under the pointer.
func (v *View) Hover(pt legend.Point) {
	if !v.ready() {
		v.tooltip.Leave()
		return
	}
	marks := v.marks.Marks(v.opts.Now())
	i, ok := legend.HitTest(scaled(marks, v.opts.MarkScale), pt, v.opts.HitRadius)
	switch {
	case !ok:
		v.tooltip.Leave()
	case v.tooltip.Visible && v.tooltip.Key == marks[i].Key:
		v.tooltip.Move(pt)
	default:
		v.tooltip.Enter(marks[i], v.sel.X, v.sel.Y, pt)
	}
}

// scaled returns marks with radii as drawn. A zero scale means 1.
func scaled(marks []reconcile.Mark, k float64) []reconcile.Mark {
	if k == 0 || k == 1 {
		return marks
	}
	out := make([]reconcile.Mark, len(marks))
	for i, m := range marks {
		m.R *= k
		out[i] = m
	}
	return out
}

// Leave hides the tooltip when the pointer leaves the plot.
func (v *View) Leave() {
	v.tooltip.Leave()
}

// Snapshot lays the current dataset and selection out again with opts
// and returns the settled frame. The view itself is not changed.
func (v *View) Snapshot(opts Options) (Frame, error) {
	if !v.ready() {
		return Frame{Status: v.status}, ErrNotReady
	}
	s := New(opts)
	s.token, s.requested = 1, v.requested
	s.CompleteLoad(s.token, v.ds, nil)
	for _, set := range []func() error{
		func() error { return s.SetX(v.sel.X) },
		func() error { return s.SetY(v.sel.Y) },
		func() error { return s.SetClassFilter(v.sel.ClassFilter) },
	} {
		if err := set(); err != nil {
			return Frame{}, err
		}
	}
	s.Resize(opts.Width, opts.Height)
	return s.Frame(s.opts.Now()), nil
}
