// Package reconcile keeps a set of animated point marks in step with a
// filtered record sequence.
//
// Every pass classifies marks by key into exit, update and enter. Exits
// shrink to nothing and are dropped by Advance, updates glide to their
// new position and colour, and enters grow from radius zero at their
// target. A pass that arrives while marks are still moving retargets
// them from wherever they are.
package reconcile

import (
	"sort"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/scatterview/internal/dataset"
	"github.com/san-kum/scatterview/internal/scale"
	"github.com/san-kum/scatterview/internal/schema"
	"github.com/san-kum/scatterview/internal/tween"
	"github.com/sirupsen/logrus"
)

// KeyMode selects how a mark is matched to a record across passes.
type KeyMode int

const (
	// ByIndex keys a mark by its position in the filtered sequence.
	ByIndex KeyMode = iota
	// ByRecord keys a mark by the record's load position.
	ByRecord
)

func ParseKeyMode(s string) KeyMode {
	if s == "record" {
		return ByRecord
	}
	return ByIndex
}

type Timing struct {
	Enter, Update, Exit time.Duration
	Radius              float64
	Ease                tween.Easing
}

func DefaultTiming() Timing {
	return Timing{
		Enter:  700 * time.Millisecond,
		Update: 800 * time.Millisecond,
		Exit:   500 * time.Millisecond,
		Radius: 4.5,
		Ease:   tween.CubicOut,
	}
}

// Colorer returns the fill for a class value.
type Colorer func(class dataset.Value) colorful.Color

// Target is where a record's mark should end up.
type Target struct {
	Key    int
	Record dataset.Record
	Class  dataset.Value
	X, Y   float64
	Color  colorful.Color
}

// Targets maps filtered records through the scales, reading the
// attributes each axis was built for.
func Targets(records []dataset.Record, sc scale.Scales, class schema.Resolver, color Colorer, mode KeyMode) []Target {
	out := make([]Target, 0, len(records))
	for i, r := range records {
		xv, _ := r.Get(sc.X.Attr).Float()
		yv, _ := r.Get(sc.Y.Attr).Float()
		px, py := sc.Point(xv, yv)
		key := i
		if mode == ByRecord {
			key = r.ID
		}
		cv := class(r)
		out = append(out, Target{Key: key, Record: r, Class: cv, X: px, Y: py, Color: color(cv)})
	}
	return out
}

type mark struct {
	key     int
	record  dataset.Record
	class   dataset.Value
	x, y, r tween.Float
	fill    tween.Color
	exiting bool
}

// Mark is the sampled geometry of one mark at an instant.
type Mark struct {
	Key     int
	Record  dataset.Record
	Class   dataset.Value
	X, Y, R float64
	Color   colorful.Color
	Exiting bool
}

// Stats counts what a pass did.
type Stats struct {
	Entered, Updated, Exited int
}

type Reconciler struct {
	timing Timing
	marks  map[int]*mark
}

func New(timing Timing) *Reconciler {
	timing.Enter = tween.Clamp(timing.Enter)
	timing.Update = tween.Clamp(timing.Update)
	timing.Exit = tween.Clamp(timing.Exit)
	return &Reconciler{timing: timing, marks: make(map[int]*mark)}
}

// Apply runs one exit, update and enter pass against targets.
func (rc *Reconciler) Apply(now time.Time, targets []Target) Stats {
	var st Stats
	live := make(map[int]bool, len(targets))
	for _, t := range targets {
		live[t.Key] = true
	}

	t := rc.timing
	for key, m := range rc.marks {
		if live[key] || m.exiting {
			continue
		}
		m.exiting = true
		m.r.Retarget(now, 0, t.Exit, t.Ease)
		st.Exited++
	}

	for _, tg := range targets {
		m, ok := rc.marks[tg.Key]
		if !ok {
			m = &mark{
				key:  tg.Key,
				x:    tween.Settled(tg.X),
				y:    tween.Settled(tg.Y),
				r:    tween.Settled(0),
				fill: tween.SettledColor(tg.Color),
			}
			m.r.Retarget(now, t.Radius, t.Enter, t.Ease)
			rc.marks[tg.Key] = m
			st.Entered++
		} else {
			m.x.Retarget(now, tg.X, t.Update, t.Ease)
			m.y.Retarget(now, tg.Y, t.Update, t.Ease)
			m.fill.Retarget(now, tg.Color, t.Update, t.Ease)
			if m.exiting || m.r.Target() != t.Radius {
				m.r.Retarget(now, t.Radius, t.Enter, t.Ease)
			}
			m.exiting = false
			st.Updated++
		}
		m.record = tg.Record
		m.class = tg.Class
	}

	logrus.WithFields(logrus.Fields{
		"enter":  st.Entered,
		"update": st.Updated,
		"exit":   st.Exited,
	}).Debug("reconciled marks")
	return st
}

// Rebuild discards every mark and places targets at their final state.
func (rc *Reconciler) Rebuild(targets []Target) {
	rc.marks = make(map[int]*mark, len(targets))
	for _, tg := range targets {
		rc.marks[tg.Key] = &mark{
			key:    tg.Key,
			record: tg.Record,
			class:  tg.Class,
			x:      tween.Settled(tg.X),
			y:      tween.Settled(tg.Y),
			r:      tween.Settled(rc.timing.Radius),
			fill:   tween.SettledColor(tg.Color),
		}
	}
}

// Clear drops every mark without animation.
func (rc *Reconciler) Clear() {
	rc.marks = make(map[int]*mark)
}

// Advance removes exiting marks whose shrink has finished and reports
// how many were removed.
func (rc *Reconciler) Advance(now time.Time) int {
	n := 0
	for key, m := range rc.marks {
		if m.exiting && m.r.Done(now) {
			delete(rc.marks, key)
			n++
		}
	}
	return n
}

// Animating reports whether any tween is still in flight.
func (rc *Reconciler) Animating(now time.Time) bool {
	for _, m := range rc.marks {
		if !m.r.Done(now) || !m.x.Done(now) || !m.y.Done(now) || !m.fill.Done(now) {
			return true
		}
	}
	return false
}

func (rc *Reconciler) Len() int { return len(rc.marks) }

// Marks samples every mark at now, ordered by key.
func (rc *Reconciler) Marks(now time.Time) []Mark {
	out := make([]Mark, 0, len(rc.marks))
	for _, m := range rc.marks {
		out = append(out, Mark{
			Key:     m.key,
			Record:  m.record,
			Class:   m.class,
			X:       m.x.At(now),
			Y:       m.y.At(now),
			R:       m.r.At(now),
			Color:   m.fill.At(now),
			Exiting: m.exiting,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
