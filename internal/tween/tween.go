// Package tween provides interruptible transitions.
//
// A tween is never queued behind another. Retargeting starts a new
// transition from whatever value is showing at that instant, so a burst
// of updates produces one continuous motion.
package tween

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

func Linear(t float64) float64 { return t }

// CubicOut decelerates towards the end.
func CubicOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Clamp returns d, or zero when d is negative.
func Clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

type clock struct {
	start time.Time
	dur   time.Duration
	ease  Easing
}

func (c clock) progress(now time.Time) float64 {
	if c.dur <= 0 {
		return 1
	}
	p := float64(now.Sub(c.start)) / float64(c.dur)
	p = math.Max(0, math.Min(1, p))
	if c.ease != nil {
		return c.ease(p)
	}
	return p
}

func (c clock) done(now time.Time) bool {
	return c.dur <= 0 || !now.Before(c.start.Add(c.dur))
}

// Float is a tweened scalar.
type Float struct {
	from, to float64
	clock
}

// Settled returns a tween already at v.
func Settled(v float64) Float {
	return Float{from: v, to: v}
}

func (f Float) At(now time.Time) float64 {
	p := f.progress(now)
	if p >= 1 {
		return f.to
	}
	return f.from + (f.to-f.from)*p
}

func (f Float) Target() float64 { return f.to }

func (f Float) Done(now time.Time) bool { return f.done(now) }

// Retarget starts a transition from the value showing at now.
func (f *Float) Retarget(now time.Time, to float64, d time.Duration, e Easing) {
	f.from = f.At(now)
	f.to = to
	f.clock = clock{start: now, dur: Clamp(d), ease: e}
}

// Jump settles the tween at v immediately.
func (f *Float) Jump(v float64) {
	*f = Settled(v)
}

// Color is a tweened colour, blended in Lab space.
type Color struct {
	from, to colorful.Color
	clock
}

func SettledColor(c colorful.Color) Color {
	return Color{from: c, to: c}
}

func (c Color) At(now time.Time) colorful.Color {
	p := c.progress(now)
	switch {
	case p <= 0:
		return c.from
	case p >= 1:
		return c.to
	}
	return c.from.BlendLab(c.to, p).Clamped()
}

func (c Color) Target() colorful.Color { return c.to }

func (c Color) Done(now time.Time) bool { return c.done(now) }

func (c *Color) Retarget(now time.Time, to colorful.Color, d time.Duration, e Easing) {
	c.from = c.At(now)
	c.to = to
	c.clock = clock{start: now, dur: Clamp(d), ease: e}
}
