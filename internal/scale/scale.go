// Package scale maps attribute values onto plot pixels.
//
// Domains always come from the whole dataset so a class filter never
// moves the axes. They are niced to tick boundaries and padded when an
// attribute holds a single value.
package scale

import (
	"fmt"
	"math"

	mscale "github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
	"github.com/pkg/errors"
	"github.com/san-kum/scatterview/internal/dataset"
)

var ErrNoAttribute = errors.New("scale: axis attribute not selected")

// Axis is one linear mapping from a niced domain to a pixel range.
// For a vertical axis From is the bottom edge and To the top.
type Axis struct {
	Attr     string
	Domain   mscale.Linear
	From, To float64
}

type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Scales is the pair of axis mappings for one plot area.
type Scales struct {
	X, Y          Axis
	Width, Height float64
}

// Compute builds the x and y mappings for a width by height plot area.
// Non-positive sizes are treated as 1px.
func Compute(ds *dataset.Dataset, x, y string, width, height float64) (Scales, error) {
	if x == "" || y == "" {
		return Scales{}, ErrNoAttribute
	}
	width, height = atLeastOne(width), atLeastOne(height)
	return Scales{
		X:      NewAxis(x, ds.Floats(x), 0, width),
		Y:      NewAxis(y, ds.Floats(y), height, 0),
		Width:  width,
		Height: height,
	}, nil
}

// NewAxis fits a niced domain around values and maps it onto
// [from, to].
func NewAxis(attr string, values []float64, from, to float64) Axis {
	lo, hi := Extent(values)
	dom := mscale.Linear{Min: lo, Max: hi}
	dom.Nice(mscale.TickOptions{Max: 10})
	return Axis{Attr: attr, Domain: dom, From: from, To: to}
}

// Extent returns the finite bounds of values. A single value is padded
// by one unit either side and an empty set yields [-1, 1].
func Extent(values []float64) (lo, hi float64) {
	finite := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return -1, 1
	}
	lo, hi = stats.Bounds(finite)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

func (a Axis) Map(v float64) float64 {
	return a.From + a.Domain.Map(v)*(a.To-a.From)
}

// Invert maps a pixel coordinate back into the domain.
func (a Axis) Invert(px float64) float64 {
	span := a.To - a.From
	if span == 0 {
		return a.Domain.Min
	}
	return a.Domain.Unmap((px - a.From) / span)
}

// Ticks returns at most max labelled major ticks inside the domain.
func (a Axis) Ticks(max int) []Tick {
	if max < 1 {
		max = 1
	}
	major, _ := a.Domain.Ticks(mscale.TickOptions{Max: max})
	ticks := make([]Tick, 0, len(major))
	for _, v := range major {
		ticks = append(ticks, Tick{Value: v, Pos: a.Map(v), Label: FormatTick(v)})
	}
	return ticks
}

func FormatTick(v float64) string {
	if v == 0 {
		// avoid "-0"
		v = 0
	}
	return fmt.Sprintf("%.6g", v)
}

// Point maps a pair of values to pixel coordinates.
func (s Scales) Point(x, y float64) (float64, float64) {
	return s.X.Map(x), s.Y.Map(y)
}

// Contains reports whether a pixel coordinate lies inside the area.
func (s Scales) Contains(px, py float64) bool {
	return px >= 0 && px <= s.Width && py >= 0 && py <= s.Height
}

func atLeastOne(v float64) float64 {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	return v
}
