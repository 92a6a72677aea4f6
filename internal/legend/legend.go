// Package legend lays out the class legend and drives the hover
// tooltip.
package legend

import (
	"fmt"
	"math"

	"github.com/san-kum/scatterview/internal/dataset"
	"github.com/san-kum/scatterview/internal/reconcile"
)

type Layout struct {
	MaxEntries int
	Stride     int
	Swatch     int
}

func DefaultLayout() Layout {
	return Layout{MaxEntries: 7, Stride: 20, Swatch: 12}
}

// Entry is one legend row, positioned relative to the legend origin.
type Entry struct {
	Class  dataset.Value
	Label  string
	Color  string
	Y      int
	Swatch int
}

// Build lists the first MaxEntries classes of the whole dataset in a
// vertical stack.
func Build(classes []dataset.Value, p *Palette, l Layout) []Entry {
	n := len(classes)
	if l.MaxEntries >= 0 && n > l.MaxEntries {
		n = l.MaxEntries
	}
	entries := make([]Entry, 0, n)
	for i, c := range classes[:n] {
		entries = append(entries, Entry{
			Class:  c,
			Label:  c.String(),
			Color:  p.Hex(c),
			Y:      i * l.Stride,
			Swatch: l.Swatch,
		})
	}
	return entries
}

type Point struct {
	X, Y float64
}

// Tooltip is the hover overlay. Its position is always the pointer
// plus a fixed offset.
type Tooltip struct {
	Visible bool
	Key     int
	Lines   []string
	Pos     Point

	offset Point
}

func NewTooltip(dx, dy float64) *Tooltip {
	return &Tooltip{offset: Point{dx, dy}}
}

// Enter shows the tooltip for m, describing its class and the two axis
// values of its record.
func (t *Tooltip) Enter(m reconcile.Mark, xAttr, yAttr string, pointer Point) {
	t.Refresh(m, xAttr, yAttr)
	t.Move(pointer)
}

// Refresh rebinds the tooltip to m without moving it.
func (t *Tooltip) Refresh(m reconcile.Mark, xAttr, yAttr string) {
	t.Visible = true
	t.Key = m.Key
	t.Lines = []string{
		fmt.Sprintf("Class: %s", display(m.Class)),
		fmt.Sprintf("%s: %s", xAttr, display(m.Record.Get(xAttr))),
		fmt.Sprintf("%s: %s", yAttr, display(m.Record.Get(yAttr))),
	}
}

func (t *Tooltip) Move(pointer Point) {
	t.Pos = Point{pointer.X + t.offset.X, pointer.Y + t.offset.Y}
}

func (t *Tooltip) Leave() {
	t.Visible = false
	t.Lines = nil
}

func display(v dataset.Value) string {
	if v.IsNull() {
		return "null"
	}
	return v.String()
}

// HitTest returns the index of the mark nearest to pt whose centre lies
// within radius plus the mark's own radius. Exiting marks are skipped.
func HitTest(marks []reconcile.Mark, pt Point, radius float64) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, m := range marks {
		if m.Exiting {
			continue
		}
		d := math.Hypot(m.X-pt.X, m.Y-pt.Y)
		if d <= radius+m.R && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
