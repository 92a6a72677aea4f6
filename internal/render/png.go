package render

import (
	"image/color"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/scatterview/internal/legend"
	"github.com/san-kum/scatterview/internal/reconcile"
	"github.com/san-kum/scatterview/internal/view"
)

var ErrNoAxes = errors.New("render: frame has no axes to plot")

// PNG draws a static snapshot of the frame with one scatter per class.
// Points are placed by their record values, so the snapshot does not
// depend on how far any animation has progressed.
func PNG(w io.Writer, f view.Frame, width, height vg.Length) error {
	if !f.Axes {
		return ErrNoAxes
	}

	p := plot.New()
	p.Title.Text = f.Dataset
	p.X.Label.Text = f.X.Attr
	p.Y.Label.Text = f.Y.Attr
	p.X.Min, p.X.Max = f.X.Domain.Min, f.X.Domain.Max
	p.Y.Min, p.Y.Max = f.Y.Domain.Min, f.Y.Domain.Max
	p.Add(plotter.NewGrid())

	groups, order := groupByClass(f.Marks, f.X.Attr, f.Y.Attr)
	colors := legendColors(f.Legend)
	for _, key := range order {
		g := groups[key]
		s, err := plotter.NewScatter(g.pts)
		if err != nil {
			return errors.Wrapf(err, "scatter for class %q", key)
		}
		s.Shape = draw.CircleGlyph{}
		s.Radius = vg.Points(3)
		s.Color = g.color
		if c, ok := colors[key]; ok {
			s.Color = c
		}
		p.Add(s)
		if _, ok := colors[key]; ok {
			p.Legend.Add(key, s)
		}
	}
	p.Legend.Top = true

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return errors.Wrap(err, "png canvas")
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "write png")
}

type classGroup struct {
	pts   plotter.XYs
	color color.Color
}

func groupByClass(marks []reconcile.Mark, x, y string) (map[string]*classGroup, []string) {
	groups := make(map[string]*classGroup)
	var order []string
	for _, m := range marks {
		if m.Exiting {
			continue
		}
		xv, okx := m.Record.Get(x).Float()
		yv, oky := m.Record.Get(y).Float()
		if !okx || !oky {
			continue
		}
		key := m.Class.String()
		g, ok := groups[key]
		if !ok {
			g = &classGroup{color: m.Color}
			groups[key] = g
			order = append(order, key)
		}
		g.pts = append(g.pts, plotter.XY{X: xv, Y: yv})
	}
	return groups, order
}

// legendColors maps legend labels to their settled palette colours.
func legendColors(entries []legend.Entry) map[string]color.Color {
	out := make(map[string]color.Color, len(entries))
	for _, e := range entries {
		if c, err := colorful.Hex(e.Color); err == nil {
			out[e.Label] = c
		}
	}
	return out
}
