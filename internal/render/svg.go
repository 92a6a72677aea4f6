// Package render draws view frames to files: SVG through svgo and PNG
// snapshots through gonum plot.
package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/san-kum/scatterview/internal/config"
	"github.com/san-kum/scatterview/internal/view"
)

// Style holds the chart chrome around the plot area.
type Style struct {
	Margin      config.MarginConfig
	Background  string
	Text        string
	LegendText  string
	Axis        string
	MarkOpacity float64
	FontSize    int
}

func DefaultStyle() Style {
	return StyleFrom(config.DefaultConfig())
}

func StyleFrom(cfg *config.Config) Style {
	return Style{
		Margin:      cfg.Margin,
		Background:  "#0b1220",
		Text:        cfg.Axes.TextColor,
		LegendText:  "#cbd5e1",
		Axis:        "#4a5568",
		MarkOpacity: cfg.Marks.Opacity,
		FontSize:    12,
	}
}

// legendInset is the distance of the legend from the right edge of the
// plot area.
const legendInset = 80

// SVG writes the frame as a standalone SVG document.
func SVG(w io.Writer, f view.Frame, st Style) error {
	pw, ph := int(f.Width), int(f.Height)
	m := st.Margin
	width, height := pw+m.Left+m.Right, ph+m.Top+m.Bottom

	canvas := svg.New(w)
	canvas.Start(width, height, fmt.Sprintf(`font-size="%dpx" font-family="Helvetica,Arial,sans-serif"`, st.FontSize))
	canvas.Rect(0, 0, width, height, "fill:"+st.Background)
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", m.Left, m.Top))

	if f.Axes {
		renderAxes(canvas, f, st, pw, ph)
		renderMarks(canvas, f, st)
		renderLegend(canvas, f, st, pw)
	}

	canvas.Gend()
	canvas.Text(m.Left, height-6, f.Status.Message, "fill:"+st.Text)
	if f.Tooltip.Visible {
		renderTooltip(canvas, f, st)
	}
	canvas.End()
	return nil
}

func renderAxes(canvas *svg.SVG, f view.Frame, st Style, pw, ph int) {
	line := "stroke:" + st.Axis + ";stroke-width:1"
	text := "fill:" + st.Text

	canvas.Group(`class="x axis"`, fmt.Sprintf(`transform="translate(0,%d)"`, ph))
	canvas.Line(0, 0, pw, 0, line)
	for _, tk := range f.XTicks {
		x := round(tk.Pos)
		canvas.Line(x, 0, x, 6, line)
		canvas.Text(x, 18, tk.Label, text+";text-anchor:middle")
	}
	canvas.Gend()

	canvas.Group(`class="y axis"`)
	canvas.Line(0, 0, 0, ph, line)
	for _, tk := range f.YTicks {
		y := round(tk.Pos)
		canvas.Line(-6, y, 0, y, line)
		canvas.Text(-9, y+4, tk.Label, text+";text-anchor:end")
	}
	canvas.Gend()

	canvas.Text(pw, ph+40, f.X.Attr, text+";text-anchor:end")
	// rotated frame: x runs up the y axis, y runs right
	canvas.Rotate(-90)
	canvas.Text(-10, -40, f.Y.Attr, text+";text-anchor:end")
	canvas.Gend()
}

func renderMarks(canvas *svg.SVG, f view.Frame, st Style) {
	canvas.Group(`class="points"`)
	for _, m := range f.Marks {
		r := round(m.R)
		if r <= 0 {
			continue
		}
		canvas.Circle(round(m.X), round(m.Y), r,
			fmt.Sprintf("fill:%s;opacity:%.2f", m.Color.Hex(), st.MarkOpacity))
	}
	canvas.Gend()
}

func renderLegend(canvas *svg.SVG, f view.Frame, st Style, pw int) {
	canvas.Gtransform(fmt.Sprintf("translate(%d,0)", pw-legendInset))
	for _, e := range f.Legend {
		canvas.Rect(0, e.Y, e.Swatch, e.Swatch, "fill:"+e.Color)
		canvas.Text(e.Swatch+4, e.Y+10, e.Label, "fill:"+st.LegendText)
	}
	canvas.Gend()
}

func renderTooltip(canvas *svg.SVG, f view.Frame, st Style) {
	x := round(f.Tooltip.Pos.X) + st.Margin.Left
	y := round(f.Tooltip.Pos.Y) + st.Margin.Top
	h := 16*len(f.Tooltip.Lines) + 8
	w := 0
	for _, l := range f.Tooltip.Lines {
		w = max(w, len(l)*7+16)
	}
	canvas.Rect(x, y, w, h, "fill:#1a202c;stroke:"+st.Axis+";opacity:0.95")
	for i, l := range f.Tooltip.Lines {
		canvas.Text(x+8, y+18+16*i, l, "fill:"+st.LegendText)
	}
}

func round(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
