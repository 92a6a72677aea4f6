package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/scatterview/internal/view"
)

// GutterWidth is the number of cells left of the canvas reserved for
// y tick labels.
const GutterWidth = 8

// Plot renders a frame as a canvas with tick labels and axis titles.
// The frame must have been laid out in the canvas's dots. markScale
// converts mark radii into dots.
func Plot(f view.Frame, c *Canvas, t Theme, markScale float64) string {
	c.Clear()
	if !f.Axes {
		return c.String()
	}

	w, h := c.Dots()
	c.DrawLine(0, h-1, w-1, h-1, t.Axis)
	c.DrawLine(0, 0, 0, h-1, t.Axis)
	for _, tk := range f.XTicks {
		x := int(tk.Pos)
		c.Paint(x, h-2, t.Axis)
	}
	for _, tk := range f.YTicks {
		y := int(tk.Pos)
		c.Paint(1, y, t.Axis)
	}

	for _, m := range f.Marks {
		c.Disc(m.X, m.Y, m.R*markScale, lipgloss.Color(m.Color.Hex()))
	}

	muted := lipgloss.NewStyle().Foreground(t.Muted)
	gutter := make([]string, c.Height)
	for _, tk := range f.YTicks {
		row := int(tk.Pos) / 4
		if row >= 0 && row < c.Height {
			gutter[row] = tk.Label
		}
	}

	var b strings.Builder
	b.WriteString(muted.Render(padLeft(f.Y.Attr, GutterWidth)) + "\n")
	lines := strings.Split(strings.TrimSuffix(c.Render(), "\n"), "\n")
	for i, line := range lines {
		b.WriteString(muted.Render(padLeft(gutter[i], GutterWidth-1)) + " " + line + "\n")
	}
	b.WriteString(strings.Repeat(" ", GutterWidth) + muted.Render(xLabels(f, c.Width)) + "\n")
	b.WriteString(strings.Repeat(" ", GutterWidth) + muted.Render(center(f.X.Attr, c.Width)))
	return b.String()
}

// xLabels places each x tick label under its column, dropping labels
// that would overlap the previous one.
func xLabels(f view.Frame, width int) string {
	row := []rune(strings.Repeat(" ", width))
	next := 0
	for _, tk := range f.XTicks {
		col := max(int(tk.Pos)/2-len(tk.Label)/2, 0)
		if col < next {
			continue
		}
		if col+len(tk.Label) > width {
			break
		}
		copy(row[col:], []rune(tk.Label))
		next = col + len(tk.Label) + 1
	}
	return string(row)
}

func padLeft(s string, w int) string {
	if len(s) >= w {
		return s[:w]
	}
	return strings.Repeat(" ", w-len(s)) + s
}

func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	left := (w - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
