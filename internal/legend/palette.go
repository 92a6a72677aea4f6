package legend

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/san-kum/scatterview/internal/dataset"
)

// NullColor fills marks whose class value is missing.
const NullColor = "#4a5568"

// Palette assigns colours to class values in first-seen order. Once a
// value has a colour it keeps it for the palette's lifetime.
type Palette struct {
	colors   []colorful.Color
	assigned map[string]int
	next     int
	null     colorful.Color
}

// NewPalette parses hex colours and pre-assigns classes in order.
func NewPalette(hexes []string, classes []dataset.Value) (*Palette, error) {
	if len(hexes) == 0 {
		return nil, errors.New("legend: empty palette")
	}
	p := &Palette{assigned: make(map[string]int)}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, errors.Wrapf(err, "palette colour %q", h)
		}
		p.colors = append(p.colors, c)
	}
	p.null, _ = colorful.Hex(NullColor)
	for _, v := range classes {
		p.Color(v)
	}
	return p, nil
}

// Color returns the colour for v, assigning the next free one on first
// sight. Colours wrap when there are more classes than colours.
func (p *Palette) Color(v dataset.Value) colorful.Color {
	if v.IsNull() {
		return p.null
	}
	key := v.String()
	i, ok := p.assigned[key]
	if !ok {
		i = p.next % len(p.colors)
		p.assigned[key] = i
		p.next++
	}
	return p.colors[i]
}

func (p *Palette) Hex(v dataset.Value) string {
	return p.Color(v).Hex()
}

func (p *Palette) Len() int { return len(p.colors) }
