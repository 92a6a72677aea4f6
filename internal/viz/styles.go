package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles derived from a theme. Rebuild them with NewStyles after a
// theme change.
type Styles struct {
	Header   lipgloss.Style
	Panel    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	KeyHint  lipgloss.Style
	Tooltip  lipgloss.Style
	Loading  lipgloss.Style
	Ready    lipgloss.Style
	Degraded lipgloss.Style
	Failed   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Axis),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Axis).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Foreground(t.Muted).Width(8),
		Value: lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(t.Muted),
		KeyHint: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),
		Tooltip: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Background).
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),
		Loading:  lipgloss.NewStyle().Foreground(t.Warning),
		Ready:    lipgloss.NewStyle().Foreground(t.Success),
		Degraded: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Failed:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}

// Swatch renders a coloured legend square followed by its label.
func Swatch(color, label string, text lipgloss.Color) string {
	box := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
	return box + " " + lipgloss.NewStyle().Foreground(text).Render(label)
}

// GradientText colours each rune of text along a Lab blend between two
// hex colours.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return text
	}

	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// ProgressBar renders the share of rows shown under the current filter.
func ProgressBar(percent float64, width int, color lipgloss.Color) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

func Separator(width int, color lipgloss.Color) string {
	if width < 7 {
		return strings.Repeat("─", max(width, 0))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return lipgloss.NewStyle().Foreground(color).Render(left + " ◆ " + right)
}
