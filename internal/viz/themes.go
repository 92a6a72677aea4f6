package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colours of the plot chrome. Mark colours come from
// the class palette and are not themed.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Axis       lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    lipgloss.Color("#63b3ed"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#0b1220"),
		Text:       lipgloss.Color("#cbd5e1"),
		Muted:      lipgloss.Color("#9aa4b2"),
		Axis:       lipgloss.Color("#4a5568"),
		Success:    lipgloss.Color("#38a169"),
		Warning:    lipgloss.Color("#ecc94b"),
		Error:      lipgloss.Color("#e53e3e"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    lipgloss.Color("#ffffff"),
		Accent:     lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Axis:       lipgloss.Color("#555555"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff0000"),
	}

	ThemePaper = Theme{
		Name:       "paper",
		Primary:    lipgloss.Color("#2b6cb0"),
		Accent:     lipgloss.Color("#dd6b20"),
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#1a202c"),
		Muted:      lipgloss.Color("#4a5568"),
		Axis:       lipgloss.Color("#a0aec0"),
		Success:    lipgloss.Color("#2f855a"),
		Warning:    lipgloss.Color("#b7791f"),
		Error:      lipgloss.Color("#c53030"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    lipgloss.Color("#ff6b6b"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Axis:       lipgloss.Color("#5c4a5d"),
		Success:    lipgloss.Color("#5fd068"),
		Warning:    lipgloss.Color("#ffc048"),
		Error:      lipgloss.Color("#ff4757"),
	}

	CurrentTheme = ThemeOcean

	Themes = []Theme{
		ThemeOcean,
		ThemeMinimal,
		ThemePaper,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, or ocean when the name is unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() Theme {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			break
		}
	}
	return CurrentTheme
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
