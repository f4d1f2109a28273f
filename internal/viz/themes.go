package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the canvas and the stats panel.
type Theme struct {
	Name   string
	Bodies lipgloss.Color
	Walls  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Ok     lipgloss.Color
	Warn   lipgloss.Color
	Error  lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:   "neon",
		Bodies: lipgloss.Color("#00ffff"),
		Walls:  lipgloss.Color("#ff00ff"),
		Accent: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
		Ok:     lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffaa00"),
		Error:  lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Bodies: lipgloss.Color("#00ff00"), // green phosphor
		Walls:  lipgloss.Color("#00aa00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Ok:     lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
		Error:  lipgloss.Color("#ff0000"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Bodies: lipgloss.Color("#ffffff"),
		Walls:  lipgloss.Color("#aaaaaa"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Ok:     lipgloss.Color("#00ff00"),
		Warn:   lipgloss.Color("#ffaa00"),
		Error:  lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Bodies: lipgloss.Color("#feca57"),
		Walls:  lipgloss.Color("#ff6b6b"),
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Ok:     lipgloss.Color("#5fd068"),
		Warn:   lipgloss.Color("#ffc048"),
		Error:  lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{ThemeNeon, ThemeRetro, ThemeMono, ThemeSunset}
)

// GetTheme returns the named theme, or the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
