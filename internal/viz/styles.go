package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of lipgloss styles derived from one Theme.
type Styles struct {
	Canvas  lipgloss.Style
	Walls   lipgloss.Style
	Panel   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Alert   lipgloss.Style
	Graph   lipgloss.Style
	KeyHint lipgloss.Style
	Subtle  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().
			Foreground(t.Bodies).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Walls),
		Walls: lipgloss.NewStyle().Foreground(t.Walls),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(40),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			MarginBottom(1),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Running: lipgloss.NewStyle().Bold(true).Foreground(t.Ok),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warn),
		Alert:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Graph:   lipgloss.NewStyle().Foreground(t.Bodies).Padding(1, 0),
		KeyHint: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Subtle:  lipgloss.NewStyle().Foreground(t.Muted),
	}
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as block characters scaled
// between their min and max.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// Separator is a thin rule with a centre mark.
func (s Styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return s.Subtle.Render(left + " ◆ " + right)
}
