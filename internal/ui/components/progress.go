package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hwhelper/internal/ui/theme"
)

// ProgressBar is a horizontal bar for a fraction in [0, 1], coloured by
// how good the fraction is.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     min(max(percent, 0), 1),
		ShowPercent: showPercent,
		Width:       width,
	}
}

// Color is green from 80%, yellow from 50% and rose below.
func (p ProgressBar) Color() lipgloss.Style {
	switch {
	case p.Percent >= 0.8:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case p.Percent >= 0.5:
		return lipgloss.NewStyle().Foreground(theme.Highlight)
	default:
		return lipgloss.NewStyle().Foreground(theme.Error)
	}
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("  %3.0f%%", p.Percent*100)
	}

	barWidth := max(p.Width-lipgloss.Width(b.String())-len(suffix), 4)
	filled := int(float64(barWidth)*p.Percent + 0.5)

	b.WriteString(p.Color().Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)))
	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}
