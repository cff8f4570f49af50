package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hwhelper/internal/ui/components"
	"github.com/abhisek/hwhelper/internal/ui/theme"
)

const titleFull = `╦ ╦╔═╗╔╦╗╔═╗╦ ╦╔═╗╦═╗╦╔═  ╦ ╦╔═╗╦  ╔═╗╔═╗╦═╗
╠═╣║ ║║║║║╣ ║║║║ ║╠╦╝╠╩╗  ╠═╣║╣ ║  ╠═╝║╣ ╠╦╝
╩ ╩╚═╝╩ ╩╚═╝╚╩╝╚═╝╩╚═╩ ╩  ╩ ╩╚═╝╩═╝╩  ╚═╝╩╚═`

const titleCompact = "H O M E W O R K · H E L P E R"

// buttonWidth is the fixed width of the menu buttons.
const buttonWidth = 24

func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render(art))
}

func renderStatsBar(topics, sessions, cw int, compact bool) string {
	topicStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	sessionStyle := lipgloss.NewStyle().Foreground(theme.Info).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s  %s",
			topicStyle.Render(fmt.Sprintf("★%d", topics)),
			sessionStyle.Render(fmt.Sprintf("▤%d", sessions)))
	} else {
		stats = fmt.Sprintf("%s   %s",
			topicStyle.Render(fmt.Sprintf("★ %d ACTIVE TOPICS", topics)),
			sessionStyle.Render(fmt.Sprintf("▤ %d READING SESSIONS", sessions)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Info).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderMenu(items []string, selected, cw int, disabled map[int]bool) string {
	buttons := make([]string, 0, len(items))
	for i, label := range items {
		buttons = append(buttons, components.MenuButton(label, i == selected, disabled[i], buttonWidth))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact drops the button borders for small terminals.
func renderMenuCompact(items []string, selected, cw int, disabled map[int]bool) string {
	lines := make([]string, 0, len(items))
	for i, label := range items {
		switch {
		case disabled[i]:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("   "+label))
		case i == selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Highlight).
				Bold(true).
				Render(" ▸ "+label+" "))
		default:
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + noLLM)
}
