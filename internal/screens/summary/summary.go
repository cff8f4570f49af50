package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hwhelper/internal/practice"
	"github.com/abhisek/hwhelper/internal/router"
	"github.com/abhisek/hwhelper/internal/screen"
	"github.com/abhisek/hwhelper/internal/ui/components"
	"github.com/abhisek/hwhelper/internal/ui/layout"
	"github.com/abhisek/hwhelper/internal/ui/theme"
)

// SummaryScreen shows the result of a practice run.
type SummaryScreen struct {
	summary *practice.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *practice.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Practice Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render("Practice complete!")))
	b.WriteString("\n\n")

	if sum.Total == 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("No questions answered this time.")))
		return b.String()
	}

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(
		fmt.Sprintf("Questions: %d        Right first try: %d        Accuracy: %.0f%%",
			sum.Total, sum.Correct, sum.Accuracy*100))))
	b.WriteString("\n\n")

	cw := components.ContentWidth(width)
	bar := components.NewProgressBar("", sum.Accuracy, true, cw)
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Topics")))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Border).
		Render(strings.Repeat("─", min(width-8, 60)))))
	b.WriteString("\n\n")

	for _, tr := range sum.Topics {
		line := fmt.Sprintf("  %-24s %d/%d correct", tr.Topic, tr.Correct, tr.Attempted)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if tr.Correct == tr.Attempted {
			style = style.Foreground(theme.Success)
		}
		b.WriteString(center(style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
