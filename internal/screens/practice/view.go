package practice

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/hwhelper/internal/ui/theme"
)

var errEmptySet = errors.New("no sentences were generated")

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *PracticeScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch s.phase {
	case phaseLoading:
		frame := spinnerFrames[s.frame%len(spinnerFrames)]
		return center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n%s Writing practice sentences...", frame))
	case phaseError:
		return center.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not run practice: %v", s.err))
	}

	item := s.set.Items[s.index]
	var b strings.Builder

	topic := item.Question.Topic
	if topic == "" {
		topic = "general"
	}
	infoLeft := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("  Topic: " + topic)
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Sentence %d/%d", s.index+1, len(s.set.Items)))
	info := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		info += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.Accent).Italic(true).Render("“" + item.Sentence + "”"))
	b.WriteString("\n\n")

	choices := lipgloss.NewStyle().Width(width).Padding(0, 4).Render(s.choice.View())
	b.WriteString(choices)

	if s.phase == phaseFeedback && s.feedback != nil {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width))
	}
	return b.String()
}

func (s *PracticeScreen) renderFeedback(width int) string {
	fb := s.feedback
	if !fb.Correct {
		return theme.Incorrect.Width(width).Padding(0, 4).Render(fb.Message)
	}
	out := theme.Correct.Width(width).Padding(0, 4).Render(fb.Message)
	if fb.Explanation != "" {
		out += "\n" + theme.Hint.Width(width).Padding(0, 4).Render(fb.Explanation)
	}
	return out
}
