package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hwhelper/internal/export"
	"github.com/abhisek/hwhelper/internal/passage"
	"github.com/abhisek/hwhelper/internal/router"
	"github.com/abhisek/hwhelper/internal/screen"
	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/ui/layout"
	"github.com/abhisek/hwhelper/internal/ui/theme"
)

const previewLen = 160

type historyLoadedMsg struct {
	Sessions []store.Session
	Err      error
}

type sessionLoadedMsg struct {
	Session *store.Session
	Err     error
}

type exportedMsg struct {
	Path string
	Err  error
}

// HistoryScreen lists reading sessions and expands one to its passages.
type HistoryScreen struct {
	repo     store.HistoryRepo
	exporter *export.Exporter

	sessions []store.Session
	details  map[int]*store.Session // session id → loaded session
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
	status   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. A nil exporter disables export.
func New(repo store.HistoryRepo, exporter *export.Exporter) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		exporter: exporter,
		details:  make(map[int]*store.Session),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		sessions, err := repo.ListSessions(context.Background())
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Reading History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
	}
	if s.exporter != nil {
		hints = append(hints, layout.KeyHint{Key: "T/P", Description: "Export txt/pdf"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case sessionLoadedMsg:
		if msg.Err != nil {
			s.status = "Could not load session: " + msg.Err.Error()
			return s, nil
		}
		s.details[msg.Session.ID] = msg.Session
		return s, nil

	case exportedMsg:
		if msg.Err != nil {
			s.status = "Export failed: " + msg.Err.Error()
		} else {
			s.status = "Exported to " + msg.Path
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] {
				return s, s.loadSession(s.sessions[s.selected].ID)
			}
		case "t":
			return s, s.exportSelected(export.FormatText)
		case "p":
			return s, s.exportSelected(export.FormatPDF)
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadSession(id int) tea.Cmd {
	if _, ok := s.details[id]; ok {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		sess, err := repo.GetSession(context.Background(), id)
		return sessionLoadedMsg{Session: sess, Err: err}
	}
}

// exportSelected writes the newest passage of the selected session.
func (s *HistoryScreen) exportSelected(format string) tea.Cmd {
	if s.exporter == nil || len(s.sessions) == 0 {
		return nil
	}
	repo, exp, id := s.repo, s.exporter, s.sessions[s.selected].ID
	return func() tea.Msg {
		sess, err := repo.GetSession(context.Background(), id)
		if err != nil {
			return exportedMsg{Err: err}
		}
		if len(sess.Passages) == 0 {
			return exportedMsg{Err: fmt.Errorf("session %d has no passages", id)}
		}
		path, err := exp.Passage(sess, &sess.Passages[len(sess.Passages)-1], format)
		return exportedMsg{Path: path, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Study a passage to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s#%d  %s  %s", prefix, sess.ID, sess.CreatedAt.Format("Jan 02, 2006 15:04"), sess.Topic)
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetails(sess.ID, width))
		}
	}
	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("  " + s.status))
	}
	return b.String()
}

func (s *HistoryScreen) renderDetails(id, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(max(width-8, 20)).PaddingLeft(6)

	sess, ok := s.details[id]
	if !ok {
		return dim.Render("      Loading...") + "\n"
	}
	if len(sess.Passages) == 0 {
		return dim.Italic(true).Render("      No passages in this session") + "\n"
	}

	var b strings.Builder
	for _, p := range sess.Passages {
		b.WriteString(dim.Render(fmt.Sprintf("      Passage %d", p.ID)))
		b.WriteString("\n")
		text := p.SimplifiedText
		if text == "" {
			text = p.OriginalText
		}
		b.WriteString(body.Render(passage.Preview(strings.Join(strings.Fields(text), " "), previewLen)))
		b.WriteString("\n")
		if p.Summary != "" {
			b.WriteString(body.Foreground(theme.Secondary).Render("Summary: " + p.Summary))
			b.WriteString("\n")
		}
		for j, q := range p.Questions {
			b.WriteString(body.Render(fmt.Sprintf("%d. %s", j+1, q)))
			b.WriteString("\n")
		}
		for _, w := range p.Words {
			b.WriteString(body.Foreground(theme.Accent).Render(w.Word + ": " + w.Explanation))
			b.WriteString("\n")
		}
	}
	return b.String()
}
