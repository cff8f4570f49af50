package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hwhelper/internal/export"
	"github.com/abhisek/hwhelper/internal/router"
	"github.com/abhisek/hwhelper/internal/screen"
	"github.com/abhisek/hwhelper/internal/screens/history"
	"github.com/abhisek/hwhelper/internal/screens/placeholder"
	"github.com/abhisek/hwhelper/internal/screens/practice"
	"github.com/abhisek/hwhelper/internal/screens/word"
	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/ui/components"
)

// Deps are the services the home menu opens. Nil services show a
// placeholder instead.
type Deps struct {
	Practice  practice.Runner
	Explainer word.Explainer
	History   store.HistoryRepo
	Topics    store.TopicRepo
	Exporter  *export.Exporter
	Subject   string
	Sentences int
}

const noLLM = "Set an LLM API key to use this (see hwhelper --help)."

// HomeScreen is the main menu.
type HomeScreen struct {
	menu         components.Menu
	labels       []string
	disabled     map[int]bool
	activeTopics int
	sessions     int
	llmReady     bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen and counts what the stats bar shows.
func New(d Deps) *HomeScreen {
	ctx := context.Background()
	h := &HomeScreen{
		labels:   []string{"GRAMMAR PRACTICE", "WORD HELPER", "READING HISTORY", "EXIT"},
		disabled: map[int]bool{},
		llmReady: d.Practice != nil,
	}
	if d.Topics != nil {
		if active, err := d.Topics.List(ctx, store.TopicFilter{Subject: d.Subject, ActiveOnly: true}); err == nil {
			h.activeTopics = len(active)
		}
	}
	if d.History != nil {
		if sessions, err := d.History.ListSessions(ctx); err == nil {
			h.sessions = len(sessions)
		}
	} else {
		h.disabled[2] = true
	}

	push := func(s screen.Screen) tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
	items := []components.MenuItem{
		{Label: h.labels[0], Action: func() tea.Cmd {
			if d.Practice == nil {
				return push(placeholder.New("Grammar Practice", noLLM))
			}
			return push(practice.New(d.Practice, d.Sentences))
		}},
		{Label: h.labels[1], Action: func() tea.Cmd {
			if d.Explainer == nil || d.History == nil {
				return push(placeholder.New("Word Helper", noLLM))
			}
			return push(word.New(d.Explainer, d.History))
		}},
		{Label: h.labels[2], Disabled: h.disabled[2], Action: func() tea.Cmd {
			return push(history.New(d.History, d.Exporter))
		}},
		{Label: h.labels[3], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps.
	compact := height+8 < 30 || width < 100
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.activeTopics, h.sessions, cw, compact),
	}
	if !h.llmReady {
		sections = append(sections, renderLLMBanner(cw))
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.labels, h.menu.Selected, cw, h.disabled))
	} else {
		sections = append(sections, renderMenu(h.labels, h.menu.Selected, cw, h.disabled))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
