// Package word is the vocabulary screen: the learner types a word and gets
// a kid-friendly explanation in the context of the latest passage.
package word

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hwhelper/internal/learning"
	"github.com/abhisek/hwhelper/internal/router"
	"github.com/abhisek/hwhelper/internal/screen"
	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/ui/components"
	"github.com/abhisek/hwhelper/internal/ui/layout"
	"github.com/abhisek/hwhelper/internal/ui/theme"
)

// Explainer explains a word in the context of a passage.
type Explainer interface {
	ExplainWord(ctx context.Context, word, text string) (*learning.WordResult, error)
}

type passageLoadedMsg struct {
	Passage *store.Passage
	Err     error
}

type explainedMsg struct {
	Result *learning.WordResult
	Err    error
}

// WordScreen asks for a word and shows its explanation.
type WordScreen struct {
	explainer Explainer
	history   store.HistoryRepo

	input   components.TextInput
	passage *store.Passage
	loaded  bool
	busy    bool
	result  *learning.WordResult
	errMsg  string
}

var _ screen.Screen = (*WordScreen)(nil)
var _ screen.KeyHintProvider = (*WordScreen)(nil)

// New creates a WordScreen.
func New(explainer Explainer, history store.HistoryRepo) *WordScreen {
	return &WordScreen{
		explainer: explainer,
		history:   history,
		input:     components.NewTextInput("type a word", 40),
	}
}

func (w *WordScreen) Init() tea.Cmd {
	repo := w.history
	return tea.Batch(w.input.Init(), func() tea.Msg {
		p, err := repo.LatestPassage(context.Background())
		return passageLoadedMsg{Passage: p, Err: err}
	})
}

func (w *WordScreen) Title() string {
	return "Word Helper"
}

func (w *WordScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Explain"},
		{Key: "Esc", Description: "Back"},
	}
}

func (w *WordScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case passageLoadedMsg:
		w.loaded = true
		switch {
		case errors.Is(msg.Err, store.ErrNotFound):
		case msg.Err != nil:
			w.errMsg = msg.Err.Error()
		default:
			w.passage = msg.Passage
		}
		return w, nil

	case explainedMsg:
		w.busy = false
		if msg.Err != nil {
			w.errMsg = msg.Err.Error()
			return w, nil
		}
		w.errMsg = ""
		w.result = msg.Result
		w.input.Reset()
		return w, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return w, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			return w, w.explain()
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WordScreen) explain() tea.Cmd {
	word := strings.TrimSpace(w.input.Value())
	if word == "" || w.passage == nil || w.busy {
		return nil
	}
	w.busy = true
	ex, text := w.explainer, passageText(w.passage)
	return func() tea.Msg {
		res, err := ex.ExplainWord(context.Background(), word, text)
		return explainedMsg{Result: res, Err: err}
	}
}

func passageText(p *store.Passage) string {
	if p.SimplifiedText != "" {
		return p.SimplifiedText
	}
	return p.OriginalText
}

func (w *WordScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var sections []string
	switch {
	case !w.loaded:
		sections = append(sections, dim.Render("Loading the latest passage..."))
	case w.passage == nil:
		sections = append(sections, theme.Hint.Render("Study a passage first, then come back to look up its words."))
	default:
		sections = append(sections,
			dim.Render("Which word from your last passage is tricky?"),
			w.input.View())
	}

	if w.busy {
		sections = append(sections, dim.Render("Thinking..."))
	}
	if w.result != nil {
		body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 6).Render(w.result.Explanation)
		title := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(w.result.Word)
		sections = append(sections, components.Card(title+"\n\n"+body, cw,
			lipgloss.NewStyle().BorderForeground(theme.Secondary)))
	}
	if w.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
	}

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n" + strings.Join(sections, "\n\n"))
}
