// Package practice is the grammar practice screen: it generates a set,
// walks the learner through one multiple-choice question per sentence and
// ends on the summary screen.
package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	pr "github.com/abhisek/hwhelper/internal/practice"
	"github.com/abhisek/hwhelper/internal/router"
	"github.com/abhisek/hwhelper/internal/screen"
	"github.com/abhisek/hwhelper/internal/screens/summary"
	"github.com/abhisek/hwhelper/internal/ui/components"
	"github.com/abhisek/hwhelper/internal/ui/layout"
)

// DefaultSentences is the size of a practice set.
const DefaultSentences = 5

// Runner generates and grades practice sets.
type Runner interface {
	Start(ctx context.Context, n int) (*pr.Set, error)
	Check(ctx context.Context, set *pr.Set, i int, choice string) (*pr.Feedback, error)
}

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
	phaseError
)

type setReadyMsg struct {
	Set *pr.Set
	Err error
}

type spinnerTickMsg time.Time

// PracticeScreen runs one practice set.
type PracticeScreen struct {
	runner Runner
	n      int

	phase    phase
	set      *pr.Set
	index    int
	choice   components.MultiChoice
	feedback *pr.Feedback
	err      error
	frame    int
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a practice screen for a set of n sentences. n <= 0 uses
// DefaultSentences.
func New(runner Runner, n int) *PracticeScreen {
	if n <= 0 {
		n = DefaultSentences
	}
	return &PracticeScreen{runner: runner, n: n}
}

func (s *PracticeScreen) Init() tea.Cmd {
	runner, n := s.runner, s.n
	return tea.Batch(
		func() tea.Msg {
			set, err := runner.Start(context.Background(), n)
			return setReadyMsg{Set: set, Err: err}
		},
		spinnerTick(),
	)
}

func (s *PracticeScreen) Title() string {
	return "Grammar Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "A-F", Description: "Answer"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseFeedback:
		if s.feedback != nil && !s.feedback.Correct {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Try again"},
				{Key: "S", Description: "Skip"},
				{Key: "Esc", Description: "Quit"},
			}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case setReadyMsg:
		if msg.Err != nil {
			s.phase = phaseError
			s.err = msg.Err
			return s, nil
		}
		if msg.Set == nil || len(msg.Set.Items) == 0 {
			s.phase = phaseError
			s.err = errEmptySet
			return s, nil
		}
		s.set = msg.Set
		s.showItem(0)
		return s, nil

	case spinnerTickMsg:
		if s.phase != phaseLoading {
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case tea.KeyMsg:
		switch s.phase {
		case phaseQuestion:
			return s.updateQuestion(msg)
		case phaseFeedback:
			return s.updateFeedback(msg)
		}
	}
	return s, nil
}

func (s *PracticeScreen) updateQuestion(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, cmd
	}

	fb, err := s.runner.Check(context.Background(), s.set, s.index, s.choice.Chosen())
	if err != nil {
		s.phase = phaseError
		s.err = err
		return s, nil
	}
	s.feedback = fb
	if fb.Correct {
		s.choice = s.choice.Reveal(fb.Answer)
	}
	s.phase = phaseFeedback
	return s, cmd
}

func (s *PracticeScreen) updateFeedback(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter", "space":
		if s.feedback != nil && !s.feedback.Correct {
			s.choice = s.choice.Reset()
			s.feedback = nil
			s.phase = phaseQuestion
			return s, nil
		}
		return s.next()
	case "s":
		return s.next()
	}
	return s, nil
}

// next advances to the following item or replaces this screen with the
// summary after the last one.
func (s *PracticeScreen) next() (screen.Screen, tea.Cmd) {
	if s.index+1 >= len(s.set.Items) {
		sum := pr.Summarize(s.set)
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: summary.New(sum)}
		}
	}
	s.showItem(s.index + 1)
	return s, nil
}

func (s *PracticeScreen) showItem(i int) {
	s.index = i
	q := s.set.Items[i].Question
	s.choice = components.NewMultiChoice(q.Prompt, q.Options)
	s.feedback = nil
	s.phase = phaseQuestion
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
