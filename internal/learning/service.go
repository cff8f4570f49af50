// Package learning runs a reading session: simplify a passage, store it,
// ask comprehension questions and keep vocabulary notes.
package learning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/passage"
	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/tutor"
)

// ErrNoWord is returned when ExplainWord gets a blank word.
var ErrNoWord = errors.New("word is empty")

// StudyOptions tunes Study.
type StudyOptions struct {
	Questions int  // comprehension questions; 0 uses the tutor default
	Summarize bool // also store a short summary
}

// Result is everything produced by one Study call.
type Result struct {
	SessionID  int
	PassageID  int
	Topic      string
	Original   string
	Simplified string
	Summary    string
	Questions  []string
}

// WordResult is an explanation and where it was saved.
type WordResult struct {
	Word        string
	Explanation string
	PassageID   int // 0 when there was no passage to attach to
}

// Service ties the tutor to the history store.
type Service struct {
	tutor   *tutor.Tutor
	history store.HistoryRepo
	log     *logger.Logger
}

// NewService creates a learning service.
func NewService(t *tutor.Tutor, history store.HistoryRepo, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{tutor: t, history: history, log: log.Named("learning")}
}

// Study simplifies text, stores a new session with the passage, then
// generates and stores comprehension questions. A failed question or
// summary step keeps what was already saved and returns the partial
// result together with the error.
func (s *Service) Study(ctx context.Context, topic, text string, opts StudyOptions) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, passage.ErrEmptyText
	}

	simplified, err := s.tutor.Simplify(ctx, text)
	if err != nil {
		return nil, err
	}

	res := &Result{Topic: strings.TrimSpace(topic), Original: text, Simplified: simplified}
	if res.SessionID, err = s.history.CreateSession(ctx, res.Topic); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if res.PassageID, err = s.history.AddPassage(ctx, res.SessionID, text, simplified); err != nil {
		return nil, fmt.Errorf("save passage: %w", err)
	}
	s.log.Info("saved simplified passage", "session", res.SessionID, "passage", res.PassageID)

	if res.Questions, err = s.tutor.Questions(ctx, text, opts.Questions); err != nil {
		return res, err
	}
	if err := s.history.AddQuestions(ctx, res.PassageID, res.Questions); err != nil {
		return res, fmt.Errorf("save questions: %w", err)
	}

	if opts.Summarize {
		if res.Summary, err = s.tutor.Summarize(ctx, text); err != nil {
			return res, err
		}
		if err := s.history.SetSummary(ctx, res.PassageID, res.Summary); err != nil {
			return res, fmt.Errorf("save summary: %w", err)
		}
	}
	return res, nil
}

// ExplainWord explains word in the context of text and attaches the
// explanation to the most recent passage when one exists.
func (s *Service) ExplainWord(ctx context.Context, word, text string) (*WordResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrNoWord
	}
	if strings.TrimSpace(text) == "" {
		return nil, passage.ErrEmptyText
	}

	explanation, err := s.tutor.ExplainWord(ctx, word, text)
	if err != nil {
		return nil, err
	}
	res := &WordResult{Word: word, Explanation: explanation}

	latest, err := s.history.LatestPassage(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return res, nil
	case err != nil:
		return res, fmt.Errorf("find latest passage: %w", err)
	}
	if err := s.history.AddWord(ctx, latest.ID, word, explanation); err != nil {
		return res, fmt.Errorf("save word: %w", err)
	}
	res.PassageID = latest.ID
	return res, nil
}
