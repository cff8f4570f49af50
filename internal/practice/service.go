// Package practice runs grammar practice: it picks the active topics,
// generates sentences and questions for them, and checks answers.
package practice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/hwhelper/internal/grammar"
	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/resolver"
	"github.com/abhisek/hwhelper/internal/store"
)

// CorrectMessage is the feedback for a right answer.
const CorrectMessage = "Correct! 🎉"

// priorPromptLimit is how many earlier questions per topic are loaded to
// steer generation away from repeats.
const priorPromptLimit = 8

// Item is one sentence of a practice set with its question.
type Item struct {
	Sentence string
	Question *grammar.Question
	Concept  *resolver.Concept // nil when no active topic resolved

	Answered     bool
	FirstCorrect bool
	Solved       bool
}

// Set is a generated practice run.
type Set struct {
	RunID string
	Items []*Item
}

// Feedback is the result of checking one answer.
type Feedback struct {
	Correct     bool
	Message     string
	Chosen      string
	Answer      string
	Explanation string
}

// Deps are the collaborators of a Service.
type Deps struct {
	Topics    store.TopicRepo
	Prompts   store.PromptRepo
	Attempts  store.AttemptRepo
	Resolver  *resolver.Resolver
	Generator *grammar.Generator
	Hinter    *Hinter
	Log       *logger.Logger
}

// Service runs practice sets for one subject.
type Service struct {
	deps    Deps
	subject string
	grade   int
	log     *logger.Logger
}

// NewService creates a practice Service for subject at the given grade.
func NewService(deps Deps, subject string, grade int) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{deps: deps, subject: subject, grade: grade, log: log.Named("practice")}
}

// ActiveConcepts resolves every active topic of the subject. Topics that
// do not resolve are skipped.
func (s *Service) ActiveConcepts(ctx context.Context) ([]resolver.Concept, error) {
	active, err := s.deps.Topics.List(ctx, store.TopicFilter{Subject: s.subject, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list active topics: %w", err)
	}
	var out []resolver.Concept
	for _, t := range active {
		c, err := s.deps.Resolver.Resolve(ctx, s.subject, t.Name)
		if err != nil {
			s.log.Debug("skipping unresolved topic", "topic", t.Name)
			continue
		}
		if c.GradeLevel == 0 {
			c.GradeLevel = t.GradeLevel
		}
		out = append(out, *c)
	}
	return out, nil
}

// Start generates n sentences and one question per sentence, rotating
// through the resolved active concepts. Every served question is recorded.
func (s *Service) Start(ctx context.Context, n int) (*Set, error) {
	concepts, err := s.ActiveConcepts(ctx)
	if err != nil {
		return nil, err
	}

	sentences, err := s.deps.Generator.GenerateSentences(ctx, grammar.SentenceInput{
		N:      n,
		Topics: concepts,
		Grade:  s.grade,
	})
	if err != nil {
		return nil, err
	}

	set := &Set{RunID: uuid.NewString()}
	for i, sentence := range sentences {
		in := grammar.QuestionInput{Sentence: sentence, Grade: s.grade}
		topic := ""
		if len(concepts) > 0 {
			c := concepts[i%len(concepts)]
			in.Concept = &c
			topic = c.Topic
		}
		// This run's questions come first: they are the newest.
		for j := len(set.Items) - 1; j >= 0; j-- {
			if it := set.Items[j]; it.Question.Topic == topic {
				in.Asked = append(in.Asked, grammar.Asked{Sentence: it.Sentence, Prompt: it.Question.Prompt})
			}
		}
		if prior, err := s.deps.Prompts.Recent(ctx, s.subject, topic, priorPromptLimit); err == nil {
			for _, p := range prior {
				in.Asked = append(in.Asked, grammar.Asked{Sentence: p.Sentence, Prompt: p.Prompt})
			}
		} else {
			s.log.Warn("load prior prompts failed", "topic", topic, "error", err)
		}

		q, err := s.deps.Generator.GenerateQuestion(ctx, in)
		if err != nil {
			return nil, err
		}
		if err := s.deps.Prompts.Record(ctx, store.ServedPrompt{
			Subject:  s.subject,
			Topic:    q.Topic,
			Sentence: sentence,
			Prompt:   q.Prompt,
			Options:  q.Options,
			Answer:   q.Answer,
			Source:   q.Source,
		}); err != nil {
			s.log.Warn("record served prompt failed", "error", err)
		}
		set.Items = append(set.Items, &Item{Sentence: sentence, Question: q, Concept: in.Concept})
	}
	s.log.Info("practice set ready", "run", set.RunID, "items", len(set.Items), "concepts", len(concepts))
	return set, nil
}

// Check grades choice (option text or 1-based index) for item i and logs
// the attempt. A wrong answer carries a hint for the chosen option.
func (s *Service) Check(ctx context.Context, set *Set, i int, choice string) (*Feedback, error) {
	if i < 0 || i >= len(set.Items) {
		return nil, fmt.Errorf("item %d out of range (set has %d)", i+1, len(set.Items))
	}
	it := set.Items[i]
	q := it.Question
	chosen := grammar.ChoiceText(choice, q)
	correct := grammar.CheckAnswer(choice, q)

	if !it.Answered {
		it.Answered = true
		it.FirstCorrect = correct
	}
	if correct {
		it.Solved = true
	}

	if err := s.deps.Attempts.Log(ctx, store.Attempt{
		RunID:    set.RunID,
		Sentence: it.Sentence,
		Topic:    q.Topic,
		Prompt:   q.Prompt,
		Chosen:   chosen,
		Answer:   q.Answer,
		Correct:  correct,
	}); err != nil {
		s.log.Warn("log attempt failed", "error", err)
	}

	fb := &Feedback{Correct: correct, Chosen: chosen, Answer: q.Answer, Explanation: q.Explanation}
	if correct {
		fb.Message = CorrectMessage
		return fb, nil
	}
	term := strings.ToLower(strings.TrimSpace(chosen))
	if hint := s.hint(term); hint != "" {
		fb.Message = "That's not quite right. " + hint
	} else {
		fb.Message = fmt.Sprintf("That's not quite right! A %s usually plays a specific role in the sentence.", term)
	}
	return fb, nil
}

// Hint looks a grammar term up in the hints document.
func (s *Service) Hint(term string) string {
	return s.hint(term)
}

func (s *Service) hint(term string) string {
	if s.deps.Hinter == nil {
		return ""
	}
	return s.deps.Hinter.Hint(term)
}
