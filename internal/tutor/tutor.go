// Package tutor holds the reading helpers: simplification, summaries,
// comprehension questions and word explanations for a young reader.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/hwhelper/internal/llm"
	"github.com/abhisek/hwhelper/internal/logger"
)

// SystemPrompt sets the tutor persona for every reading helper.
const SystemPrompt = "You are a patient tutor for a 5th grader. Always explain clearly and simply. " +
	"Do not give direct answers initially. Let the student work the questions out."

// DefaultQuestions is the number of comprehension questions asked for.
const DefaultQuestions = 3

const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 1024
)

// ErrEmptyReply is returned when the model answers with nothing.
var ErrEmptyReply = errors.New("empty reply from model")

var questionNumber = regexp.MustCompile(`^\s*(?:\d+\s*[\).:-]|[-*•]|Q\d+[\).:]?)\s*`)

// Tutor runs the reading helpers against an LLM provider.
type Tutor struct {
	provider llm.Provider
	log      *logger.Logger
}

// New creates a Tutor.
func New(provider llm.Provider, log *logger.Logger) *Tutor {
	if log == nil {
		log = logger.Nop()
	}
	return &Tutor{provider: provider, log: log.Named("tutor")}
}

// Simplify rewrites text in kid-friendly language.
func (t *Tutor) Simplify(ctx context.Context, text string) (string, error) {
	prompt := "Rewrite this passage in clear, kid-friendly language for a 5th grader:\n\n" + text
	return t.ask(ctx, llm.PurposeSimplify, prompt)
}

// Summarize returns a three to five sentence summary.
func (t *Tutor) Summarize(ctx context.Context, text string) (string, error) {
	prompt := "Summarize this passage in 3 to 5 short, kid-friendly sentences for a 5th grader:\n\n" + text
	return t.ask(ctx, llm.PurposeSummarize, prompt)
}

// Questions returns up to n comprehension questions without answers.
// n below 1 asks for DefaultQuestions.
func (t *Tutor) Questions(ctx context.Context, text string, n int) ([]string, error) {
	if n < 1 {
		n = DefaultQuestions
	}
	prompt := fmt.Sprintf("Create %d short comprehension questions (no answers) for a 5th grader based on this passage. "+
		"Write one question per line.\n\n%s", n, text)
	reply, err := t.ask(ctx, llm.PurposeReadingQuestion, prompt)
	if err != nil {
		return nil, err
	}
	return SplitQuestions(reply, n), nil
}

// ExplainWord explains word using the passage it appeared in.
func (t *Tutor) ExplainWord(ctx context.Context, word, passage string) (string, error) {
	prompt := fmt.Sprintf("Explain the word '%s' to a 5th grader using this context:\n\n%s", strings.TrimSpace(word), passage)
	return t.ask(ctx, llm.PurposeExplainWord, prompt)
}

// SplitQuestions returns at most n questions from a reply, one per line,
// with list numbering removed. Lines without a question mark, such as a
// "Here are your questions:" preface, are dropped unless no line has one.
// n below 1 means no limit.
func SplitQuestions(reply string, n int) []string {
	var lines, questions []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(questionNumber.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if strings.Contains(line, "?") {
			questions = append(questions, line)
		}
	}
	if len(questions) == 0 {
		questions = lines
	}
	if n > 0 && len(questions) > n {
		questions = questions[:n]
	}
	return questions
}

func (t *Tutor) ask(ctx context.Context, purpose, prompt string) (string, error) {
	resp, err := t.provider.Generate(llm.WithPurpose(ctx, purpose), llm.Request{
		System:      SystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		t.log.Warn("tutor request failed", "purpose", purpose, "error", err)
		return "", fmt.Errorf("%s: %w", purpose, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%s: %w", purpose, ErrEmptyReply)
	}
	return text, nil
}
