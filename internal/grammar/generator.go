package grammar

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/hwhelper/internal/llm"
	"github.com/abhisek/hwhelper/internal/logger"
)

// Generator produces practice sentences and grammar questions with an LLM
// provider. It never leaves the caller without content: failed sentence
// generation degrades to padding and placeholders, and failed question
// generation to the fallback question.
type Generator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Grade == 0 {
		cfg.Grade = 5
	}
	return &Generator{provider: provider, config: cfg, log: log.Named("grammar")}
}

// questionOutput is the raw LLM response before sanitization.
type questionOutput struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// GenerateSentences returns clamp(in.N) sentences. When the first reply
// falls short, one more round asks for the missing ones, and any gap left
// is padded by repeating the last sentence. If nothing usable came back at
// all, the placeholders are served instead, so the set may be shorter:
// at most len(Placeholders).
// The error is non-nil only when ctx is done.
func (g *Generator) GenerateSentences(ctx context.Context, in SentenceInput) ([]string, error) {
	n := clampSentences(in.N)
	grade := in.Grade
	if grade == 0 {
		grade = g.config.Grade
	}

	var kept []string
	for round := 0; round < 2 && len(kept) < n; round++ {
		text, err := g.complete(ctx, buildSentencePrompt(n-len(kept), grade, in, kept))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.log.Warn("sentence generation failed", "round", round+1, "error", err)
			continue
		}
		kept = keepSentences(kept, parseSentences(text))
	}
	if len(kept) < n {
		g.log.Info("padding sentences", "wanted", n, "got", len(kept))
	}
	return fillSentences(kept, n), nil
}

func (g *Generator) complete(ctx context.Context, user string) (string, error) {
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeSentences), llm.Request{
		System:      sentenceSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: user}},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.SentenceTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenerateQuestion produces a question about in.Sentence. Retryable
// failures are retried up to MaxAttempts; after that, or on a
// non-retryable failure, the fallback question is returned.
// The error is non-nil only when ctx is done.
func (g *Generator) GenerateQuestion(ctx context.Context, in QuestionInput) (*Question, error) {
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		q, err := g.generateOnce(ctx, in)
		if err == nil {
			return q, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.log.Warn("question rejected", "attempt", attempt, "error", err)

		var verr *ValidationError
		if errors.As(err, &verr) && !verr.Retryable {
			break
		}
	}
	return Fallback(in), nil
}

func (g *Generator) generateOnce(ctx context.Context, in QuestionInput) (*Question, error) {
	grade := in.Grade
	if grade == 0 {
		grade = g.config.Grade
	}
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeGrammarQuestion), llm.Request{
		System:      questionSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildQuestionPrompt(in, grade, g.config.MaxPriorPrompts)}},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.QuestionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionOutput
	if err := llm.Decode(resp, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	q := &Question{
		Sentence:    in.Sentence,
		Prompt:      raw.Prompt,
		Options:     raw.Options,
		Answer:      raw.Answer,
		Explanation: raw.Explanation,
		Source:      SourceLLM,
	}
	if in.Concept != nil {
		q.Topic = in.Concept.Topic
	}
	Sanitize(q)

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, in); verr != nil {
			return nil, verr
		}
	}
	return q, nil
}

// FallbackOptions are the choices of the fallback question.
var FallbackOptions = []string{"noun", "verb", "adjective", "adverb"}

// Fallback is the deterministic question served when generation fails.
func Fallback(in QuestionInput) *Question {
	q := &Question{
		Sentence: in.Sentence,
		Prompt:   fmt.Sprintf("Which word is a noun in the sentence: '%s'?", in.Sentence),
		Options:  append([]string(nil), FallbackOptions...),
		Answer:   "noun",
		Source:   SourceFallback,
	}
	if in.Concept != nil {
		q.Topic = in.Concept.Topic
	}
	return q
}
