package grammar

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/hwhelper/internal/llm"
	"github.com/abhisek/hwhelper/internal/resolver"
)

func questionJSON(prompt, answer string) llm.MockResponse {
	return llm.JSONResponse(map[string]any{
		"prompt":      prompt,
		"options":     []string{"noun", "verb", "adjective", "adverb"},
		"answer":      answer,
		"explanation": "It names an action.",
	})
}

func TestGenerateSentences_JSONArray(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(`["The dog ran across the green yard.", "A girl read her book under the tree.", "We baked cookies for our kind neighbors."]`))
	gen := New(mock, DefaultConfig(), nil)

	got, err := gen.GenerateSentences(context.Background(), SentenceInput{N: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[1] != "A girl read her book under the tree." {
		t.Errorf("sentences = %q", got)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestGenerateSentences_LineFallback(t *testing.T) {
	reply := "Sure! Here are your lines:\n" +
		"1. The dog ran across the green yard.\n" +
		"2) A girl read her book under the tree.\n" +
		"This sentence is an example of a sentence.\n" +
		"Too short.\n"
	mock := llm.NewMockProvider(llm.TextResponse(reply))
	gen := New(mock, DefaultConfig(), nil)

	got, err := gen.GenerateSentences(context.Background(), SentenceInput{N: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"The dog ran across the green yard.", "A girl read her book under the tree."}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("sentences = %q, want %q", got, want)
	}
}

func TestGenerateSentences_BackfillThenPad(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.TextResponse(`["The dog ran across the green yard."]`),
		llm.TextResponse(`["the dog ran across the green yard.", "Our class planted tomatoes in the garden."]`),
	)
	gen := New(mock, DefaultConfig(), nil)

	got, err := gen.GenerateSentences(context.Background(), SentenceInput{N: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"The dog ran across the green yard.",
		"Our class planted tomatoes in the garden.",
		"Our class planted tomatoes in the garden.",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("sentences = %q, want %q", got, want)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected a backfill call, got %d calls", mock.CallCount())
	}
	second := mock.Calls[1].Messages[0].Content
	if !strings.Contains(second, "Write exactly 2") || !strings.Contains(second, "Do not repeat") {
		t.Errorf("backfill prompt missing exclusions:\n%s", second)
	}
}

func TestGenerateSentences_Placeholders(t *testing.T) {
	gen := New(llm.NewMockProvider(), DefaultConfig(), nil)

	got, err := gen.GenerateSentences(context.Background(), SentenceInput{N: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != Placeholders[0] || got[1] != Placeholders[1] {
		t.Errorf("sentences = %q", got)
	}

	got, _ = gen.GenerateSentences(context.Background(), SentenceInput{N: 0})
	if len(got) != 1 {
		t.Errorf("N=0 should clamp to 1, got %d", len(got))
	}

	// Placeholders never stretch past their own count.
	got, _ = gen.GenerateSentences(context.Background(), SentenceInput{N: MaxSentences})
	if len(got) != len(Placeholders) {
		t.Errorf("placeholder set = %d sentences, want %d", len(got), len(Placeholders))
	}
}

func TestGenerateSentences_TopicsInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(`["The dog ran quickly across the green yard."]`))
	gen := New(mock, DefaultConfig(), nil)

	_, err := gen.GenerateSentences(context.Background(), SentenceInput{
		N:      1,
		Topics: []resolver.Concept{{Topic: "adverbs", QuestionFocus: "Find the adverb."}},
		Grade:  4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "adverbs: Find the adverb.") || !strings.Contains(msg, "grade 4") {
		t.Errorf("prompt missing topic or grade:\n%s", msg)
	}
	if mock.Calls[0].Schema != nil {
		t.Error("sentence requests should use text mode")
	}
}

func TestGenerateQuestion_ToleratesFences(t *testing.T) {
	reply := "Here you go:\n```json\n" +
		`{"prompt": "What part of speech is the word 'jumped'?", "options": ["noun", "verb", "adjective", "adverb"], "answer": "Verb", "explanation": "It is an action."}` +
		"\n```"
	mock := llm.NewMockProvider(llm.TextResponse(reply))
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{Sentence: "The frog jumped high."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Source != SourceLLM || q.Answer != "verb" {
		t.Errorf("question = %+v", q)
	}
	if q.Sentence != "The frog jumped high." {
		t.Errorf("sentence = %q", q.Sentence)
	}
}

func TestGenerateQuestion_RewritesLeak(t *testing.T) {
	mock := llm.NewMockProvider(questionJSON("What part of speech is the verb 'jumped'?", "verb"))
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{Sentence: "The frog jumped high."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Prompt != "What part of speech is the word 'jumped'?" {
		t.Errorf("prompt = %q", q.Prompt)
	}
}

func TestGenerateQuestion_PersistentLeakFallsBack(t *testing.T) {
	leak := "It's a verb! What part of speech is 'jumped'?"
	mock := llm.NewMockProvider(questionJSON(leak, "verb"), questionJSON(leak, "verb"), questionJSON(leak, "verb"))
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{Sentence: "The frog jumped high."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Source != SourceFallback {
		t.Fatalf("expected fallback, got %+v", q)
	}
	if q.Prompt != "Which word is a noun in the sentence: 'The frog jumped high.'?" || q.Answer != "noun" {
		t.Errorf("fallback = %+v", q)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 attempts, got %d", mock.CallCount())
	}
}

func TestGenerateQuestion_DedupRetries(t *testing.T) {
	prior := "What part of speech is the word 'jumped'?"
	mock := llm.NewMockProvider(
		questionJSON("what part of speech is the word 'jumped'", "verb"),
		questionJSON("What part of speech is the word 'high'?", "adverb"),
	)
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{
		Sentence: "The frog jumped high.",
		Asked:    []Asked{{Sentence: "The frog jumped high.", Prompt: prior}},
		Concept:  &resolver.Concept{Topic: "adverbs", QuestionFocus: "Ask about the adverb."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Answer != "adverb" || q.Topic != "adverbs" {
		t.Errorf("question = %+v", q)
	}
	first := mock.Calls[0].Messages[0].Content
	if !strings.Contains(first, prior) || !strings.Contains(first, "Question focus: Ask about the adverb.") {
		t.Errorf("prompt missing dedup list or focus:\n%s", first)
	}
}

func TestGenerateQuestion_ReusedPromptOnNewSentence(t *testing.T) {
	generic := "Which word in the sentence is a noun?"
	mock := llm.NewMockProvider(
		llm.JSONResponse(map[string]any{
			"prompt":      generic,
			"options":     []string{"cat", "slept", "on", "soft"},
			"answer":      "cat",
			"explanation": "A cat is an animal, so it is a noun.",
		}),
	)
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{
		Sentence: "The cat slept on the soft rug.",
		Asked: []Asked{
			{Sentence: "The dog barked at the mailman.", Prompt: generic},
			{Sentence: "A bird sang in the tree.", Prompt: generic},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Source != SourceLLM || q.Prompt != generic {
		t.Errorf("question = %+v", q)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
	// Still listed once as steering text.
	sent := mock.Calls[0].Messages[0].Content
	if strings.Count(sent, generic) != 1 {
		t.Errorf("steering list should hold the prompt once:\n%s", sent)
	}
}

func TestGenerateQuestion_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := llm.NewMockProvider(llm.MockResponse{Err: context.Canceled})
	gen := New(mock, DefaultConfig(), nil)

	_, err := gen.GenerateQuestion(ctx, QuestionInput{Sentence: "The frog jumped high."})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

// rejectValidator rejects every question without allowing a retry.
type rejectValidator struct{}

func (rejectValidator) Name() string { return "reject" }
func (rejectValidator) Validate(*Question, QuestionInput) *ValidationError {
	return &ValidationError{Validator: "reject", Message: "no", Retryable: false}
}

func TestGenerateQuestion_NonRetryableStopsEarly(t *testing.T) {
	mock := llm.NewMockProvider(questionJSON("What part of speech is 'high'?", "adverb"), questionJSON("x", "noun"))
	cfg := DefaultConfig()
	cfg.Validators = []Validator{rejectValidator{}}
	gen := New(mock, cfg, nil)

	q, err := gen.GenerateQuestion(context.Background(), QuestionInput{Sentence: "The frog jumped high."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Source != SourceFallback || mock.CallCount() != 1 {
		t.Errorf("source = %q, calls = %d", q.Source, mock.CallCount())
	}
}
