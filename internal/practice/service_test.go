package practice

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hwhelper/internal/grammar"
	"github.com/abhisek/hwhelper/internal/llm"
	"github.com/abhisek/hwhelper/internal/resolver"
	"github.com/abhisek/hwhelper/internal/store"
)

const hints = `nouns:
  definition: A person, place, or thing.
  examples:
    - The dog barked.
  link: ""
verbs:
  definition: Pending definition.
  examples: []
  link: ""
`

func question(prompt, answer string) llm.MockResponse {
	return llm.JSONResponse(map[string]any{
		"prompt":      prompt,
		"options":     []string{"noun", "verb", "adjective", "adverb"},
		"answer":      answer,
		"explanation": "It tells how.",
	})
}

type fixture struct {
	svc   *Service
	store *store.Store
	mock  *llm.MockProvider
}

func newFixture(t *testing.T, activeTopic bool, responses ...llm.MockResponse) *fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grammar_hints.yaml"), []byte(hints), 0o644))

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:practice_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.ConceptMap().Upsert(ctx, store.ConceptMapEntry{
		Subject: "grammar", Category: "parts_of_speech", Topic: "adverbs", QuestionFocus: "Ask which word is the adverb.",
	}))
	require.NoError(t, s.Topics().Upsert(ctx, store.Topic{Name: "adverbs", Subject: "grammar", Active: activeTopic}))
	require.NoError(t, s.Topics().Upsert(ctx, store.Topic{Name: "similes", Subject: "grammar", Active: true}))

	mock := llm.NewMockProvider(responses...)
	svc := NewService(Deps{
		Topics:    s.Topics(),
		Prompts:   s.Prompts(),
		Attempts:  s.Attempts(),
		Resolver:  resolver.New(s.ConceptMap(), dir, nil),
		Generator: grammar.New(mock, grammar.DefaultConfig(), nil),
		Hinter:    NewHinter(dir, "grammar"),
	}, "grammar", 5)
	return &fixture{svc: svc, store: s, mock: mock}
}

func TestStartAndCheck(t *testing.T) {
	f := newFixture(t, true,
		llm.TextResponse(`["The turtle walked slowly to the pond.", "The girl sang softly to her baby brother."]`),
		question("What part of speech is the word 'slowly'?", "adverb"),
		question("What part of speech is the word 'softly'?", "adverb"),
	)
	ctx := context.Background()

	set, err := f.svc.Start(ctx, 2)
	require.NoError(t, err)
	require.Len(t, set.Items, 2)
	assert.NotEmpty(t, set.RunID)
	for _, it := range set.Items {
		require.NotNil(t, it.Concept)
		assert.Equal(t, "adverbs", it.Concept.Topic)
		assert.Equal(t, "adverbs", it.Question.Topic)
		assert.Equal(t, grammar.SourceLLM, it.Question.Source)
	}

	// The second question saw the first as already asked.
	second := f.mock.Calls[2].Messages[0].Content
	assert.Contains(t, second, "What part of speech is the word 'slowly'?")
	// Unresolved "similes" is skipped; only adverbs steers the sentences.
	assert.Contains(t, f.mock.Calls[0].Messages[0].Content, "adverbs: Ask which word is the adverb.")
	assert.NotContains(t, f.mock.Calls[0].Messages[0].Content, "similes")

	served, err := f.store.Prompts().Recent(ctx, "grammar", "adverbs", 10)
	require.NoError(t, err)
	assert.Len(t, served, 2)

	fb, err := f.svc.Check(ctx, set, 0, "1")
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, "noun", fb.Chosen)
	assert.Equal(t, "That's not quite right. A person, place, or thing. Example: The dog barked.", fb.Message)

	fb, err = f.svc.Check(ctx, set, 0, "verb")
	require.NoError(t, err)
	assert.Equal(t, "That's not quite right! A verb usually plays a specific role in the sentence.", fb.Message)

	fb, err = f.svc.Check(ctx, set, 1, "Adverb")
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, CorrectMessage, fb.Message)

	_, err = f.svc.Check(ctx, set, 2, "noun")
	assert.Error(t, err)

	attempts, err := f.store.Attempts().Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	assert.Equal(t, set.RunID, attempts[0].RunID)

	sum := Summarize(set)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Correct)
	assert.InDelta(t, 0.5, sum.Accuracy, 1e-9)
	require.Len(t, sum.Topics, 1)
	assert.Equal(t, TopicResult{Topic: "adverbs", Attempted: 2, Correct: 1}, sum.Topics[0])
}

func TestStartWithoutActiveTopics(t *testing.T) {
	f := newFixture(t, false,
		llm.TextResponse(`["The turtle walked slowly to the pond."]`),
	)
	set, err := f.svc.Start(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, set.Items, 1)

	it := set.Items[0]
	assert.Nil(t, it.Concept)
	// The question queue is empty, so the fallback is served.
	assert.Equal(t, grammar.SourceFallback, it.Question.Source)
	assert.Equal(t, "noun", it.Question.Answer)
}

func TestHinter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grammar_hints.yaml"), []byte(hints), 0o644))
	h := NewHinter(dir, "grammar")

	assert.Equal(t, "A person, place, or thing. Example: The dog barked.", h.Hint("Noun"))
	assert.Empty(t, h.Hint("verb"), "placeholder definitions are not hints")
	assert.Empty(t, h.Hint("simile"))
	assert.Empty(t, NewHinter(t.TempDir(), "grammar").Hint("noun"))
}
