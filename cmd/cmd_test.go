package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hwhelper/internal/grammar"
	"github.com/abhisek/hwhelper/internal/llm"
	"github.com/abhisek/hwhelper/internal/newsletter"
	"github.com/abhisek/hwhelper/internal/practice"
	"github.com/abhisek/hwhelper/internal/resolver"
	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/topics"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:cmd_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLetterToIndex(t *testing.T) {
	cases := map[string]string{
		"a":      "1",
		"C":      "3",
		"f":      "6",
		"g":      "g",
		"2":      "2",
		"adverb": "adverb",
	}
	for in, want := range cases {
		assert.Equal(t, want, letterToIndex(in), in)
	}
}

func TestCheckDate(t *testing.T) {
	assert.NoError(t, checkDate(""))
	assert.NoError(t, checkDate("2024-09-03"))
	assert.Error(t, checkDate("9/3/2024"))
	assert.Error(t, checkDate("2024-13-01"))
}

func TestListConcepts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for _, c := range []store.Concept{
		{DateStart: "2024-09-02", Subject: "grammar", Topic: "nouns"},
		{DateStart: "2024-09-09", Subject: "grammar", Topic: "verbs"},
		{DateStart: "2024-09-16", Subject: "math", Topic: "fractions"},
	} {
		_, err := s.Concepts().Add(ctx, c)
		require.NoError(t, err)
	}

	recent, err := listConcepts(ctx, s.Concepts(), "", "", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "fractions", recent[0].Topic)

	ranged, err := listConcepts(ctx, s.Concepts(), "2024-09-01", "2024-09-10", 0)
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	_, err = listConcepts(ctx, s.Concepts(), "last week", "", 0)
	assert.Error(t, err)

	var buf bytes.Buffer
	printConcepts(&buf, ranged)
	assert.Contains(t, buf.String(), "nouns")
	assert.Contains(t, buf.String(), "2024-09-09")
}

func TestPrintTopics(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.ConceptMap().Upsert(ctx, store.ConceptMapEntry{
		Subject: "grammar", Category: "parts_of_speech", Topic: "adverbs", QuestionFocus: "Ask which word is the adverb.",
	}))
	res := resolver.New(s.ConceptMap(), t.TempDir(), nil)
	category := func(topic string) string { return res.Category(ctx, "grammar", topic) }

	var buf bytes.Buffer
	printTopics(&buf, []store.Topic{
		{Name: "adverbs", Subject: "grammar", Active: true, GradeLevel: 3, LastSeenDate: "2025-10-14"},
		{Name: "idioms", Subject: "grammar", GradeLevel: 3},
	}, category)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "●")
	assert.Contains(t, lines[0], "parts_of_speech")
	assert.Contains(t, lines[0], "last seen 2025-10-14")
	assert.Contains(t, lines[1], resolver.DefaultCategory)
	assert.Contains(t, lines[1], "last seen never")

	buf.Reset()
	printTopics(&buf, nil, category)
	assert.Contains(t, buf.String(), "No topics")
}

func TestPrintConcepts_Empty(t *testing.T) {
	var buf bytes.Buffer
	printConcepts(&buf, nil)
	assert.Equal(t, "No concepts recorded.\n", buf.String())
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &topics.Report{
		Subject: "grammar",
		Working: map[string]string{"adverbs": "Ask which word is the adverb."},
		Order:   []string{"adverbs"},
		Missing: []string{"similes"},
		Errors:  []topics.TopicError{{Topic: "idioms", Err: errors.New("boom")}},
	})
	out := buf.String()
	assert.Contains(t, out, "Working (1)")
	assert.Contains(t, out, "Ask which word is the adverb.")
	assert.Contains(t, out, "? similes")
	assert.Contains(t, out, "✗ idioms: boom")
}

func TestPrintIngest(t *testing.T) {
	var buf bytes.Buffer
	printIngest(&buf, &newsletter.Result{})
	assert.Contains(t, buf.String(), "No topics found")

	buf.Reset()
	printIngest(&buf, &newsletter.Result{
		Topics:   []newsletter.Topic{{Subject: "grammar", Topic: "Adverbs", Date: "2024-09-03"}},
		Subjects: []string{"grammar"},
		Synced:   1,
	})
	assert.Contains(t, buf.String(), "Found 1 topic(s)")
	assert.Contains(t, buf.String(), "Updated hints for grammar")
	assert.Contains(t, buf.String(), "Logged 0 concept(s); 1 already logged")
}

func TestImageTypes(t *testing.T) {
	assert.Equal(t, "image/jpeg", imageTypes[".jpeg"])
	assert.Equal(t, "image/png", imageTypes[".png"])
	_, ok := imageTypes[".txt"]
	assert.False(t, ok)
}

func TestPrintAttemptStats(t *testing.T) {
	var buf bytes.Buffer
	printAttemptStats(&buf, []store.AttemptStats{
		{Topic: "adverbs", Total: 4, Correct: 3},
		{Topic: "nouns", Total: 1, Correct: 0},
	})
	out := buf.String()
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "60%")
	assert.Equal(t, 0.0, percent(1, 0))
}

func TestPracticePlain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grammar_hints.yaml"), []byte("adverbs:\n  definition: Tells how.\n  examples: []\n  link: \"\"\n"), 0o644))

	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.ConceptMap().Upsert(ctx, store.ConceptMapEntry{
		Subject: "grammar", Category: "parts_of_speech", Topic: "adverbs", QuestionFocus: "Ask which word is the adverb.",
	}))
	require.NoError(t, s.Topics().Upsert(ctx, store.Topic{Name: "adverbs", Subject: "grammar", Active: true}))

	question := func(prompt string) llm.MockResponse {
		return llm.JSONResponse(map[string]any{
			"prompt":      prompt,
			"options":     []string{"noun", "verb", "adjective", "adverb"},
			"answer":      "adverb",
			"explanation": "It tells how.",
		})
	}
	mock := llm.NewMockProvider(
		llm.TextResponse(`["The turtle walked slowly to the pond.", "The girl sang softly to her baby brother."]`),
		question("What part of speech is the word 'slowly'?"),
		question("What part of speech is the word 'softly'?"),
	)
	svc := practice.NewService(practice.Deps{
		Topics:    s.Topics(),
		Prompts:   s.Prompts(),
		Attempts:  s.Attempts(),
		Resolver:  resolver.New(s.ConceptMap(), dir, nil),
		Generator: grammar.New(mock, grammar.DefaultConfig(), nil),
		Hinter:    practice.NewHinter(dir, "grammar"),
	}, "grammar", 5)

	// Wrong, then right on the first sentence; skip the second.
	in := strings.NewReader("verb\nadverb\n\n")
	var out bytes.Buffer
	require.NoError(t, practicePlain(ctx, svc, 2, in, &out))

	got := out.String()
	assert.Contains(t, got, "Sentence 1/2: The turtle walked slowly to the pond.")
	assert.Contains(t, got, "D) adverb")
	assert.Contains(t, got, "That's not quite right")
	assert.Contains(t, got, practice.CorrectMessage)
	assert.Contains(t, got, "Right first try: 0/1 (0%)")

	attempts, err := s.Attempts().Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
}

func TestPrintHint(t *testing.T) {
	dir := t.TempDir()
	hints := "adverbs:\n  definition: Tells how, when or where.\n  examples: [She ran quickly.]\n  link: \"\"\n" +
		"pronouns:\n  definition: \"" + topics.PendingDefinition + "\"\n  examples: []\n  link: \"\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grammar_hints.yaml"), []byte(hints), 0o644))
	svc := practice.NewService(practice.Deps{Hinter: practice.NewHinter(dir, "grammar")}, "grammar", 3)

	var out bytes.Buffer
	require.NoError(t, printHint(&out, svc, "  Adverb "))
	assert.Equal(t, "adverb: Tells how, when or where. Example: She ran quickly.\n", out.String())

	out.Reset()
	err := printHint(&out, svc, "pronouns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no hint for "pronouns"`)
	assert.Empty(t, out.String())
}
