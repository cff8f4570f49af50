package topics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hwhelper/internal/resolver"
	"github.com/abhisek/hwhelper/internal/store"
)

const grammarHints = `adverbs:
  definition: A word that describes a verb.
  examples:
    - She ran quickly.
  link: ""
  meta:
    grade_level: 4
    active: true
    last_seen_date: "2025-10-14"
nouns:
  definition: A person, place, or thing.
  examples: []
  link: ""
`

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:topics_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestHintsLegacyMeta(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grammar_hints.yaml", grammarHints)

	h, err := LoadHints(dir, "grammar")
	require.NoError(t, err)
	assert.Equal(t, []string{"adverbs", "nouns"}, h.Names())

	adv, ok := h.Get("adverbs")
	require.True(t, ok)
	require.NotNil(t, adv.Meta.GradeLevel)
	assert.Equal(t, 4, *adv.Meta.GradeLevel)
	assert.Equal(t, "2025-10-14", adv.Meta.LastSeenDate)
	assert.Equal(t, []string{"She ran quickly."}, adv.Examples)
}

func TestYAMLToDB(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grammar_hints.yaml", grammarHints)
	s := openStore(t)
	ctx := context.Background()

	sy := NewSyncer(dir, s.Topics(), s.ConceptMap(), nil)
	n, err := sy.YAMLToDB(ctx, "grammar")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	adv, err := s.Topics().Get(ctx, "adverbs")
	require.NoError(t, err)
	assert.True(t, adv.Active)
	assert.Equal(t, 4, adv.GradeLevel)

	nouns, err := s.Topics().Get(ctx, "nouns")
	require.NoError(t, err)
	assert.False(t, nouns.Active)
	assert.Equal(t, store.DefaultGradeLevel, nouns.GradeLevel)
	assert.Equal(t, "grammar", nouns.Subject)
}

func TestDBToYAMLKeepsOrderAndAddsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grammar_hints.yaml", grammarHints)
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Topics().Upsert(ctx, store.Topic{Name: "nouns", Subject: "grammar", GradeLevel: 3, Active: true}))
	require.NoError(t, s.Topics().Upsert(ctx, store.Topic{Name: "similes", Subject: "grammar", Active: true, LastSeenDate: "2025-11-01"}))
	require.NoError(t, s.Topics().Upsert(ctx, store.Topic{Name: "fractions", Subject: "math"}))

	sy := NewSyncer(dir, s.Topics(), s.ConceptMap(), nil)
	subjects, err := sy.DBToYAML(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"grammar", "math"}, subjects)

	h, err := LoadHints(dir, "grammar")
	require.NoError(t, err)
	assert.Equal(t, []string{"adverbs", "nouns", "similes"}, h.Names())

	nouns, _ := h.Get("nouns")
	assert.Equal(t, "A person, place, or thing.", nouns.Definition)
	require.NotNil(t, nouns.Meta.GradeLevel)
	assert.Equal(t, 3, *nouns.Meta.GradeLevel)
	assert.Equal(t, "grammar", nouns.Meta.Subject)

	sim, _ := h.Get("similes")
	assert.Equal(t, PendingDefinition, sim.Definition)
	assert.Empty(t, sim.Examples)
	assert.Equal(t, "2025-11-01", sim.Meta.LastSeenDate)

	_, err = os.Stat(filepath.Join(dir, "math_hints.yaml"))
	assert.NoError(t, err)

	// The untouched entry keeps its legacy meta untouched.
	adv, _ := h.Get("adverbs")
	require.NotNil(t, adv.Meta.GradeLevel)
	assert.Equal(t, 4, *adv.Meta.GradeLevel)
}

func TestUpdateTopics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grammar_hints.yaml", grammarHints)
	sy := NewSyncer(dir, nil, nil, nil)

	subjects, err := sy.UpdateTopics([]Seen{
		{Subject: "grammar", Topic: "Adverbs", Date: "2025-12-01"},
		{Subject: "reading", Topic: "Point of View", Date: "2025-12-01"},
		{Subject: "", Topic: "ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"grammar", "reading"}, subjects)

	g, err := LoadHints(dir, "grammar")
	require.NoError(t, err)
	adv, _ := g.Get("adverbs")
	assert.Equal(t, "2025-12-01", adv.Meta.LastSeenDate)
	require.NotNil(t, adv.Meta.GradeLevel)
	assert.Equal(t, 4, *adv.Meta.GradeLevel, "existing grade is kept")
	require.NotNil(t, adv.Meta.Active)
	assert.True(t, *adv.Meta.Active)

	r, err := LoadHints(dir, "reading")
	require.NoError(t, err)
	pov, ok := r.Get("point_of_view")
	require.True(t, ok)
	assert.Equal(t, PendingDefinition, pov.Definition)
	assert.Equal(t, 5, *pov.Meta.GradeLevel)
}

func TestImportAndDiagnose(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grammar_concept_map.yaml", `grammar:
  parts_of_speech:
    adverbs:
      question_focus: Find the adverb.
`)
	writeFile(t, dir, "grammar_hints.yaml", grammarHints)
	s := openStore(t)
	ctx := context.Background()

	sy := NewSyncer(dir, s.Topics(), s.ConceptMap(), nil)
	require.NoError(t, sy.SyncAll(ctx))
	require.NoError(t, s.Topics().Upsert(ctx, store.Topic{Name: "similes", Subject: "grammar", Active: true}))

	rep, err := Diagnose(ctx, s.Topics(), resolver.New(s.ConceptMap(), dir, nil), "grammar")
	require.NoError(t, err)
	assert.Equal(t, []string{"adverbs"}, rep.Order)
	assert.Equal(t, "Find the adverb.", rep.Working["adverbs"])
	assert.Equal(t, []string{"similes"}, rep.Missing)
	assert.Empty(t, rep.Errors)
}

func TestWatcherSyncsOnWrite(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t)
	sy := NewSyncer(dir, s.Topics(), s.ConceptMap(), nil)
	w := NewWatcher(sy, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "grammar_hints.yaml", grammarHints)
	writeFile(t, dir, "notes.txt", "ignored")

	// A flush may land between the create and the write; wait for the
	// sync that saw the full document.
	timeout := time.After(5 * time.Second)
	for synced := false; !synced; {
		select {
		case ev := <-w.Events():
			if ev.Err != nil {
				continue
			}
			assert.Equal(t, "hints", ev.Kind)
			assert.Equal(t, "grammar", ev.Subject)
			synced = ev.Rows == 2
		case <-timeout:
			t.Fatal("no sync event")
		}
	}
	_, err := s.Topics().Get(context.Background(), "adverbs")
	require.NoError(t, err)

	cancel()
	require.NoError(t, <-done)
}

func TestSubjectOf(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"/data/grammar_hints.yaml", "grammar", true},
		{"_hints.yaml", "", false},
		{"grammar_concept_map.yaml", "", false},
	}
	for _, tt := range tests {
		got, ok := SubjectOf(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SubjectOf(%q) = %q, %v", tt.name, got, ok)
		}
	}
	if got := TopicKey(" Point of View "); got != "point_of_view" {
		t.Errorf("TopicKey = %q", got)
	}
}
