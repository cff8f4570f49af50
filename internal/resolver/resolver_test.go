package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/abhisek/hwhelper/internal/store"
)

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Run-On Sentences ", "run_on_sentences"},
		{"NOUNS", "nouns"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVariants(t *testing.T) {
	tests := []struct {
		topic string
		want  []string
	}{
		{"noun", []string{"noun", "nouns"}},
		{"Adverbs", []string{"adjectives_and_adverbs", "adverb", "adverbs"}},
		{"run-on sentence", []string{"run_on_sentence", "run_on_sentences"}},
		{"colon", []string{"colon", "colons"}},
		{"   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got := Variants(tt.topic)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Variants(%q) = %v, want %v", tt.topic, got, tt.want)
			}
		})
	}
}

// stageRepo answers each lookup stage from fixed results.
type stageRepo struct {
	store.ConceptMapRepo
	exact, fuzzy *store.ConceptMapEntry
	joined       *store.JoinedConcept
	exactErr     error
	calls        []string
}

func (r *stageRepo) LookupExact(_ context.Context, _ string, _ []string) (*store.ConceptMapEntry, error) {
	r.calls = append(r.calls, "exact")
	if r.exactErr != nil {
		return nil, r.exactErr
	}
	if r.exact == nil {
		return nil, store.ErrNotFound
	}
	return r.exact, nil
}

func (r *stageRepo) LookupFuzzy(_ context.Context, _ string, _ []string) (*store.ConceptMapEntry, error) {
	r.calls = append(r.calls, "fuzzy")
	if r.fuzzy == nil {
		return nil, store.ErrNotFound
	}
	return r.fuzzy, nil
}

func (r *stageRepo) LookupJoined(_ context.Context, _ string, _ []string) (*store.JoinedConcept, error) {
	r.calls = append(r.calls, "join")
	if r.joined == nil {
		return nil, store.ErrNotFound
	}
	return r.joined, nil
}

func TestResolveCascadeOrder(t *testing.T) {
	ctx := context.Background()
	entry := &store.ConceptMapEntry{Subject: "grammar", Category: "parts_of_speech", Topic: "nouns", QuestionFocus: "Find the noun."}

	t.Run("exact wins", func(t *testing.T) {
		repo := &stageRepo{exact: entry, fuzzy: entry}
		c, err := New(repo, t.TempDir(), nil).Resolve(ctx, "grammar", "noun")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if c.Source != SourceExact || len(repo.calls) != 1 {
			t.Errorf("source = %q, calls = %v", c.Source, repo.calls)
		}
	})

	t.Run("store error continues", func(t *testing.T) {
		repo := &stageRepo{exactErr: errors.New("db locked"), fuzzy: entry}
		c, err := New(repo, t.TempDir(), nil).Resolve(ctx, "grammar", "noun")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if c.Source != SourceFuzzy {
			t.Errorf("source = %q, want fuzzy", c.Source)
		}
	})

	t.Run("join carries grade and notes", func(t *testing.T) {
		repo := &stageRepo{joined: &store.JoinedConcept{ConceptMapEntry: *entry, GradeLevel: 4, Notes: "week 3"}}
		c, err := New(repo, t.TempDir(), nil).Resolve(ctx, "grammar", "noun")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if c.Source != SourceJoin || c.GradeLevel != 4 || c.Notes != "week 3" {
			t.Errorf("concept = %+v", c)
		}
		if !reflect.DeepEqual(repo.calls, []string{"exact", "fuzzy", "join"}) {
			t.Errorf("calls = %v", repo.calls)
		}
	})
}

func TestResolveFallsBackToYAML(t *testing.T) {
	dir := t.TempDir()
	doc := `grammar:
  figurative_language:
    similes:
      question_focus: Spot the simile.
`
	if err := os.WriteFile(filepath.Join(dir, "grammar_concept_map.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	r := New(&stageRepo{}, dir, nil)
	ctx := context.Background()

	c, err := r.Resolve(ctx, "grammar", "Similes")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.Source != SourceYAML || c.Category != "figurative_language" || c.QuestionFocus != "Spot the simile." {
		t.Errorf("concept = %+v", c)
	}

	if got := r.Category(ctx, "grammar", "metaphors"); got != DefaultCategory {
		t.Errorf("Category(metaphors) = %q, want %q", got, DefaultCategory)
	}
	if _, err := r.QuestionFocus(ctx, "grammar", "metaphors"); !errors.Is(err, ErrNotFound) {
		t.Errorf("QuestionFocus(metaphors) err = %v, want ErrNotFound", err)
	}
}

func TestResolveAgainstStore(t *testing.T) {
	s, err := store.Open("file:resolver_store?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	err = s.ConceptMap().Upsert(ctx, store.ConceptMapEntry{
		Subject: "grammar", Category: "parts_of_speech", Topic: "adjectives_and_adverbs", QuestionFocus: "Adjective or adverb?",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	r := New(s.ConceptMap(), t.TempDir(), nil)
	c, err := r.Resolve(ctx, "grammar", "adverb")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.Source != SourceExact || c.Topic != "adjectives_and_adverbs" {
		t.Errorf("concept = %+v", c)
	}

	if _, err := r.Resolve(ctx, "reading", "adverb"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other subject err = %v, want ErrNotFound", err)
	}
}
