// Package resolver maps a topic name to its canonical concept by trying,
// in order, an exact concept_map match, a LIKE match, a join against the
// topics and concepts tables, and finally the concept map YAML document.
package resolver

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/abhisek/hwhelper/internal/conceptmap"
	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/store"
)

// ErrNotFound is returned when no stage matches the topic.
var ErrNotFound = errors.New("concept not found")

// DefaultCategory is reported by Category for unresolved topics.
const DefaultCategory = "general"

// Source values record which stage produced a Concept.
const (
	SourceExact = "exact"
	SourceFuzzy = "fuzzy"
	SourceJoin  = "join"
	SourceYAML  = "yaml"
)

// Concept is a resolved (subject, category, topic, question focus) tuple.
type Concept struct {
	Subject       string
	Category      string
	Topic         string
	QuestionFocus string
	GradeLevel    int    // 0 when unknown
	Notes         string // from the concepts table, join stage only
	Source        string
}

// Resolver runs the lookup cascade.
type Resolver struct {
	repo    store.ConceptMapRepo
	dataDir string
	log     *logger.Logger
}

// New creates a Resolver. dataDir holds the <subject>_concept_map.yaml
// documents used by the last stage.
func New(repo store.ConceptMapRepo, dataDir string, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{repo: repo, dataDir: dataDir, log: log.Named("resolver")}
}

// Resolve returns the concept for topic in subject, or ErrNotFound.
// A stage that fails with a store error is logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, subject, topic string) (*Concept, error) {
	variants := Variants(topic)
	if len(variants) == 0 {
		return nil, ErrNotFound
	}

	if e, err := r.repo.LookupExact(ctx, subject, variants); err == nil {
		return fromEntry(*e, SourceExact), nil
	} else if !errors.Is(err, store.ErrNotFound) {
		r.log.Warn("exact lookup failed", "subject", subject, "topic", topic, "error", err)
	}

	if e, err := r.repo.LookupFuzzy(ctx, subject, variants); err == nil {
		return fromEntry(*e, SourceFuzzy), nil
	} else if !errors.Is(err, store.ErrNotFound) {
		r.log.Warn("fuzzy lookup failed", "subject", subject, "topic", topic, "error", err)
	}

	if j, err := r.repo.LookupJoined(ctx, subject, variants); err == nil {
		c := fromEntry(j.ConceptMapEntry, SourceJoin)
		c.GradeLevel = j.GradeLevel
		c.Notes = j.Notes
		return c, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		r.log.Warn("joined lookup failed", "subject", subject, "topic", topic, "error", err)
	}

	doc, err := conceptmap.Load(r.dataDir, subject)
	if err != nil {
		if !errors.Is(err, conceptmap.ErrNoConceptMap) {
			r.log.Warn("concept map unreadable", "subject", subject, "error", err)
		}
		return nil, ErrNotFound
	}
	if m, ok := doc.Find(Normalize(topic)); ok {
		return &Concept{
			Subject:       subject,
			Category:      m.Category,
			Topic:         m.Topic,
			QuestionFocus: m.QuestionFocus,
			Source:        SourceYAML,
		}, nil
	}
	return nil, ErrNotFound
}

// QuestionFocus returns the resolved question focus for topic.
func (r *Resolver) QuestionFocus(ctx context.Context, subject, topic string) (string, error) {
	c, err := r.Resolve(ctx, subject, topic)
	if err != nil {
		return "", err
	}
	return c.QuestionFocus, nil
}

// Category returns the resolved category, or DefaultCategory.
func (r *Resolver) Category(ctx context.Context, subject, topic string) string {
	c, err := r.Resolve(ctx, subject, topic)
	if err != nil || c.Category == "" {
		return DefaultCategory
	}
	return c.Category
}

func fromEntry(e store.ConceptMapEntry, source string) *Concept {
	return &Concept{
		Subject:       e.Subject,
		Category:      e.Category,
		Topic:         e.Topic,
		QuestionFocus: e.QuestionFocus,
		Source:        source,
	}
}

var aliases = map[string]string{
	"adverb":          "adjectives_and_adverbs",
	"adverbs":         "adjectives_and_adverbs",
	"run_on_sentence": "run_on_sentences",
	"quotation_mark":  "quotation_marks",
	"semicolon":       "semicolons",
	"colon":           "colons",
}

// Normalize trims and lowercases s and turns hyphens and spaces into
// underscores.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.Join(strings.Fields(s), "_")
}

// Variants returns the sorted, de-duplicated lookup forms of topic:
// the normalized name, its singular/plural toggle, the
// _sentence/_sentences toggle and any alias.
func Variants(topic string) []string {
	s := Normalize(topic)
	if s == "" {
		return nil
	}
	set := map[string]struct{}{s: {}}
	if strings.HasSuffix(s, "s") {
		set[strings.TrimSuffix(s, "s")] = struct{}{}
	} else {
		set[s+"s"] = struct{}{}
	}
	if strings.Contains(s, "_sentences") {
		set[strings.ReplaceAll(s, "_sentences", "_sentence")] = struct{}{}
	} else {
		set[strings.ReplaceAll(s, "_sentence", "_sentences")] = struct{}{}
	}
	if a, ok := aliases[s]; ok {
		set[a] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for v := range set {
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
