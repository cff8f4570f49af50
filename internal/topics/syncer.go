package topics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/hwhelper/internal/conceptmap"
	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/store"
)

// Seen is a topic observed in a newsletter on a given date (YYYY-MM-DD).
type Seen struct {
	Subject string
	Topic   string
	Date    string
}

// Syncer moves topic metadata between the hints YAML documents in dir and
// the topics table.
type Syncer struct {
	dir    string
	topics store.TopicRepo
	cmap   store.ConceptMapRepo
	log    *logger.Logger
}

// NewSyncer creates a Syncer rooted at the data directory dir.
func NewSyncer(dir string, topics store.TopicRepo, cmap store.ConceptMapRepo, log *logger.Logger) *Syncer {
	if log == nil {
		log = logger.Nop()
	}
	return &Syncer{dir: dir, topics: topics, cmap: cmap, log: log.Named("topics")}
}

// Dir is the data directory the syncer reads and writes.
func (s *Syncer) Dir() string { return s.dir }

// YAMLToDB upserts every entry of <subject>_hints.yaml into topics and
// returns the number of rows written. Unset metadata falls back to the
// file's subject, grade 5 and inactive.
func (s *Syncer) YAMLToDB(ctx context.Context, subject string) (int, error) {
	h, err := LoadHints(s.dir, subject)
	if err != nil {
		return 0, err
	}
	entries, err := h.Entries()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range entries {
		t := store.Topic{
			Name:         e.Name,
			Subject:      e.Meta.Subject,
			GradeLevel:   store.DefaultGradeLevel,
			LastSeenDate: e.Meta.LastSeenDate,
		}
		if t.Subject == "" {
			t.Subject = subject
		}
		if e.Meta.GradeLevel != nil {
			t.GradeLevel = *e.Meta.GradeLevel
		}
		if e.Meta.Active != nil {
			t.Active = *e.Meta.Active
		}
		if err := s.topics.Upsert(ctx, t); err != nil {
			return n, fmt.Errorf("sync %s to db: %w", HintsFileName(subject), err)
		}
		n++
	}
	s.log.Info("synced hints to database", "subject", subject, "topics", n)
	return n, nil
}

// DBToYAML writes the metadata of every topics row back into the hints
// document of its subject, creating placeholder entries where needed.
// It returns the subjects whose documents were written.
func (s *Syncer) DBToYAML(ctx context.Context) ([]string, error) {
	rows, err := s.topics.List(ctx, store.TopicFilter{})
	if err != nil {
		return nil, err
	}

	bySubject := map[string][]store.Topic{}
	for _, t := range rows {
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}
	subjects := make([]string, 0, len(bySubject))
	for subj := range bySubject {
		subjects = append(subjects, subj)
	}
	sort.Strings(subjects)

	for _, subj := range subjects {
		h, err := LoadHints(s.dir, subj)
		if err != nil {
			return nil, err
		}
		for _, t := range bySubject[subj] {
			grade, active := t.GradeLevel, t.Active
			h.SetMeta(t.Name, Meta{
				GradeLevel:   &grade,
				Active:       &active,
				LastSeenDate: t.LastSeenDate,
				Subject:      subj,
			})
		}
		if err := h.Save(); err != nil {
			return nil, err
		}
		s.log.Info("synced database to hints", "subject", subj, "topics", len(bySubject[subj]))
	}
	return subjects, nil
}

// UpdateTopics records newsletter topics in the hints documents. New
// topics get a placeholder entry; every listed topic is marked active with
// the new last_seen_date and keeps its grade (5 when unset). It returns
// the touched subjects in sorted order.
func (s *Syncer) UpdateTopics(seen []Seen) ([]string, error) {
	docs := map[string]*Hints{}
	for _, t := range seen {
		name := TopicKey(t.Topic)
		if t.Subject == "" || name == "" {
			continue
		}
		h, ok := docs[t.Subject]
		if !ok {
			var err error
			if h, err = LoadHints(s.dir, t.Subject); err != nil {
				return nil, err
			}
			docs[t.Subject] = h
		}

		grade := store.DefaultGradeLevel
		if existing, ok := h.Get(name); ok && existing.Meta.GradeLevel != nil {
			grade = *existing.Meta.GradeLevel
		}
		active := true
		h.SetMeta(name, Meta{GradeLevel: &grade, Active: &active, LastSeenDate: t.Date, Subject: t.Subject})
	}

	subjects := make([]string, 0, len(docs))
	for subj, h := range docs {
		if err := h.Save(); err != nil {
			return nil, err
		}
		subjects = append(subjects, subj)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// ImportConceptMap loads <subject>_concept_map.yaml into concept_map.
func (s *Syncer) ImportConceptMap(ctx context.Context, subject string) (int, error) {
	doc, err := conceptmap.Load(s.dir, subject)
	if err != nil {
		return 0, err
	}
	n, err := conceptmap.Import(ctx, doc, s.cmap)
	if err != nil {
		return n, err
	}
	s.log.Info("imported concept map", "subject", subject, "entries", n)
	return n, nil
}

// SyncAll imports every concept map and hints document found in the data
// directory. A missing directory is not an error.
func (s *Syncer) SyncAll(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read data dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if subj, ok := conceptMapSubject(e.Name()); ok {
			if _, err := s.ImportConceptMap(ctx, subj); err != nil {
				return err
			}
		}
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if subj, ok := SubjectOf(e.Name()); ok {
			if _, err := s.YAMLToDB(ctx, subj); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopicKey turns a display name into a hints key: lowercased, trimmed,
// spaces replaced with underscores.
func TopicKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func conceptMapSubject(fileName string) (string, bool) {
	base := filepath.Base(fileName)
	suffix := conceptmap.FileName("")
	if !strings.HasSuffix(base, suffix) {
		return "", false
	}
	s := strings.TrimSuffix(base, suffix)
	return s, s != ""
}
