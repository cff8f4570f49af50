// Package conceptmap reads the per-subject concept map YAML documents:
//
//	grammar:
//	  parts_of_speech:
//	    nouns:
//	      question_focus: Identify the noun in the sentence.
//
// and flattens them into concept_map rows.
package conceptmap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/hwhelper/internal/store"
)

// ErrNoConceptMap is returned by Load when the subject has no document.
var ErrNoConceptMap = errors.New("concept map not found")

const focusKey = "question_focus"

// FileName returns the document name for a subject.
func FileName(subject string) string {
	return subject + "_concept_map.yaml"
}

// Path returns the document path for a subject inside dir.
func Path(dir, subject string) string {
	return filepath.Join(dir, FileName(subject))
}

// Document is a parsed concept map. Key order from the file is preserved.
type Document struct {
	Subject string
	root    *yaml.Node
}

// Match is a topic found in the document.
type Match struct {
	Category      string
	Topic         string
	QuestionFocus string
}

// Load reads <dir>/<subject>_concept_map.yaml.
func Load(dir, subject string) (*Document, error) {
	data, err := os.ReadFile(Path(dir, subject))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", FileName(subject), ErrNoConceptMap)
	}
	if err != nil {
		return nil, fmt.Errorf("read concept map: %w", err)
	}
	return Parse(subject, data)
}

// Parse decodes a concept map document.
func Parse(subject string, data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s concept map: %w", subject, err)
	}
	d := &Document{Subject: subject}
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		d.root = doc.Content[0]
	}
	return d, nil
}

// visit walks mapping nodes depth-first in file order, calling fn with the
// parent key, the key and its value node. Returning false stops the walk.
func visit(parent string, n *yaml.Node, fn func(parent, key string, val *yaml.Node) bool) bool {
	if n == nil || n.Kind != yaml.MappingNode {
		return true
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		if !fn(parent, key, val) {
			return false
		}
		if !visit(key, val, fn) {
			return false
		}
	}
	return true
}

// focusOf returns the question_focus scalar of a topic node.
func focusOf(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == focusKey && n.Content[i+1].Kind == yaml.ScalarNode {
			return strings.TrimSpace(n.Content[i+1].Value), true
		}
	}
	return "", false
}

// Find locates topic in the document. A key equal to the topic wins;
// otherwise the first key that contains, or is contained in, the topic.
// Only keys carrying a question_focus match. Comparison ignores case.
func (d *Document) Find(topic string) (*Match, bool) {
	t := strings.ToLower(strings.TrimSpace(topic))
	if d == nil || d.root == nil || t == "" {
		return nil, false
	}

	var exact, fuzzy *Match
	visit("", d.root, func(parent, key string, val *yaml.Node) bool {
		focus, ok := focusOf(val)
		if !ok {
			return true
		}
		k := strings.ToLower(key)
		m := &Match{Category: parent, Topic: key, QuestionFocus: focus}
		if k == t {
			exact = m
			return false
		}
		if fuzzy == nil && (strings.Contains(k, t) || strings.Contains(t, k)) {
			fuzzy = m
		}
		return true
	})
	if exact != nil {
		return exact, true
	}
	return fuzzy, fuzzy != nil
}

// Entries flattens every topic that has a question_focus.
func (d *Document) Entries() []store.ConceptMapEntry {
	if d == nil || d.root == nil {
		return nil
	}
	var out []store.ConceptMapEntry
	visit("", d.root, func(parent, key string, val *yaml.Node) bool {
		if focus, ok := focusOf(val); ok {
			out = append(out, store.ConceptMapEntry{
				Subject:       d.Subject,
				Category:      parent,
				Topic:         key,
				QuestionFocus: focus,
			})
		}
		return true
	})
	return out
}

// Import upserts every entry of the document into the concept_map table
// and returns how many were written.
func Import(ctx context.Context, d *Document, repo store.ConceptMapRepo) (int, error) {
	n := 0
	for _, e := range d.Entries() {
		if err := repo.Upsert(ctx, e); err != nil {
			return n, fmt.Errorf("import %s: %w", e.Topic, err)
		}
		n++
	}
	return n, nil
}
