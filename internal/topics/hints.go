// Package topics keeps the per-subject hints YAML documents and the topics
// table in step, and reports which active topics the resolver can serve.
package topics

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder values written for topics that have no hints entry yet.
const (
	PendingDefinition = "Pending definition."

	metaKey       = "_meta"
	legacyMetaKey = "meta"
	hintsSuffix   = "_hints.yaml"
)

// HintsFileName returns the hints document name for a subject.
func HintsFileName(subject string) string {
	return subject + hintsSuffix
}

// Meta is the _meta block of a hints entry. Nil pointers mean unset.
type Meta struct {
	GradeLevel   *int   `yaml:"grade_level"`
	Active       *bool  `yaml:"active"`
	LastSeenDate string `yaml:"last_seen_date"`
	Subject      string `yaml:"subject"`
}

// Hint is one topic of a hints document.
type Hint struct {
	Name       string   `yaml:"-"`
	Definition string   `yaml:"definition"`
	Examples   []string `yaml:"examples"`
	Link       string   `yaml:"link"`
	Meta       Meta     `yaml:"-"`
}

// Hints is a parsed <subject>_hints.yaml. It edits the YAML node tree in
// place so entries keep their order and unknown keys survive a save.
type Hints struct {
	Subject string
	path    string
	root    *yaml.Node
}

// LoadHints reads <dir>/<subject>_hints.yaml. A missing file yields an
// empty document that Save will create.
func LoadHints(dir, subject string) (*Hints, error) {
	h := &Hints{
		Subject: subject,
		path:    filepath.Join(dir, HintsFileName(subject)),
		root:    &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
	}
	data, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read hints: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", HintsFileName(subject), err)
	}
	if len(doc.Content) > 0 {
		switch n := doc.Content[0]; n.Kind {
		case yaml.MappingNode:
			h.root = n
		case yaml.ScalarNode:
			// "{}" written by older tools or an empty "null" document.
		default:
			return nil, fmt.Errorf("parse %s: top level is not a mapping", HintsFileName(subject))
		}
	}
	return h, nil
}

// Path is the file the document is read from and saved to.
func (h *Hints) Path() string { return h.path }

// Names returns the topic keys in file order.
func (h *Hints) Names() []string {
	var out []string
	for i := 0; i+1 < len(h.root.Content); i += 2 {
		out = append(out, h.root.Content[i].Value)
	}
	return out
}

// Entries decodes every topic in file order.
func (h *Hints) Entries() ([]Hint, error) {
	var out []Hint
	for i := 0; i+1 < len(h.root.Content); i += 2 {
		hint, err := decodeHint(h.root.Content[i].Value, h.root.Content[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, hint)
	}
	return out, nil
}

// Get returns the entry named name.
func (h *Hints) Get(name string) (Hint, bool) {
	v := lookup(h.root, name)
	if v == nil {
		return Hint{}, false
	}
	hint, err := decodeHint(name, v)
	if err != nil {
		return Hint{}, false
	}
	return hint, true
}

func decodeHint(name string, n *yaml.Node) (Hint, error) {
	hint := Hint{Name: name}
	if n.Kind != yaml.MappingNode {
		return hint, nil
	}
	if err := n.Decode(&hint); err != nil {
		return hint, fmt.Errorf("decode hint %q: %w", name, err)
	}
	if m := metaNode(n); m != nil {
		if err := m.Decode(&hint.Meta); err != nil {
			return hint, fmt.Errorf("decode %q meta: %w", name, err)
		}
	}
	return hint, nil
}

// Ensure returns the entry node for name, appending a placeholder entry
// when it does not exist. The second result reports whether it was created.
func (h *Hints) Ensure(name string) (*yaml.Node, bool) {
	if v := lookup(h.root, name); v != nil {
		if v.Kind != yaml.MappingNode {
			*v = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		return v, false
	}
	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	set(v, "definition", str(PendingDefinition))
	set(v, "examples", &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle})
	set(v, "link", str(""))
	set(v, metaKey, &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
	h.root.Content = append(h.root.Content, str(name), v)
	return v, true
}

// SetMeta overwrites the given _meta fields of the entry, creating the
// entry and the block when missing. A legacy "meta" key is renamed.
func (h *Hints) SetMeta(name string, m Meta) {
	entry, _ := h.Ensure(name)
	mn := metaNode(entry)
	if mn == nil {
		mn = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		set(entry, metaKey, mn)
	}
	renameLegacyMeta(entry)

	if m.GradeLevel != nil {
		set(mn, "grade_level", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(*m.GradeLevel)})
	}
	if m.Active != nil {
		set(mn, "active", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(*m.Active)})
	}
	if m.LastSeenDate != "" {
		set(mn, "last_seen_date", str(m.LastSeenDate))
	} else if lookup(mn, "last_seen_date") == nil {
		set(mn, "last_seen_date", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"})
	}
	if m.Subject != "" {
		set(mn, "subject", str(m.Subject))
	}
}

// Save writes the document back, creating the directory if needed.
func (h *Hints) Save() error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h.root); err != nil {
		return fmt.Errorf("encode hints: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode hints: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("create hints dir: %w", err)
	}
	if err := os.WriteFile(h.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write hints: %w", err)
	}
	return nil
}

// SubjectOf maps a hints file name back to its subject.
func SubjectOf(fileName string) (string, bool) {
	base := filepath.Base(fileName)
	if !strings.HasSuffix(base, hintsSuffix) {
		return "", false
	}
	s := strings.TrimSuffix(base, hintsSuffix)
	return s, s != ""
}

func metaNode(entry *yaml.Node) *yaml.Node {
	if m := lookup(entry, metaKey); m != nil && m.Kind == yaml.MappingNode {
		return m
	}
	if m := lookup(entry, legacyMetaKey); m != nil && m.Kind == yaml.MappingNode {
		return m
	}
	return nil
}

func renameLegacyMeta(entry *yaml.Node) {
	if lookup(entry, metaKey) != nil {
		return
	}
	for i := 0; i+1 < len(entry.Content); i += 2 {
		if entry.Content[i].Value == legacyMetaKey {
			entry.Content[i].Value = metaKey
			return
		}
	}
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func set(m *yaml.Node, key string, val *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = val
			return
		}
	}
	m.Content = append(m.Content, str(key), val)
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
