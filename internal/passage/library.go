// Package passage finds reading passages: the local library of saved
// .txt files, uploaded documents and children's books from Gutendex.
package passage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	// ErrEmptyText is returned when a passage has no content after trimming.
	ErrEmptyText = errors.New("passage text is empty")
	// ErrUnsupportedType is returned for uploads other than .txt and .pdf.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Library is the directory of saved passages.
type Library struct {
	dir string
	now func() time.Time
}

// NewLibrary returns a library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir, now: time.Now}
}

// Dir is the directory passages are stored in.
func (l *Library) Dir() string { return l.dir }

// List returns the saved passage file names in sorted order. A missing
// directory is an empty library.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read passages: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Load returns the trimmed contents of a saved passage. The .txt suffix is
// optional.
func (l *Library) Load(name string) (string, error) {
	name = filepath.Base(name)
	if !strings.HasSuffix(name, ".txt") {
		name += ".txt"
	}
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("load passage %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes text under a file name derived from title and returns the
// file name. Spaces in the title become underscores; an empty title gets
// a timestamped name.
func (l *Library) Save(text, title string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	name := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	if name == "" {
		name = "passage_" + l.now().Format("20060102_150405")
	}
	name += ".txt"

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("create passages dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("save passage: %w", err)
	}
	return name, nil
}

// All returns the non-empty contents of every saved passage.
func (l *Library) All() ([]string, error) {
	names, err := l.List()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		text, err := l.Load(n)
		if err != nil {
			return nil, err
		}
		if text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}
