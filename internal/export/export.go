// Package export writes study sessions and weekly concepts to text and
// PDF files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abhisek/hwhelper/internal/store"
)

// Formats accepted by Exporter.Passage.
const (
	FormatText = "txt"
	FormatPDF  = "pdf"
)

// ConceptsFileName is the concepts summary written by Exporter.Concepts.
const ConceptsFileName = "concepts_summary.pdf"

const dateLayout = "2006-01-02 15:04:05"

// PassageFileName names the export of one passage of a session.
func PassageFileName(sessionID, passageID int, format string) string {
	return fmt.Sprintf("session_%d_passage_%d.%s", sessionID, passageID, format)
}

// WriteText writes the plain-text export of passage p of sess.
func WriteText(w io.Writer, sess *store.Session, p *store.Passage) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "=== Session Info ===\n")
	fmt.Fprintf(bw, "Topic: %s\n", topicOf(sess))
	fmt.Fprintf(bw, "Date: %s\n\n", sess.CreatedAt.Format(dateLayout))

	fmt.Fprintf(bw, "=== Original Passage ===\n")
	bw.WriteString(p.OriginalText)
	fmt.Fprintf(bw, "\n\n=== Simplified Version ===\n")
	bw.WriteString(p.SimplifiedText)
	fmt.Fprintf(bw, "\n\n=== Questions ===\n")
	for _, q := range p.Questions {
		fmt.Fprintf(bw, "- %s\n", q)
	}
	fmt.Fprintf(bw, "\n\n=== Vocabulary ===\n")
	for _, word := range p.Words {
		fmt.Fprintf(bw, "%s: %s\n", word.Word, word.Explanation)
	}
	return bw.Flush()
}

// Exporter writes export files into a directory.
type Exporter struct {
	dir string
}

// New returns an Exporter writing into dir.
func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Passage writes passage p of sess in the given format and returns the
// file path.
func (e *Exporter) Passage(sess *store.Session, p *store.Passage, format string) (string, error) {
	var write func(io.Writer) error
	switch format {
	case FormatText:
		write = func(w io.Writer) error { return WriteText(w, sess, p) }
	case FormatPDF:
		write = func(w io.Writer) error { return WritePassagePDF(w, sess, p) }
	default:
		return "", fmt.Errorf("export format %q: must be %s or %s", format, FormatText, FormatPDF)
	}
	return e.write(PassageFileName(sess.ID, p.ID, format), write)
}

// Concepts writes the weekly concepts summary PDF and returns its path.
func (e *Exporter) Concepts(concepts []store.Concept) (string, error) {
	return e.write(ConceptsFileName, func(w io.Writer) error {
		return WriteConceptsPDF(w, concepts, DefaultConceptsTitle)
	})
}

func (e *Exporter) write(name string, fn func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create exports dir: %w", err)
	}
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return "", fmt.Errorf("export %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}

// FindPassage returns the passage with id pid inside sess.
func FindPassage(sess *store.Session, pid int) (*store.Passage, error) {
	for i := range sess.Passages {
		if sess.Passages[i].ID == pid {
			return &sess.Passages[i], nil
		}
	}
	return nil, fmt.Errorf("passage %d in session %d: %w", pid, sess.ID, store.ErrNotFound)
}

func topicOf(sess *store.Session) string {
	if sess.Topic == "" {
		return "Untitled"
	}
	return sess.Topic
}
