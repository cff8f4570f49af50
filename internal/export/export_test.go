package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hwhelper/internal/store"
)

func sampleSession() *store.Session {
	return &store.Session{
		ID:        7,
		Topic:     "Foxes",
		CreatedAt: time.Date(2025, 10, 3, 14, 5, 9, 0, time.UTC),
		Passages: []store.Passage{{
			ID:             12,
			SessionID:      7,
			OriginalText:   "The vulpine creature hastened homeward.",
			SimplifiedText: "The fox hurried home.",
			Questions:      []string{"Who hurried?", "Where did it go?"},
			Words:          []store.Word{{Word: "hastened", Explanation: "moved quickly"}},
		}},
	}
}

func TestWriteTextLayout(t *testing.T) {
	sess := sampleSession()
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sess, &sess.Passages[0]))

	want := "=== Session Info ===\n" +
		"Topic: Foxes\n" +
		"Date: 2025-10-03 14:05:09\n\n" +
		"=== Original Passage ===\n" +
		"The vulpine creature hastened homeward.\n\n" +
		"=== Simplified Version ===\n" +
		"The fox hurried home.\n\n" +
		"=== Questions ===\n" +
		"- Who hurried?\n" +
		"- Where did it go?\n" +
		"\n\n=== Vocabulary ===\n" +
		"hastened: moved quickly\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTextUntitled(t *testing.T) {
	sess := &store.Session{ID: 1, CreatedAt: time.Now()}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sess, &store.Passage{ID: 1}))
	assert.Contains(t, buf.String(), "Topic: Untitled\n")
}

func TestPassagePDF(t *testing.T) {
	sess := sampleSession()
	var buf bytes.Buffer
	require.NoError(t, WritePassagePDF(&buf, sess, &sess.Passages[0]))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestConceptsPDF(t *testing.T) {
	var empty, full bytes.Buffer
	require.NoError(t, WriteConceptsPDF(&empty, nil, DefaultConceptsTitle))
	require.NoError(t, WriteConceptsPDF(&full, []store.Concept{
		{Subject: "grammar", Topic: "adverbs", Type: "grammar", DateStart: "2025-10-01", Notes: "Words ending in -ly"},
		{Subject: "reading", Topic: "point_of_view", DateStart: "2025-10-01", DateEnd: "2025-10-07"},
	}, DefaultConceptsTitle))
	assert.True(t, bytes.HasPrefix(empty.Bytes(), []byte("%PDF-")))
	assert.Greater(t, full.Len(), empty.Len())
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "2025-10-01 to N/A", dateRange(store.Concept{DateStart: "2025-10-01"}))
	assert.Equal(t, "2025-10-01 to 2025-10-07", dateRange(store.Concept{DateStart: "2025-10-01", DateEnd: "2025-10-07"}))
}

func TestExporterWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := New(dir)
	sess := sampleSession()
	p, err := FindPassage(sess, 12)
	require.NoError(t, err)

	txt, err := e.Passage(sess, p, FormatText)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "session_7_passage_12.txt"), txt)
	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "=== Session Info ==="))

	pdfPath, err := e.Passage(sess, p, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "session_7_passage_12.pdf", filepath.Base(pdfPath))

	_, err = e.Passage(sess, p, "docx")
	assert.Error(t, err)

	summary, err := e.Concepts(nil)
	require.NoError(t, err)
	assert.Equal(t, ConceptsFileName, filepath.Base(summary))

	_, err = FindPassage(sess, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
