package newsletter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/topics"
)

const sample = `
    Week of 10/14/2025
    Grammar: Adverbs
    Reading: Point of View
    Math - Fractions
    Have a great week!
`

var today = time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	got := Parse(sample, today)
	want := []Topic{
		{Subject: "grammar", Topic: "adverbs", Date: "2025-10-14"},
		{Subject: "reading", Topic: "point_of_view", Date: "2025-10-14"},
		{Subject: "math", Topic: "fractions", Date: "2025-10-14"},
	}
	assert.Equal(t, want, got)
}

func TestParseEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Topic
	}{
		{"no date uses today", "Science: Rocks", []Topic{{"science", "rocks", "2025-11-02"}}},
		{"two digit year is not parsed", "1/5/25\nWriting: Letters", []Topic{{"writing", "letters", "2025-11-02"}}},
		{"no separator keeps line", "Reading Log", []Topic{{"reading", "reading_log", "2025-11-02"}}},
		{"line with two subjects", "Reading and Writing: Essays", []Topic{
			{"reading", "essays", "2025-11-02"},
			{"writing", "essays", "2025-11-02"},
		}},
		{"blank topic skipped", "Math:", nil},
		{"nothing", "Dear families,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text, today))
		})
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:newsletter_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t)
	ctx := context.Background()
	in := NewIngestor(topics.NewSyncer(dir, s.Topics(), s.ConceptMap(), nil), s.Concepts(), nil, nil)
	in.now = func() time.Time { return today }

	res, err := in.Ingest(ctx, sample)
	require.NoError(t, err)
	assert.Len(t, res.Topics, 3)
	assert.Equal(t, []string{"grammar", "math", "reading"}, res.Subjects)
	assert.Equal(t, 3, res.Synced)

	for _, f := range []string{"grammar_hints.yaml", "reading_hints.yaml", "math_hints.yaml"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}

	adv, err := s.Topics().Get(ctx, "adverbs")
	require.NoError(t, err)
	assert.True(t, adv.Active)
	assert.Equal(t, "2025-10-14", adv.LastSeenDate)
	assert.Equal(t, "grammar", adv.Subject)

	concepts, err := s.Concepts().Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, concepts, 3)
	for _, c := range concepts {
		assert.Equal(t, "2025-10-14", c.DateStart)
		assert.Empty(t, c.DateEnd)
		assert.Equal(t, c.Subject, c.Type)
	}
	assert.Equal(t, 3, res.Logged)

	// The same newsletter again changes no concepts.
	again, err := in.Ingest(ctx, sample)
	require.NoError(t, err)
	assert.Len(t, again.Topics, 3)
	assert.Zero(t, again.Logged)
	concepts, err = s.Concepts().Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, concepts, 3)
}

func TestIngestNothingFound(t *testing.T) {
	s := openStore(t)
	in := NewIngestor(topics.NewSyncer(t.TempDir(), s.Topics(), s.ConceptMap(), nil), s.Concepts(), nil, nil)
	res, err := in.Ingest(context.Background(), "Dear families, thank you!")
	require.NoError(t, err)
	assert.Empty(t, res.Topics)
	assert.Empty(t, res.Subjects)
}

type stubOCR struct {
	text string
	err  error
	mime string
}

func (o *stubOCR) Text(_ context.Context, _ []byte, mime string) (string, error) {
	o.mime = mime
	return o.text, o.err
}

func TestIngestImage(t *testing.T) {
	s := openStore(t)
	ocr := &stubOCR{text: "Grammar: Similes"}
	in := NewIngestor(topics.NewSyncer(t.TempDir(), s.Topics(), s.ConceptMap(), nil), s.Concepts(), ocr, nil)

	res, text, err := in.IngestImage(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Grammar: Similes", text)
	assert.Equal(t, "image/png", ocr.mime)
	require.Len(t, res.Topics, 1)
	assert.Equal(t, "similes", res.Topics[0].Topic)

	ocr.err = errors.New("quota")
	_, _, err = in.IngestImage(context.Background(), []byte{1}, "image/png")
	assert.ErrorContains(t, err, "quota")

	noOCR := NewIngestor(nil, nil, nil, nil)
	_, _, err = noOCR.IngestImage(context.Background(), []byte{1}, "image/png")
	assert.Error(t, err)
}

func TestClientOptionsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	assert.Empty(t, ClientOptionsFromEnv())

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/creds.json")
	assert.Len(t, ClientOptionsFromEnv(), 1)

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", `{"type":"service_account"}`)
	assert.Len(t, ClientOptionsFromEnv(), 1)
}
