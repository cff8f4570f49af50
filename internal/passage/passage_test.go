package passage

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hwhelper/internal/store"
)

func TestLibrarySaveAndLoad(t *testing.T) {
	lib := NewLibrary(filepath.Join(t.TempDir(), "passages"))
	lib.now = func() time.Time { return time.Date(2025, 10, 3, 14, 5, 9, 0, time.UTC) }

	names, err := lib.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	name, err := lib.Save("  The fox ran home.  \n", "The Fox")
	require.NoError(t, err)
	assert.Equal(t, "The_Fox.txt", name)

	name, err = lib.Save("Another story.", "")
	require.NoError(t, err)
	assert.Equal(t, "passage_20251003_140509.txt", name)

	_, err = lib.Save(" \n ", "blank")
	assert.ErrorIs(t, err, ErrEmptyText)

	names, err = lib.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"The_Fox.txt", "passage_20251003_140509.txt"}, names)

	text, err := lib.Load("The_Fox")
	require.NoError(t, err)
	assert.Equal(t, "The fox ran home.", text)
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText("story.TXT", strings.NewReader("Once upon a time."))
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time.", text)

	_, err = ExtractText("story.docx", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = ExtractText("broken.pdf", strings.NewReader("not a pdf"))
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	raw := "Header junk\r\n*** START OF BOOK ***\r\nStory text.\r\n*** END OF BOOK ***\r\nLicense"
	assert.Equal(t, "*** START OF BOOK ***\nStory text.", CleanText(raw))
	assert.Equal(t, "No markers here.", CleanText("  No markers here.\r\n"))
}

func paragraph(n int, ch string) string {
	return strings.Repeat(ch, n)
}

func TestSplitIntoPassages(t *testing.T) {
	text := strings.Join([]string{
		paragraph(200, "a"),
		paragraph(200, "b"),
		paragraph(500, "c"),
		paragraph(100, "d"),
		paragraph(50, "e"),
	}, "\n\n")

	got := SplitIntoPassages(text, DefaultMinLen, DefaultMaxLen, nil)
	require.Len(t, got, 2)
	assert.Equal(t, paragraph(200, "a")+"\n\n"+paragraph(200, "b"), got[0])
	assert.Equal(t, paragraph(500, "c")+"\n\n"+paragraph(100, "d")+"\n\n"+paragraph(50, "e"), got[1])

	shuffled := SplitIntoPassages(text, DefaultMinLen, DefaultMaxLen, rand.New(rand.NewPCG(1, 2)))
	assert.ElementsMatch(t, got, shuffled)

	assert.Empty(t, SplitIntoPassages("short\n\ntext", DefaultMinLen, DefaultMaxLen, nil))
}

func gutendexServer(t *testing.T, formats map[string]string, body string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/books/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "children", r.URL.Query().Get("topic"))
		assert.Equal(t, "en", r.URL.Query().Get("languages"))
		f := map[string]string{}
		for k, v := range formats {
			f[k] = srv.URL + v
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"results":[{"id":1,"title":"Fox Tales","formats":%s}]}`, mustJSON(f))
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func mustJSON(m map[string]string) string {
	var parts []string
	for k, v := range m {
		parts = append(parts, fmt.Sprintf("%q:%q", k, v))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func TestFetchRandomPlainText(t *testing.T) {
	srv := gutendexServer(t, map[string]string{
		"text/plain; charset=us-ascii": "/text",
		"image/jpeg":                   "/cover",
	}, "junk\r\n*** START ***\r\nThe fox ran.\r\n*** END ***")

	c := NewClient(srv.URL, WithRand(rand.New(rand.NewPCG(3, 4))))
	text, title, err := c.FetchRandom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Fox Tales", title)
	assert.Equal(t, "*** START ***\nThe fox ran.", text)
}

func TestFetchRandomHTMLFallback(t *testing.T) {
	srv := gutendexServer(t, map[string]string{
		"text/html": "/text",
	}, "<html><body><p>The <b>fox</b> ran.</p></body></html>")

	c := NewClient(srv.URL)
	text, _, err := c.FetchRandom(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "fox")
	assert.NotContains(t, text, "<p>")
}

func TestFetchRandomNoText(t *testing.T) {
	srv := gutendexServer(t, map[string]string{"image/jpeg": "/cover"}, "")
	_, _, err := NewClient(srv.URL).FetchRandom(context.Background())
	assert.ErrorIs(t, err, ErrNoText)
}

func TestFetchRandomHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	_, _, err := NewClient(srv.URL).FetchRandom(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

type stubFetcher struct {
	text string
	err  error
}

func (f stubFetcher) FetchRandom(context.Context) (string, string, error) {
	return f.text, "Stub Book", f.err
}

func TestLoaderPrefersLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fox.txt"), []byte("Local fox story."), 0o644))

	s, err := store.Open("file:passage_loader_local?mode=memory&cache=shared")
	require.NoError(t, err)
	defer s.Close()

	l := NewLoader(NewLibrary(dir), stubFetcher{err: errors.New("offline")}, s.History(), nil, nil)
	got, err := l.Random(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, got.Source)
	assert.Equal(t, "Local fox story.", got.Text)
	assert.NotZero(t, got.PassageID)

	latest, err := s.History().LatestPassage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Local fox story.", latest.OriginalText)
	assert.Zero(t, latest.SessionID)
}

func TestLoaderFallsBackToGutendex(t *testing.T) {
	book := paragraph(400, "x") + "\n\n" + paragraph(450, "y")
	l := NewLoader(NewLibrary(t.TempDir()), stubFetcher{text: book}, nil, rand.New(rand.NewPCG(5, 6)), nil)

	got, err := l.Random(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, SourceGutendex, got.Source)
	assert.Equal(t, "Stub Book", got.Title)
	assert.Contains(t, []string{paragraph(400, "x"), paragraph(450, "y")}, got.Text)
	assert.Zero(t, got.PassageID)
}

func TestLoaderNothingAvailable(t *testing.T) {
	l := NewLoader(NewLibrary(t.TempDir()), stubFetcher{err: errors.New("offline")}, nil, nil, nil)
	_, err := l.Random(context.Background(), false)
	assert.ErrorIs(t, err, ErrNoPassage)

	l = NewLoader(NewLibrary(t.TempDir()), stubFetcher{text: "tiny"}, nil, nil, nil)
	_, err = l.Random(context.Background(), false)
	assert.ErrorIs(t, err, ErrNoPassage)
}
