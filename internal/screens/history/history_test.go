package history

import (
	"context"
	"os"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hwhelper/internal/export"
	"github.com/abhisek/hwhelper/internal/router"
	"github.com/abhisek/hwhelper/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open("file:historyscreen_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, repo store.HistoryRepo) int {
	t.Helper()
	ctx := context.Background()
	sid, err := repo.CreateSession(ctx, "Frogs")
	require.NoError(t, err)
	pid, err := repo.AddPassage(ctx, sid, "Frogs live near ponds.", "Frogs like water.")
	require.NoError(t, err)
	require.NoError(t, repo.AddQuestions(ctx, pid, []string{"Where do frogs live?"}))
	require.NoError(t, repo.AddWord(ctx, pid, "pond", "A small lake."))
	return sid
}

func TestHistoryScreen_EmptyAndLoaded(t *testing.T) {
	s := openStore(t)
	h := New(s.History(), nil)
	assert.Contains(t, h.View(80, 20), "Loading history")

	h.Update(h.Init()())
	assert.Contains(t, h.View(80, 20), "No sessions yet")
}

func TestHistoryScreen_ExpandShowsPassage(t *testing.T) {
	s := openStore(t)
	seed(t, s.History())
	h := New(s.History(), nil)
	h.Update(h.Init()())
	require.Len(t, h.sessions, 1)
	assert.Contains(t, h.View(80, 20), "Frogs")

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	h.Update(cmd())

	view := h.View(100, 30)
	assert.Contains(t, view, "Frogs like water.")
	assert.Contains(t, view, "Where do frogs live?")
	assert.Contains(t, view, "pond: A small lake.")

	// Collapsing and expanding again reuses the loaded session.
	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestHistoryScreen_Export(t *testing.T) {
	s := openStore(t)
	sid := seed(t, s.History())
	dir := t.TempDir()
	h := New(s.History(), export.New(dir))
	h.Update(h.Init()())

	_, cmd := h.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	require.NotNil(t, cmd)
	msg, ok := cmd().(exportedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	h.Update(msg)

	_, err := os.Stat(msg.Path)
	require.NoError(t, err)
	assert.Contains(t, msg.Path, export.PassageFileName(sid, 1, export.FormatText))
	assert.Contains(t, h.View(100, 30), "Exported to")
}

func TestHistoryScreen_EscPops(t *testing.T) {
	h := New(openStore(t).History(), nil)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
