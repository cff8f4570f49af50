package topics

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher collects writes before syncing.
const DefaultDebounce = 500 * time.Millisecond

// SyncEvent reports one sync triggered by a file change.
type SyncEvent struct {
	File    string
	Subject string
	Kind    string // "hints" or "concept_map"
	Rows    int
	Err     error
}

// Watcher re-syncs the database when hints or concept map documents in
// the data directory change.
type Watcher struct {
	syncer   *Syncer
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]struct{}

	events chan SyncEvent
}

// NewWatcher creates a watcher over the syncer's data directory. A zero
// debounce uses DefaultDebounce.
func NewWatcher(s *Syncer, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		syncer:   s,
		debounce: debounce,
		pending:  make(map[string]struct{}),
		events:   make(chan SyncEvent, 64),
	}
}

// Events delivers one SyncEvent per completed sync. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan SyncEvent {
	return w.events
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.syncer.Dir()); err != nil {
		return fmt.Errorf("watch %s: %w", w.syncer.Dir(), err)
	}
	w.syncer.log.Info("watching data directory", "dir", w.syncer.Dir(), "debounce", w.debounce)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.syncer.log.Error("watcher error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	if _, ok := classify(ev.Name); !ok {
		return
	}
	w.mu.Lock()
	w.pending[ev.Name] = struct{}{}
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	files := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	for path := range files {
		if ctx.Err() != nil {
			return
		}
		kind, _ := classify(path)
		ev := SyncEvent{File: filepath.Base(path), Kind: kind}
		switch kind {
		case "hints":
			ev.Subject, _ = SubjectOf(path)
			ev.Rows, ev.Err = w.syncer.YAMLToDB(ctx, ev.Subject)
		case "concept_map":
			ev.Subject, _ = conceptMapSubject(path)
			ev.Rows, ev.Err = w.syncer.ImportConceptMap(ctx, ev.Subject)
		}
		if ev.Err != nil {
			w.syncer.log.Warn("sync after change failed", "file", ev.File, "error", ev.Err)
		}
		select {
		case w.events <- ev:
		default:
			w.syncer.log.Warn("sync event dropped", "file", ev.File)
		}
	}
}

func classify(path string) (string, bool) {
	if _, ok := SubjectOf(path); ok {
		return "hints", true
	}
	if _, ok := conceptMapSubject(path); ok {
		return "concept_map", true
	}
	return "", false
}
