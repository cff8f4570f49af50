package passage

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/hwhelper/internal/logger"
	"github.com/abhisek/hwhelper/internal/store"
)

// ErrNoPassage is returned when neither the library nor Gutendex yields a
// usable passage.
var ErrNoPassage = errors.New("no passage available")

// Fetcher is the remote book source used when the library is empty.
type Fetcher interface {
	FetchRandom(ctx context.Context) (text, title string, err error)
}

// Source tells where a random passage came from.
type Source string

const (
	SourceLocal    Source = "local"
	SourceGutendex Source = "gutendex"
)

// Loaded is a passage picked by Loader.Random.
type Loaded struct {
	Text      string
	Source    Source
	Title     string
	PassageID int // set when the passage was saved to the database
}

// Loader picks random passages from the library, falling back to a
// remote book.
type Loader struct {
	library *Library
	fetcher Fetcher
	history store.HistoryRepo
	rng     *rand.Rand
	log     *logger.Logger
}

// NewLoader creates a Loader. fetcher and history may be nil.
func NewLoader(lib *Library, fetcher Fetcher, history store.HistoryRepo, rng *rand.Rand, log *logger.Logger) *Loader {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{library: lib, fetcher: fetcher, history: history, rng: rng, log: log.Named("passage")}
}

// Random returns a random local passage, or a random chunk of a Gutendex
// book when the library is empty. With save set the passage is stored as
// an unattached passages row.
func (l *Loader) Random(ctx context.Context, save bool) (*Loaded, error) {
	local, err := l.library.All()
	if err != nil {
		return nil, err
	}

	var out *Loaded
	if len(local) > 0 {
		out = &Loaded{Text: local[l.rng.IntN(len(local))], Source: SourceLocal}
		l.log.Info("loaded passage from local library")
	} else {
		if l.fetcher == nil {
			return nil, ErrNoPassage
		}
		text, title, err := l.fetcher.FetchRandom(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoPassage, err)
		}
		chunks := SplitIntoPassages(text, DefaultMinLen, DefaultMaxLen, l.rng)
		if len(chunks) == 0 {
			return nil, fmt.Errorf("%w: no usable chunks in %q", ErrNoPassage, title)
		}
		out = &Loaded{Text: chunks[l.rng.IntN(len(chunks))], Source: SourceGutendex, Title: title}
		l.log.Info("loaded passage from gutendex", "title", title, "chunks", len(chunks))
	}

	if save && l.history != nil {
		id, err := l.history.AddPassage(ctx, 0, out.Text, "")
		if err != nil {
			l.log.Warn("could not save passage", "error", err)
		} else {
			out.PassageID = id
		}
	}
	return out, nil
}
