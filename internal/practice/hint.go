package practice

import (
	"fmt"
	"strings"

	"github.com/abhisek/hwhelper/internal/resolver"
	"github.com/abhisek/hwhelper/internal/topics"
)

// Hinter looks grammar terms up in the subject's hints document.
type Hinter struct {
	dir     string
	subject string
}

// NewHinter creates a Hinter over <dir>/<subject>_hints.yaml. The document
// is read on every lookup so edits show up without a restart.
func NewHinter(dir, subject string) *Hinter {
	return &Hinter{dir: dir, subject: subject}
}

// Hint returns the definition of term, followed by its first example,
// or "" when the term has no real definition. Lookups try every resolver
// variant of the term, so "Adverb" finds the "adverbs" entry.
func (h *Hinter) Hint(term string) string {
	doc, err := topics.LoadHints(h.dir, h.subject)
	if err != nil {
		return ""
	}
	for _, v := range resolver.Variants(term) {
		e, ok := doc.Get(v)
		if !ok {
			continue
		}
		def := strings.TrimSpace(e.Definition)
		if def == "" || def == topics.PendingDefinition {
			continue
		}
		if len(e.Examples) > 0 && strings.TrimSpace(e.Examples[0]) != "" {
			return fmt.Sprintf("%s Example: %s", def, strings.TrimSpace(e.Examples[0]))
		}
		return def
	}
	return ""
}
