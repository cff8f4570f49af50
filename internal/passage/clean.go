package passage

import (
	"math/rand/v2"
	"strings"
)

// Passage length bounds used when splitting a book.
const (
	DefaultMinLen = 300
	DefaultMaxLen = 800
)

// CleanText strips the Project Gutenberg header and footer when both
// markers are present and normalizes line endings.
func CleanText(text string) string {
	start := strings.Index(text, "*** START")
	end := strings.Index(text, "*** END")
	if start != -1 && end != -1 && start <= end {
		text = text[start:end]
	}
	return strings.TrimSpace(strings.ReplaceAll(text, "\r", ""))
}

// SplitIntoPassages groups paragraphs into chunks shorter than maxLen and
// keeps only chunks longer than minLen. The result is shuffled with rng;
// a nil rng leaves the chunks in book order.
func SplitIntoPassages(text string, minLen, maxLen int, rng *rand.Rand) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var passages []string
	current := ""
	for _, p := range paragraphs {
		if len(current)+len(p) < maxLen {
			current += "\n\n" + p
			continue
		}
		if len(current) > minLen {
			passages = append(passages, strings.TrimSpace(current))
		}
		current = p
	}
	if len(current) > minLen {
		passages = append(passages, strings.TrimSpace(current))
	}

	if rng != nil {
		rng.Shuffle(len(passages), func(i, j int) {
			passages[i], passages[j] = passages[j], passages[i]
		})
	}
	return passages
}
