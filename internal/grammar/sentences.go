package grammar

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/hwhelper/internal/llm"
)

// Placeholders are served when no usable sentence could be generated.
var Placeholders = []string{
	"The cat slept on the sunny porch.",
	"A blue bird landed on the fence.",
	"We packed snacks for the short hike.",
}

var (
	prefaceLine = regexp.MustCompile(`^(sure|here|let's|let us|okay|ok)\b`)
	leadingNum  = regexp.MustCompile(`^\s*(?:\d+\s*[).:-]?|[-*•])\s*`)
	terminal    = regexp.MustCompile(`[.!?]$`)
	metaWords   = regexp.MustCompile(`(?i)(sentence|example|prompt)`)
)

// parseSentences reads the candidate sentences from a model reply: the
// first JSON array of strings when there is one, otherwise the reply's
// lines without prefaces and numbering.
func parseSentences(text string) []string {
	if raw, err := llm.ExtractJSON(text, '['); err == nil {
		var items []any
		if err := json.Unmarshal(raw, &items); err == nil {
			out := make([]string, 0, len(items))
			for _, it := range items {
				out = append(out, strings.TrimSpace(fmt.Sprint(it)))
			}
			return out
		}
	}

	var out []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || prefaceLine.MatchString(strings.ToLower(ln)) {
			continue
		}
		out = append(out, strings.TrimSpace(leadingNum.ReplaceAllString(ln, "")))
	}
	return out
}

// usableSentence keeps plausible practice sentences: four or more words,
// terminal punctuation, and no talk about the task itself.
func usableSentence(s string) bool {
	s = strings.TrimSpace(s)
	if len(strings.Fields(s)) < 4 {
		return false
	}
	if !terminal.MatchString(s) {
		return false
	}
	return !metaWords.MatchString(s)
}

// keepSentences appends the usable candidates that are not already in
// kept, comparing case-insensitively.
func keepSentences(kept, candidates []string) []string {
	seen := make(map[string]bool, len(kept)+len(candidates))
	for _, s := range kept {
		seen[strings.ToLower(s)] = true
	}
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		k := strings.ToLower(c)
		if !usableSentence(c) || seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, c)
	}
	return kept
}

// fillSentences truncates to n, pads by repeating the last sentence, and
// falls back to the placeholders when nothing is left.
func fillSentences(kept []string, n int) []string {
	if len(kept) == 0 {
		if n > len(Placeholders) {
			n = len(Placeholders)
		}
		return append([]string(nil), Placeholders[:n]...)
	}
	if len(kept) > n {
		return kept[:n]
	}
	for len(kept) < n {
		kept = append(kept, kept[len(kept)-1])
	}
	return kept
}

func clampSentences(n int) int {
	if n < MinSentences {
		return MinSentences
	}
	if n > MaxSentences {
		return MaxSentences
	}
	return n
}
