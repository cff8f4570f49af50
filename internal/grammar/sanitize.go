package grammar

import (
	"regexp"
	"strings"
)

// Option count bounds after sanitization.
const (
	MinOptions = 2
	MaxOptions = 6
)

// categoryLabels are answers that name a grammatical category rather
// than a word of the sentence.
var categoryLabels = []string{
	"noun", "verb", "adjective", "adverb", "pronoun", "preposition",
	"conjunction", "interjection", "article", "simile", "metaphor",
	"subject", "predicate",
}

var (
	labelAlt = strings.Join(categoryLabels, "|")

	// "the verb 'jumped'" names the category of the quoted word.
	labelBeforeQuote = regexp.MustCompile(`(?i)\bthe (?:` + labelAlt + `)s? (['"‘“])`)

	// "'jumped' (verb)" tags the word with its category.
	parenLabel = regexp.MustCompile(`(?i)\s*\((?:` + labelAlt + `)s?\)`)
)

// Sanitize cleans a raw question in place: options are trimmed,
// de-duplicated and capped, the answer is snapped to its option, and
// prompt phrasings that name the answer's category are rewritten.
func Sanitize(q *Question) {
	q.Prompt = strings.TrimSpace(q.Prompt)
	q.Answer = strings.TrimSpace(q.Answer)
	q.Explanation = strings.TrimSpace(q.Explanation)
	q.Options = cleanOptions(q.Options)

	if i := optionIndex(q.Options, q.Answer); i >= 0 {
		q.Answer = q.Options[i]
		if i >= MaxOptions {
			q.Options[MaxOptions-1] = q.Answer
		}
	}
	if len(q.Options) > MaxOptions {
		q.Options = q.Options[:MaxOptions]
	}

	q.Prompt = labelBeforeQuote.ReplaceAllString(q.Prompt, "the word $1")
	q.Prompt = parenLabel.ReplaceAllString(q.Prompt, "")
}

func cleanOptions(opts []string) []string {
	seen := make(map[string]bool, len(opts))
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		o = strings.TrimSpace(o)
		k := strings.ToLower(o)
		if o == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, o)
	}
	return out
}

func optionIndex(opts []string, answer string) int {
	for i, o := range opts {
		if strings.EqualFold(o, strings.TrimSpace(answer)) {
			return i
		}
	}
	return -1
}

func isCategoryLabel(s string) bool {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for _, l := range categoryLabels {
		if s == l {
			return true
		}
	}
	return false
}

// leaksAnswer reports whether prompt gives the answer away. Only category
// answers can leak: the prompt leaks when it names the answer and none of
// the other options, so "Is it a simile or a metaphor?" is fine while
// "It's an adverb: what part of speech is 'quickly'?" is not.
func leaksAnswer(prompt, answer string, options []string) bool {
	if !isCategoryLabel(answer) {
		return false
	}
	if parenLabel.MatchString(prompt) || labelBeforeQuote.MatchString(prompt) {
		return true
	}
	if !containsWord(prompt, answer) {
		return false
	}
	for _, o := range options {
		if !strings.EqualFold(o, answer) && containsWord(prompt, o) {
			return false
		}
	}
	return true
}

func containsWord(text, word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `s?\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// normalizePrompt folds case, whitespace and trailing punctuation so that
// trivially different phrasings compare equal.
func normalizePrompt(p string) string {
	p = strings.Join(strings.Fields(strings.ToLower(p)), " ")
	return strings.TrimRight(p, " ?.!")
}
