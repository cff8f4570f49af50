package grammar

import (
	"strconv"
	"strings"
)

// CheckAnswer compares the student's choice against the correct answer.
// The choice may be a 1-based option index or the option text; text is
// compared case-insensitively after trimming.
func CheckAnswer(choice string, q *Question) bool {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return false
	}
	if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(q.Options) {
		return strings.EqualFold(strings.TrimSpace(q.Options[idx-1]), strings.TrimSpace(q.Answer))
	}
	return strings.EqualFold(choice, strings.TrimSpace(q.Answer))
}

// ChoiceText maps a choice (index or text) to the option text it names.
// Unknown choices are returned trimmed.
func ChoiceText(choice string, q *Question) string {
	choice = strings.TrimSpace(choice)
	if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(q.Options) {
		return q.Options[idx-1]
	}
	if i := optionIndex(q.Options, choice); i >= 0 {
		return q.Options[i]
	}
	return choice
}
