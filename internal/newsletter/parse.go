// Package newsletter turns school newsletters into active topics: OCR for
// photographed pages, a line parser for subject headings, and an ingestor
// that updates the hints documents, the topics table and the concepts log.
package newsletter

import (
	"regexp"
	"strings"
	"time"
)

// Subjects recognised in newsletter lines, in match order.
var Subjects = []string{"grammar", "reading", "math", "writing", "science"}

const dateLayout = "2006-01-02"

var (
	datePattern = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	separator   = regexp.MustCompile(`[:\-]`)
)

// Topic is one subject/topic pair found in a newsletter.
type Topic struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
	Date    string `json:"date"` // YYYY-MM-DD
}

// Parse scans text line by line and emits a Topic for every subject name
// a line contains. All topics share the first m/d/yyyy date in the text,
// or now's date when there is none.
func Parse(text string, now time.Time) []Topic {
	date := findDate(text, now)
	var out []Topic
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, subject := range Subjects {
			if !strings.Contains(lower, subject) {
				continue
			}
			topic := extractTopic(line)
			if topic == "" {
				continue
			}
			out = append(out, Topic{Subject: subject, Topic: topic, Date: date})
		}
	}
	return out
}

// extractTopic returns the text between the first separator and the next
// one, or the whole line when there is no separator.
func extractTopic(line string) string {
	parts := separator.Split(line, -1)
	s := line
	if len(parts) > 1 {
		s = parts[1]
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func findDate(text string, now time.Time) string {
	if m := datePattern.FindString(text); m != "" {
		if t, err := time.Parse("1/2/2006", m); err == nil {
			return t.Format(dateLayout)
		}
	}
	return now.Format(dateLayout)
}
