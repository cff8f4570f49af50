package grammar

import "testing"

func TestCheckAnswer(t *testing.T) {
	q := &Question{Options: []string{"noun", "verb", "adjective", "adverb"}, Answer: "verb"}
	tests := []struct {
		choice string
		want   bool
	}{
		{"verb", true},
		{" VERB ", true},
		{"2", true},
		{"1", false},
		{"5", false},
		{"noun", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := CheckAnswer(tt.choice, q); got != tt.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tt.choice, got, tt.want)
		}
	}
}

func TestChoiceText(t *testing.T) {
	q := &Question{Options: []string{"noun", "verb"}, Answer: "verb"}
	tests := map[string]string{"1": "noun", "VERB": "verb", " other ": "other"}
	for in, want := range tests {
		if got := ChoiceText(in, q); got != want {
			t.Errorf("ChoiceText(%q) = %q, want %q", in, got, want)
		}
	}
}
