package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoice_LetterAndDigitSubmit(t *testing.T) {
	tests := []struct {
		key  rune
		want string
	}{
		{'b', "verb"},
		{'3', "adjective"},
		{'E', "pronoun"},
	}
	opts := []string{"noun", "verb", "adjective", "adverb", "pronoun"}
	for _, tt := range tests {
		m := NewMultiChoice("", opts)
		m, _ = m.Update(keyPress(tt.key))
		if !m.Submitted {
			t.Fatalf("key %q did not submit", tt.key)
		}
		if got := m.Chosen(); got != tt.want {
			t.Errorf("key %q chose %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestMultiChoice_OutOfRangeKeyIgnored(t *testing.T) {
	m := NewMultiChoice("", []string{"noun", "verb"})
	m, _ = m.Update(keyPress('4'))
	if m.Submitted {
		t.Fatal("expected no submission for a missing option")
	}
}

func TestMultiChoice_NavigateAndEnter(t *testing.T) {
	m := NewMultiChoice("Which word?", []string{"noun", "verb", "adverb"})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.Chosen(); got != "adverb" {
		t.Fatalf("Chosen = %q, want adverb", got)
	}

	m = m.Reveal("Verb")
	if m.CorrectIndex != 1 {
		t.Errorf("CorrectIndex = %d, want 1", m.CorrectIndex)
	}
	m = m.Reset()
	if m.Submitted || m.ChosenIndex != -1 || m.CorrectIndex != -1 {
		t.Errorf("Reset left state %+v", m)
	}
}

func TestMultiChoice_CapsOptions(t *testing.T) {
	m := NewMultiChoice("", []string{"1", "2", "3", "4", "5", "6", "7"})
	if len(m.Options) != len(ChoiceLabels) {
		t.Errorf("options = %d, want %d", len(m.Options), len(ChoiceLabels))
	}
	if m.View() == "" {
		t.Error("expected a rendered view")
	}
}

func TestMenu_SkipsDisabledAndWraps(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "a", Disabled: true}, {Label: "b"}, {Label: "c", Disabled: true}, {Label: "d"}})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item 1", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down: Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 1 {
		t.Errorf("down wrap: Selected = %d, want 1", m.Selected)
	}
}

func TestMenu_NumberKeyActivates(t *testing.T) {
	var hit string
	action := func(name string) func() tea.Cmd {
		return func() tea.Cmd { hit = name; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "a", Action: action("a")},
		{Label: "b", Action: action("b"), Disabled: true},
		{Label: "c", Action: action("c")},
	})
	m, _ = m.Update(keyPress('2'))
	if hit != "" {
		t.Errorf("disabled item ran %q", hit)
	}
	m, _ = m.Update(keyPress('3'))
	if hit != "c" || m.Selected != 2 {
		t.Errorf("hit = %q, Selected = %d", hit, m.Selected)
	}
}

func TestProgressBar_Color(t *testing.T) {
	if got := NewProgressBar("", 1.5, false, 10).Percent; got != 1 {
		t.Errorf("Percent = %v, want clamped to 1", got)
	}
	bar := NewProgressBar("", 0.5, true, 20).View()
	if !strings.Contains(bar, "50%") {
		t.Errorf("bar %q missing percent", bar)
	}
}
