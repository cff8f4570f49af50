package grammar

import (
	"fmt"
	"strings"
)

const sentenceSystemPrompt = `You write short practice sentences for elementary school grammar practice.
Return ONLY a JSON array of strings. No preface, no explanation, no markdown.`

const questionSystemPrompt = `You are an elementary school ELA tutor creating multiple-choice grammar questions.

Rules:
- Ask about the exact sentence you are given. Do not invent a different sentence.
- Provide 4 options where exactly one is correct. The answer must be the text of one option.
- Never reveal the answer in the prompt. Write "the word 'jumped'", not "the verb 'jumped'".
- Do not repeat any prompt from the "already asked" list.
- Return only the JSON object. No preface, no markdown, no code fences.`

// buildSentencePrompt asks for n sentences, steering them toward the topics'
// question focus and away from sentences already kept.
func buildSentencePrompt(n, grade int, in SentenceInput, exclude []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write exactly %d simple, self-contained sentences (8-14 words each) for a grade %d student.\n", n, grade)
	b.WriteString("Use everyday vocabulary. No dialogue, no quoted speech, no numbers or bullets.\n")
	b.WriteString(`Return ONLY valid JSON: an array of strings, like ["The cat sat on the warm windowsill.", ...].` + "\n")

	if len(in.Topics) > 0 {
		b.WriteString("\nThe sentences will be used to practice these topics, so give room for them:\n")
		for _, c := range in.Topics {
			if c.QuestionFocus != "" {
				fmt.Fprintf(&b, "- %s: %s\n", c.Topic, c.QuestionFocus)
			} else {
				fmt.Fprintf(&b, "- %s\n", c.Topic)
			}
		}
	}
	if len(exclude) > 0 {
		b.WriteString("\nDo not repeat these sentences:\n")
		for _, s := range exclude {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}

// buildQuestionPrompt constructs the user message for one question.
func buildQuestionPrompt(in QuestionInput, grade, maxPrior int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sentence: %q\n", in.Sentence)
	fmt.Fprintf(&b, "Grade: %d\n", grade)

	if c := in.Concept; c != nil && c.QuestionFocus != "" {
		fmt.Fprintf(&b, "Topic: %s\n", c.Topic)
		if c.Category != "" {
			fmt.Fprintf(&b, "Category: %s\n", c.Category)
		}
		fmt.Fprintf(&b, "Question focus: %s\n", c.QuestionFocus)
	} else {
		b.WriteString("Choose one question type: (a) part of speech of a specific word, " +
			"(b) simile vs. metaphor if the sentence has one, or " +
			"(c) subject-verb agreement or punctuation.\n")
	}

	b.WriteString("\nAlready asked for this topic:\n")
	b.WriteString(buildDedup(in.Asked, maxPrior))
	b.WriteString("\n\nExample JSON:\n")
	b.WriteString(`{"prompt": "What part of speech is the word 'jumped' in the sentence?", ` +
		`"options": ["noun", "verb", "adjective", "adverb"], "answer": "verb", ` +
		`"explanation": "'Jumped' is an action, so it is a verb."}`)
	return b.String()
}

// buildDedup lists the prompts already asked, newest first, skipping
// repeats and stopping at max. Returns "None" if there are none.
func buildDedup(asked []Asked, max int) string {
	var b strings.Builder
	seen := map[string]bool{}
	n := 0
	for _, a := range asked {
		key := normalizePrompt(a.Prompt)
		if key == "" || seen[key] {
			continue
		}
		if max > 0 && n == max {
			break
		}
		seen[key] = true
		n++
		fmt.Fprintf(&b, "%d. %s\n", n, a.Prompt)
	}
	if n == 0 {
		return "None"
	}
	return strings.TrimRight(b.String(), "\n")
}
