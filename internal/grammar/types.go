package grammar

import "github.com/abhisek/hwhelper/internal/resolver"

// Question is a multiple-choice grammar question about one sentence.
type Question struct {
	// Sentence is the practice sentence the question is about.
	Sentence string

	// Prompt is the question text shown to the student.
	Prompt string

	// Options are the answer choices, 2 to 6 of them, in display order.
	Options []string

	// Answer is the text of the correct option.
	Answer string

	// Explanation is a short reason shown after the student answers.
	// May be empty.
	Explanation string

	// Topic is the concept topic the question practices, empty when the
	// question was generated without one.
	Topic string

	// Source is SourceLLM or SourceFallback.
	Source string
}

// Question sources, stored with every served question.
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// Asked is a question already served: its sentence and prompt.
type Asked struct {
	Sentence string
	Prompt   string
}

// SentenceInput holds the context for sentence generation.
type SentenceInput struct {
	// N is the number of sentences wanted. Clamped to 1..MaxSentences.
	N int

	// Topics are the resolved concepts the sentences should leave room for.
	Topics []resolver.Concept

	// Grade is the student's grade level. Zero uses the config default.
	Grade int
}

// QuestionInput holds the context for question generation.
type QuestionInput struct {
	Sentence string

	// Concept steers the question intent through its question focus.
	// Nil lets the model pick a question type.
	Concept *resolver.Concept

	// Asked lists questions already served for this topic, newest first.
	// Their prompts steer the model toward something new; only the same
	// prompt on the same sentence is rejected as a repeat.
	Asked []Asked

	Grade int
}
