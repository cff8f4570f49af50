package grammar

import "fmt"

// Validator checks a sanitized question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural", "leak".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q *Question, input QuestionInput) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that required fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ QuestionInput) *ValidationError {
	switch {
	case q.Prompt == "":
		return v.fail("prompt is empty")
	case len(q.Prompt) > 300:
		return v.fail("prompt exceeds 300 characters")
	case len(q.Options) < MinOptions:
		return v.fail(fmt.Sprintf("need at least %d options, got %d", MinOptions, len(q.Options)))
	case len(q.Options) > MaxOptions:
		return v.fail(fmt.Sprintf("need at most %d options, got %d", MaxOptions, len(q.Options)))
	case optionIndex(q.Options, q.Answer) < 0:
		return v.fail(fmt.Sprintf("answer %q is not one of the options", q.Answer))
	case len(q.Explanation) > 600:
		return v.fail("explanation exceeds 600 characters")
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}

// LeakValidator rejects prompts that still give the answer away after
// sanitization.
type LeakValidator struct{}

func (v *LeakValidator) Name() string { return "leak" }

func (v *LeakValidator) Validate(q *Question, _ QuestionInput) *ValidationError {
	if leaksAnswer(q.Prompt, q.Answer, q.Options) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("prompt reveals the answer %q", q.Answer),
			Retryable: true,
		}
	}
	return nil
}

// DedupValidator rejects a question already asked about the same sentence.
// Generic prompts such as "Which word is a noun?" are fine on a new
// sentence.
type DedupValidator struct{}

func (v *DedupValidator) Name() string { return "dedup" }

func (v *DedupValidator) Validate(q *Question, input QuestionInput) *ValidationError {
	p := normalizePrompt(q.Prompt)
	sentence := normalizePrompt(input.Sentence)
	for _, a := range input.Asked {
		if normalizePrompt(a.Prompt) == p && normalizePrompt(a.Sentence) == sentence {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "prompt was already asked",
				Retryable: true,
			}
		}
	}
	return nil
}
