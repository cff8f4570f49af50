package grammar

// Sentence count bounds.
const (
	MinSentences = 1
	MaxSentences = 10
)

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated question after
	// sanitization; the first failure stops the pipeline.
	Validators []Validator

	// MaxAttempts is how many generations a question gets before the
	// fallback question is served.
	MaxAttempts int

	// MaxTokens is the token budget for each LLM response.
	MaxTokens int

	// SentenceTemperature and QuestionTemperature control randomness.
	SentenceTemperature float64
	QuestionTemperature float64

	// MaxPriorPrompts caps the "already asked" list in the prompt.
	MaxPriorPrompts int

	// Grade is used when the input carries no grade.
	Grade int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&LeakValidator{},
			&DedupValidator{},
		},
		MaxAttempts:         3,
		MaxTokens:           512,
		SentenceTemperature: 0.4,
		QuestionTemperature: 0.3,
		MaxPriorPrompts:     8,
		Grade:               5,
	}
}
