package grammar

import "github.com/abhisek/hwhelper/internal/llm"

// QuestionSchema defines the JSON schema for grammar question responses.
var QuestionSchema = &llm.Schema{
	Name:        "grammar-question",
	Description: "One multiple-choice grammar question about a given sentence",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "The question shown to the student. Must not name the answer.",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Two to six answer choices, exactly one correct",
			},
			"answer": map[string]any{
				"type":        "string",
				"description": "The text of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two kid-friendly sentences explaining the answer",
			},
		},
		"required":             []any{"prompt", "options", "answer", "explanation"},
		"additionalProperties": false,
	},
}
