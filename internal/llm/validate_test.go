package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func wordListSchema(maxItems int) *Schema {
	return &Schema{
		Name: "word-list",
		Definition: map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string", "minLength": 1},
			"maxItems": maxItems,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		raw    string
		ok     bool
	}{
		{"fits", wordListSchema(3), `["fox","ran"]`, true},
		{"too many", wordListSchema(3), `["a","b","c","d"]`, false},
		{"empty word", wordListSchema(3), `["fox",""]`, false},
		{"not json", wordListSchema(3), `fox, ran`, false},
		{"empty reply", wordListSchema(3), ``, false},
		{"no schema", nil, `anything at all`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
			}
			if inv.Schema != "word-list" {
				t.Errorf("schema = %q", inv.Schema)
			}
		})
	}
}

func TestValidateResponse_SameNameDifferentShape(t *testing.T) {
	raw := json.RawMessage(`["a","b","c","d"]`)
	if err := validateResponse(wordListSchema(2), raw); err == nil {
		t.Fatal("four words passed a two-word schema")
	}
	if err := validateResponse(wordListSchema(5), raw); err != nil {
		t.Fatalf("four words failed a five-word schema: %v", err)
	}
}
