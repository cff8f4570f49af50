package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		open    byte
		want    string
		wantErr bool
	}{
		{"clean object", `{"a":1}`, '{', `{"a":1}`, false},
		{"preface", "Sure! Here is your question:\n{\"a\":1}", '{', `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":[1,2]}\n```", '{', `{"a":[1,2]}`, false},
		{"trailing chatter", `["x","y"] Hope this helps!`, '[', `["x","y"]`, false},
		{"bracket in preface", "Here are [some] sentences: [\"A.\", \"B.\"]", '[', `["A.", "B."]`, false},
		{"none", "no json at all", '{', "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text, tt.open)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("ExtractJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Prompt string `json:"prompt"`
	}
	resp := &Response{Content: json.RawMessage("```json\n{\"prompt\":\"Pick the verb.\"}\n```")}
	if err := Decode(resp, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Prompt != "Pick the verb." {
		t.Errorf("prompt = %q", out.Prompt)
	}

	var list []string
	resp = &Response{Content: json.RawMessage(`Okay: ["One.", "Two."]`)}
	if err := Decode(resp, &list); err != nil {
		t.Fatalf("Decode list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("list = %v", list)
	}

	resp = &Response{Content: json.RawMessage("nothing here")}
	err := Decode(resp, &out)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestResponseText(t *testing.T) {
	resp := &Response{Content: json.RawMessage("  A simpler story.\n")}
	if got := resp.Text(); got != "A simpler story." {
		t.Errorf("Text() = %q", got)
	}
}

func TestCleanJSON(t *testing.T) {
	got := cleanJSON(json.RawMessage("```json\n{\"a\":1}\n```"))
	if string(got) != `{"a":1}` {
		t.Errorf("cleanJSON = %s", got)
	}
	raw := json.RawMessage(`{"b":2}`)
	if got := cleanJSON(raw); string(got) != `{"b":2}` {
		t.Errorf("cleanJSON(valid) = %s", got)
	}
}
