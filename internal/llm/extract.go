package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the first JSON value in text that starts with open
// ('{' or '['). Markdown code fences and any preface or trailing chatter
// around the value are ignored.
func ExtractJSON(text string, open byte) (json.RawMessage, error) {
	s := stripFences(text)
	for i := 0; i < len(s); i++ {
		if s[i] != open {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("no JSON %s found in response", openName(open))
}

// Decode unmarshals the response content into v, extracting the embedded
// JSON value when the content is not clean JSON.
func Decode(resp *Response, v any) error {
	if err := json.Unmarshal(resp.Content, v); err == nil {
		return nil
	}
	open := byte('{')
	if c := bytes.TrimSpace(resp.Content); len(c) > 0 && c[0] == '[' {
		open = '['
	}
	if _, ok := v.(*[]string); ok {
		open = '['
	}
	raw, err := ExtractJSON(string(resp.Content), open)
	if err != nil {
		return &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return nil
}

// cleanJSON trims a structured response down to its JSON object so that
// providers which wrap output in fences still validate.
func cleanJSON(content json.RawMessage) json.RawMessage {
	if json.Valid(content) {
		return content
	}
	if raw, err := ExtractJSON(string(content), '{'); err == nil {
		return raw
	}
	return content
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.Contains(s, "```") {
		return s
	}
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

func openName(open byte) string {
	if open == '[' {
		return "array"
	}
	return "object"
}
