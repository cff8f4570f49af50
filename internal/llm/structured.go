package llm

import "encoding/json"

// Normalized stop reasons.
const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)

// finish turns the text an adapter got back into a Response. For
// structured requests the text is unwrapped from any code fence and checked
// against the schema; a structured reply that fails because the model ran
// out of tokens is reported as truncated instead of invalid.
func finish(req Request, text string, out Response) (*Response, error) {
	out.Content = json.RawMessage(text)
	if out.StopReason == "" {
		out.StopReason = stopEnd
	}
	if req.Schema == nil {
		return &out, nil
	}

	out.Content = cleanJSON(out.Content)
	if err := validateResponse(req.Schema, out.Content); err != nil {
		if out.StopReason == stopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: out.Content}
		}
		return nil, err
	}
	return &out, nil
}

// resolveModel maps a short name such as "claude-haiku" to a model ID.
// Unknown names are passed through so full IDs work too.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
