package input

import "strings"

// Prompt is the caller's expression of conversational intent in exactly one
// of three interchangeable forms: free text, model-specific raw records, or
// a structured chat transcript. Replacing the prompt on a UserInput is a
// full variant swap, never a merge.
type Prompt interface {
	// Messages flattens the prompt into the ordered role/content records a
	// tokenizer's chat template consumes.
	Messages() ([]map[string]any, error)
	String() string
	isPrompt()
}

// Text is a single free-form instruction.
type Text string

func (Text) isPrompt() {}

func (t Text) String() string { return string(t) }

func (t Text) Messages() ([]map[string]any, error) {
	return []map[string]any{{"role": string(RoleUser), "content": string(t)}}, nil
}

// RawMessages is a caller-supplied, model-specific record list. It is opaque
// to this layer: Messages returns the identical slice, unvalidated.
type RawMessages []map[string]any

func (RawMessages) isPrompt() {}

func (r RawMessages) Messages() ([]map[string]any, error) {
	return r, nil
}

func (r RawMessages) String() string {
	parts := make([]string, 0, len(r))
	for _, record := range r {
		if content, ok := record["content"].(string); ok {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, "\n")
}

// Chat is a structured, model-agnostic transcript.
type Chat []ChatMessage

func (Chat) isPrompt() {}

func (c Chat) Messages() ([]map[string]any, error) {
	out := make([]map[string]any, len(c))
	for i, m := range c {
		if !m.Role.known() {
			return nil, &RoleError{Role: m.Role}
		}
		out[i] = map[string]any{"role": string(m.Role), "content": m.Content}
	}
	return out, nil
}

func (c Chat) String() string {
	parts := make([]string, len(c))
	for i, m := range c {
		parts[i] = m.Content
	}
	return strings.Join(parts, "\n")
}
