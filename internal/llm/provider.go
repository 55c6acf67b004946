package llm

import (
	"context"
	"encoding/json"
)

// Provider is a chat-completion backend. Quiz generation, answer validation
// and the reasoning agent all talk to the model through this interface.
type Provider interface {
	// Generate sends one chat request and returns the model output.
	// When req.Schema is set the output is validated against it before
	// being returned.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation history, oldest first.
	Messages []Message

	// Schema, when set, asks the provider for output conforming to the
	// JSON Schema and validates the result.
	Schema *Schema

	// JSONMode asks for a syntactically valid JSON object without pinning a
	// schema. Callers that repair or extract the object themselves use this
	// instead of Schema.
	JSONMode bool

	// Stop lists sequences at which generation halts. The agent uses it to
	// cut the model off before it invents a tool observation.
	Stop []string

	// MaxTokens is the maximum number of tokens in the response.
	// Zero leaves the provider default in place.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema, e.g. "quiz-output". It doubles as the
	// compiled-schema cache key.
	Name string

	// Description is sent to providers that accept one.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the raw model text. With a Schema it is the validated JSON
	// document; otherwise it is whatever the model wrote.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "stop_sequence".
	StopReason string
}

// Text returns the content as a plain string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
