// Package llm provides an abstraction over AI model providers.
package llm

import "context"

// ChatMessage is a role-tagged message sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client turns an ordered list of messages into a single answer string. An
// empty model selects the implementation's configured default. Failures are
// reported as *domain.UpstreamError carrying a human-readable cause.
type Client interface {
	Chat(ctx context.Context, messages []ChatMessage, model string) (string, error)
}

// Ensure both implementations satisfy Client.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*MockClient)(nil)
)
