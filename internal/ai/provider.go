package ai

import "context"

// Message is one chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the completion capability. Role selects a caller-owned system
// prompt; payload is an arbitrary JSON-serializable record that becomes the
// user message. Implementations return an error on transport or parsing
// failure; callers treat any error as "no result" and fall back locally.
type Provider interface {
	Invoke(ctx context.Context, role string, payload any, temperature float64) (string, error)
}
