// Package llm defines the provider abstraction the AI tools talk to.
// Concrete providers live in subpackages; the gateway wraps one with
// request shaping and error normalization.
package llm

import (
	"context"

	"github.com/orcli-org/orcli/pkg/types"
)

// Message roles accepted by providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single, non-streaming completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
}

// Response is a provider's completion.
type Response struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Content string       `json:"content"`
	Usage   *types.Usage `json:"usage,omitempty"`
}

// Provider is a chat-completion backend.
type Provider interface {
	// ID identifies the provider ("openrouter", "openai", "gemini", ...).
	ID() string
	// Call sends one completion request and blocks for the answer.
	Call(ctx context.Context, req *Request) (*Response, error)
}
