// Package mock provides a scriptable provider for tests.
package mock

import (
	"context"
	"sync"

	"github.com/orcli-org/orcli/pkg/llm"
	"github.com/orcli-org/orcli/pkg/types"
)

// Provider returns canned responses in order, recording every request
// it sees. Safe for concurrent use.
type Provider struct {
	mu        sync.Mutex
	Responses []*llm.Response
	Err       error
	Requests  []*llm.Request
	calls     int
}

func New(responses ...*llm.Response) *Provider {
	return &Provider{Responses: responses}
}

// Text builds a provider that always answers with the given content.
func Text(content string) *Provider {
	return New(&llm.Response{
		ID:      "mock-1",
		Model:   "mock-model",
		Content: content,
		Usage:   &types.Usage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2},
	})
}

func (p *Provider) ID() string { return "mock" }

func (p *Provider) Call(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Requests = append(p.Requests, req)
	if p.Err != nil {
		return nil, p.Err
	}
	if len(p.Responses) == 0 {
		return &llm.Response{ID: "mock", Model: req.Model, Content: ""}, nil
	}
	idx := p.calls
	if idx >= len(p.Responses) {
		idx = len(p.Responses) - 1
	}
	p.calls++
	return p.Responses[idx], nil
}

// Calls reports how many requests the provider has served.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
