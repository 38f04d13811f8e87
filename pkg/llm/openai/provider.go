// Package openai implements the provider interface on top of any
// OpenAI-compatible chat completion endpoint, which covers OpenAI
// itself, OpenRouter and DeepSeek.
package openai

import (
	"context"
	"fmt"

	sdk "github.com/sashabaranov/go-openai"

	"github.com/orcli-org/orcli/pkg/llm"
	"github.com/orcli-org/orcli/pkg/types"
)

// Provider talks to an OpenAI-compatible API.
type Provider struct {
	id     string
	client *sdk.Client
}

// New builds a provider. id is the configured provider name; baseURL
// may be empty for api.openai.com.
func New(id, apiKey, baseURL string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("provider %s: api key is required", id)
	}
	cfg := sdk.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Provider{id: id, client: sdk.NewClientWithConfig(cfg)}, nil
}

func (p *Provider) ID() string { return p.id }

func (p *Provider) Call(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	messages := make([]sdk.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, sdk.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, sdk.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &llm.Response{
		ID:      resp.ID,
		Model:   resp.Model,
		Content: resp.Choices[0].Message.Content,
		Usage: &types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
