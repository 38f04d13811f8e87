// Package factory builds the configured provider and wraps it in a
// gateway.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orcli-org/orcli/pkg/config"
	"github.com/orcli-org/orcli/pkg/llm"
	"github.com/orcli-org/orcli/pkg/llm/gemini"
	"github.com/orcli-org/orcli/pkg/llm/mock"
	"github.com/orcli-org/orcli/pkg/llm/openai"
)

// NewProvider builds the provider selected by the configuration.
// OpenRouter, OpenAI and DeepSeek all speak the OpenAI wire protocol;
// Gemini gets its own client.
func NewProvider(ctx context.Context, cfg *config.Config) (llm.Provider, config.ProviderOptions, error) {
	id, opts, err := cfg.GetActiveProvider()
	if err != nil {
		return nil, config.ProviderOptions{}, err
	}

	var p llm.Provider
	switch id {
	case "openrouter", "openai", "deepseek":
		p, err = openai.New(id, opts.APIKey, opts.BaseURL)
	case "gemini":
		p, err = gemini.New(ctx, opts.APIKey)
	case "mock":
		p = mock.Text("")
	default:
		err = fmt.Errorf("unknown provider %q", id)
	}
	if err != nil {
		return nil, config.ProviderOptions{}, err
	}
	return p, opts, nil
}

// NewGateway builds the provider and wraps it with defaults from the
// configuration.
func NewGateway(ctx context.Context, cfg *config.Config, log *slog.Logger) (*llm.Gateway, error) {
	p, opts, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return llm.NewGateway(p, opts, log), nil
}
