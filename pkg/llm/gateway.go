package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/config"
)

// Gateway wraps a provider with default options, a request timeout and
// error normalization. The AI tools go through the gateway so provider
// quirks stay out of handler code.
type Gateway struct {
	provider Provider
	opts     config.ProviderOptions
	timeout  time.Duration
	log      *slog.Logger
}

// NewGateway builds a gateway around a provider. A zero timeout means
// 120 seconds.
func NewGateway(p Provider, opts config.ProviderOptions, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	timeout := time.Duration(opts.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Gateway{provider: p, opts: opts, timeout: timeout, log: log}
}

// ProviderID reports which provider the gateway fronts.
func (g *Gateway) ProviderID() string { return g.provider.ID() }

// Complete sends the request through the provider, filling defaults from
// the configured options. Provider failures come back wrapped as
// ErrExternalService; deadline overruns as ErrTimeout.
func (g *Gateway) Complete(ctx context.Context, req *Request) (*Response, error) {
	if req.Model == "" {
		req.Model = g.opts.Model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = g.opts.MaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = float32(g.opts.Temperature)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.provider.Call(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("provider %s: %w", g.provider.ID(), apperr.ErrTimeout)
		}
		return nil, fmt.Errorf("provider %s: %v: %w", g.provider.ID(), err, apperr.ErrExternalService)
	}
	g.log.Debug("completion finished", "provider", g.provider.ID(), "model", resp.Model, "elapsed", time.Since(start))
	return resp, nil
}

// Ask is the one-shot convenience used by the AI tools: a prompt, an
// optional system instruction and an optional model override.
func (g *Gateway) Ask(ctx context.Context, prompt, system, model string) (string, error) {
	var messages []Message
	if system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: system})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})

	resp, err := g.Complete(ctx, &Request{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}
