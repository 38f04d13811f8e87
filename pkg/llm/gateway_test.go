package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/config"
	"github.com/orcli-org/orcli/pkg/llm"
	"github.com/orcli-org/orcli/pkg/llm/mock"
)

func TestGatewayFillsDefaults(t *testing.T) {
	provider := mock.Text("answer")
	gw := llm.NewGateway(provider, config.ProviderOptions{
		Model:     "default-model",
		MaxTokens: 256,
	}, nil)

	resp, err := gw.Complete(context.Background(), &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Content != "answer" {
		t.Errorf("expected answer, got %q", resp.Content)
	}

	sent := provider.Requests[0]
	if sent.Model != "default-model" {
		t.Errorf("expected default model applied, got %q", sent.Model)
	}
	if sent.MaxTokens != 256 {
		t.Errorf("expected default max tokens applied, got %d", sent.MaxTokens)
	}
}

func TestGatewayModelOverride(t *testing.T) {
	provider := mock.Text("answer")
	gw := llm.NewGateway(provider, config.ProviderOptions{Model: "default-model"}, nil)

	if _, err := gw.Ask(context.Background(), "hi", "", "other-model"); err != nil {
		t.Fatal(err)
	}
	if provider.Requests[0].Model != "other-model" {
		t.Errorf("expected override kept, got %q", provider.Requests[0].Model)
	}
}

func TestGatewayAskBuildsMessages(t *testing.T) {
	provider := mock.Text("  spaced answer  ")
	gw := llm.NewGateway(provider, config.ProviderOptions{}, nil)

	answer, err := gw.Ask(context.Background(), "question", "be brief", "")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "spaced answer" {
		t.Errorf("expected trimmed answer, got %q", answer)
	}

	messages := provider.Requests[0].Messages
	if len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(messages))
	}
	if messages[0].Role != llm.RoleSystem || messages[1].Role != llm.RoleUser {
		t.Errorf("unexpected roles: %s, %s", messages[0].Role, messages[1].Role)
	}
}

func TestGatewayWrapsProviderFailure(t *testing.T) {
	provider := mock.New()
	provider.Err = errors.New("connection refused")
	gw := llm.NewGateway(provider, config.ProviderOptions{}, nil)

	_, err := gw.Complete(context.Background(), &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	if !errors.Is(err, apperr.ErrExternalService) {
		t.Errorf("expected ErrExternalService, got %v", err)
	}
}

func TestGatewayMapsDeadline(t *testing.T) {
	provider := mock.New()
	provider.Err = context.DeadlineExceeded
	gw := llm.NewGateway(provider, config.ProviderOptions{}, nil)

	_, err := gw.Complete(context.Background(), &llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	if !errors.Is(err, apperr.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}
