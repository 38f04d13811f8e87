// Package gemini implements the provider interface on Google's Gemini
// API.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/orcli-org/orcli/pkg/llm"
	"github.com/orcli-org/orcli/pkg/types"
)

type Provider struct {
	client *genai.Client
}

func New(ctx context.Context, apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("provider gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Provider{client: client}, nil
}

func (p *Provider) ID() string { return "gemini" }

func (p *Provider) Call(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	var systemInstruction *genai.Content
	var contents []*genai.Content

	for _, m := range req.Messages {
		if m.Role == llm.RoleSystem {
			systemInstruction = &genai.Content{Parts: []*genai.Part{{Text: m.Content}}}
			continue
		}
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	conf := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
	}
	if req.Temperature != 0 {
		conf.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		conf.MaxOutputTokens = int32(req.MaxTokens)
	}

	model := req.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, conf)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}

	var content string
	for _, part := range resp.Candidates[0].Content.Parts {
		content += part.Text
	}

	out := &llm.Response{Model: model, Content: content}
	if resp.UsageMetadata != nil {
		out.Usage = &types.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}
