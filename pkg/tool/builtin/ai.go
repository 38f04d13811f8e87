package builtin

import (
	"context"
	"fmt"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/tool"
	"github.com/orcli-org/orcli/pkg/types"
)

func registerAITools(reg *tool.Registry, deps Deps) error {
	tools := []*types.Tool{
		{
			Name:        "ai_chat",
			Description: "Send a prompt to the configured provider",
			Category:    tool.CategoryAI,
			Parameters: types.ParamSchema{
				"prompt": {Type: "string", Required: true, Description: "Prompt text"},
				"system": {Type: "string", Description: "System instruction"},
				"model":  {Type: "string", Description: "Model name or a configured alias (coding, general, reasoning)"},
			},
			Example: `ai_chat prompt="explain goroutines" model=general`,
			Handler: aiChat(deps),
		},
		{
			Name:        "ai_summarize",
			Description: "Summarize text or a file's content",
			Category:    tool.CategoryAI,
			Parameters: types.ParamSchema{
				"text":      {Type: "string", Description: "Text to summarize"},
				"file_path": {Type: "string", Description: "File whose content to summarize instead of text"},
				"length":    {Type: "string", Description: "Desired length: short, medium or long"},
			},
			Handler: aiSummarize(deps),
		},
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// resolveModel maps configured aliases (coding, general, reasoning) to
// concrete model names; anything else passes through unchanged.
func resolveModel(deps Deps, model string) string {
	if deps.Config == nil || model == "" {
		return model
	}
	if concrete, ok := deps.Config.Models[model]; ok {
		return concrete
	}
	return model
}

func aiChat(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		if deps.Gateway == nil {
			return nil, fmt.Errorf("no provider configured: %w", apperr.ErrExternalService)
		}
		prompt, _ := args.String("prompt")
		system, _ := args.String("system")
		model, _ := args.String("model")

		answer, err := deps.Gateway.Ask(ctx, prompt, system, resolveModel(deps, model))
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"provider": deps.Gateway.ProviderID(),
			"answer":   answer,
		}, nil
	}
}

var summaryInstructions = map[string]string{
	"short":  "Summarize in two or three sentences.",
	"medium": "Summarize in one paragraph.",
	"long":   "Summarize in detail, covering every major point.",
}

func aiSummarize(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		if deps.Gateway == nil {
			return nil, fmt.Errorf("no provider configured: %w", apperr.ErrExternalService)
		}

		text, _ := args.String("text")
		source := "text"
		if path, ok := args.String("file_path"); ok && path != "" {
			res, err := deps.Engine.Read(path)
			if err != nil {
				return nil, err
			}
			text = res.Content
			source = path
		}
		if text == "" {
			return nil, fmt.Errorf("either text or file_path is required")
		}

		length, _ := args.String("length")
		instruction, ok := summaryInstructions[length]
		if !ok {
			instruction = summaryInstructions["medium"]
		}

		summary, err := deps.Gateway.Ask(ctx, clip(text, 24000), "You summarize documents. "+instruction, "")
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"source":  source,
			"summary": summary,
		}, nil
	}
}
