// Package builtin wires the standard tool set into a registry: file
// operations backed by the transaction engine, code helpers, web
// access, system commands and AI prompts.
package builtin

import (
	"log/slog"

	"github.com/orcli-org/orcli/pkg/config"
	"github.com/orcli-org/orcli/pkg/engine"
	"github.com/orcli-org/orcli/pkg/llm"
	"github.com/orcli-org/orcli/pkg/tool"
)

// Deps carries everything the built-in handlers need. Gateway may be
// nil, in which case the AI tools and AI-assisted paths report an
// external service failure.
type Deps struct {
	Engine  *engine.Engine
	Gateway *llm.Gateway
	Config  *config.Config
	Log     *slog.Logger
}

// Register adds the full built-in tool set to the registry.
func Register(reg *tool.Registry, deps Deps) error {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	for _, register := range []func(*tool.Registry, Deps) error{
		registerFileTools,
		registerCodeTools,
		registerWebTools,
		registerSystemTools,
		registerAITools,
	} {
		if err := register(reg, deps); err != nil {
			return err
		}
	}
	return nil
}
