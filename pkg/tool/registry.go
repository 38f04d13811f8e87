// Package tool holds the registry and dispatcher that expose named,
// schema-described operations to the CLI, the HTTP API and the AI
// providers.
package tool

import (
	"fmt"
	"sort"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/types"
)

// Registry is a name-keyed collection of tools. Registration happens at
// startup; lookups after that are read-only, so no lock is needed.
type Registry struct {
	tools map[string]*types.Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*types.Tool)}
}

// Register adds a tool. Names are unique; reusing one fails with
// ErrDuplicateTool so a bad wiring is caught at startup, not at call
// time.
func (r *Registry) Register(t *types.Tool) error {
	if t == nil {
		return fmt.Errorf("nil tool")
	}
	if t.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s has no handler", t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %s: %w", t.Name, apperr.ErrDuplicateTool)
	}
	r.tools[t.Name] = t
	return nil
}

// Get returns the tool by name.
func (r *Registry) Get(name string) (*types.Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Count reports how many tools are registered.
func (r *Registry) Count() int { return len(r.tools) }

// Summary is the listing form of a tool: identity without the handler.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// List returns summaries of every tool, sorted by name.
func (r *Registry) List() []Summary {
	out := make([]Summary, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, Summary{Name: t.Name, Description: t.Description, Category: t.Category})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Categories groups tool summaries by category, tools sorted by name
// within each group.
func (r *Registry) Categories() map[string][]Summary {
	out := make(map[string][]Summary)
	for _, s := range r.List() {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}

// Description is the full, parameter-level view of one tool.
type Description struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Parameters  map[string]any `json:"parameters"`
	Required    []string       `json:"required"`
	Example     string         `json:"example,omitempty"`
}

// Describe returns the full schema of a tool, or ErrUnknownTool.
func (r *Registry) Describe(name string) (*Description, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %s: %w", name, apperr.ErrUnknownTool)
	}
	return &Description{
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Parameters:  t.Parameters.JSONSchema(),
		Required:    t.Parameters.Required(),
		Example:     t.Example,
	}, nil
}
