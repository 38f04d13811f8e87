package types

import (
	"context"
	"sort"
)

// Param describes a single tool parameter.
type Param struct {
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// ParamSchema maps parameter names to their specification.
type ParamSchema map[string]Param

// Required returns the names of all required parameters, sorted.
func (s ParamSchema) Required() []string {
	var names []string
	for name, p := range s {
		if p.Required {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// JSONSchema renders the schema in the JSON-Schema object form that
// LLM tool-calling APIs expect.
func (s ParamSchema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s))
	for name, p := range s {
		props[name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   s.Required(),
	}
}

// Args carries tool invocation arguments as a loose mapping. Typed
// accessors tolerate the float64 numbers produced by JSON decoding.
type Args map[string]any

func (a Args) String(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

func (a Args) Bool(key string) (bool, bool) {
	v, ok := a[key].(bool)
	return v, ok
}

func (a Args) Int(key string) (int, bool) {
	switch v := a[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func (a Args) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Handler implements a tool's effect.
type Handler func(ctx context.Context, args Args) (any, error)

// Tool is a registry descriptor: metadata plus the handler binding.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Parameters  ParamSchema `json:"parameters"`
	Example     string      `json:"usage_example,omitempty"`
	Handler     Handler     `json:"-"`
}

// ToolResult is the normalized outcome of a tool invocation. A result is
// either a success carrying Payload, or a failure carrying Error and
// ErrorKind; never both.
type ToolResult struct {
	ToolName   string `json:"tool_name"`
	Success    bool   `json:"success"`
	Payload    any    `json:"payload,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}
