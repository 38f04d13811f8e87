package tool

import (
	"github.com/orcli-org/orcli/pkg/config"
	"github.com/orcli-org/orcli/pkg/types"
)

// Category names used by the built-in tool set and the security gates.
const (
	CategoryFile   = "file"
	CategoryCode   = "code"
	CategoryWeb    = "web"
	CategorySystem = "system"
	CategoryAI     = "ai"
)

// Policy decides whether a tool may be invoked, based on the security
// section of the configuration. A nil policy allows everything.
type Policy struct {
	allowed map[string]bool
	sec     config.SecurityConfig
}

// NewPolicy builds a policy from the security configuration. An empty
// AllowedTools list means every tool is allowed by name; category gates
// still apply.
func NewPolicy(sec config.SecurityConfig) *Policy {
	p := &Policy{sec: sec}
	if len(sec.AllowedTools) > 0 {
		p.allowed = make(map[string]bool, len(sec.AllowedTools))
		for _, name := range sec.AllowedTools {
			p.allowed[name] = true
		}
	}
	return p
}

// Allow reports whether the tool may run. Denials carry a short reason
// for the failure result.
func (p *Policy) Allow(t *types.Tool) (bool, string) {
	if p == nil {
		return true, ""
	}
	if p.allowed != nil && !p.allowed[t.Name] {
		return false, "tool is not in the allowed list"
	}
	switch t.Category {
	case CategoryFile, CategoryCode:
		if !p.sec.AllowFileSystem {
			return false, "filesystem access is disabled"
		}
	case CategoryWeb:
		if !p.sec.AllowInternet {
			return false, "internet access is disabled"
		}
	case CategorySystem:
		if !p.sec.AllowShell {
			return false, "shell access is disabled"
		}
	}
	return true, ""
}
