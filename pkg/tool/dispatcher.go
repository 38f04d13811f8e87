package tool

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/types"
)

// Dispatcher resolves tool names, validates arguments against the
// tool's schema and runs the handler. Every failure mode comes back as
// a failed ToolResult, never as a Go error, so callers have a single
// shape to render.
type Dispatcher struct {
	reg    *Registry
	policy *Policy
	log    *slog.Logger
}

func NewDispatcher(reg *Registry, policy *Policy, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{reg: reg, policy: policy, log: log}
}

// Invoke runs the named tool with the given arguments. Required
// parameters are checked before the handler runs; a panic inside a
// handler is recovered into a failure result.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args types.Args) *types.ToolResult {
	start := time.Now()
	res := &types.ToolResult{ToolName: name}

	t, ok := d.reg.Get(name)
	if !ok {
		return d.fail(res, start, fmt.Errorf("tool %s: %w", name, apperr.ErrUnknownTool))
	}

	if allowed, reason := d.policy.Allow(t); !allowed {
		return d.fail(res, start, fmt.Errorf("tool %s: %s: %w", name, reason, apperr.ErrInvocationDenied))
	}

	if args == nil {
		args = types.Args{}
	}
	for _, param := range t.Parameters.Required() {
		if _, present := args[param]; !present {
			return d.fail(res, start, fmt.Errorf("tool %s: parameter %q: %w", name, param, apperr.ErrMissingParameter))
		}
	}

	payload, err := d.run(ctx, t, args)
	if err != nil {
		return d.fail(res, start, err)
	}

	res.Success = true
	res.Payload = payload
	res.DurationMs = time.Since(start).Milliseconds()
	d.log.Debug("tool invoked", "tool", name, "duration_ms", res.DurationMs)
	return res
}

// run executes the handler, converting a panic into an error.
func (d *Dispatcher) run(ctx context.Context, t *types.Tool, args types.Args) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("tool handler panicked", "tool", t.Name, "panic", r)
			err = fmt.Errorf("tool %s panicked: %v", t.Name, r)
		}
	}()
	return t.Handler(ctx, args)
}

func (d *Dispatcher) fail(res *types.ToolResult, start time.Time, err error) *types.ToolResult {
	res.Success = false
	res.Error = err.Error()
	res.ErrorKind = apperr.Kind(err)
	res.DurationMs = time.Since(start).Milliseconds()
	d.log.Warn("tool invocation failed", "tool", res.ToolName, "kind", res.ErrorKind, "error", err)
	return res
}
