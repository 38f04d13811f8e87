package builtin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/tool"
	"github.com/orcli-org/orcli/pkg/types"
)

const (
	defaultShellTimeout = 60 * time.Second
	maxShellOutput      = 100 * 1024
)

// builtinDeniedCommands are always refused, regardless of configuration.
var builtinDeniedCommands = []string{
	"rm -rf",
	"del /f",
	"format",
	"fdisk",
	"mkfs",
}

func registerSystemTools(reg *tool.Registry, deps Deps) error {
	tools := []*types.Tool{
		{
			Name:        "shell_exec",
			Description: "Run a shell command and capture its output",
			Category:    tool.CategorySystem,
			Parameters: types.ParamSchema{
				"command": {Type: "string", Required: true, Description: "Command line to run"},
				"workdir": {Type: "string", Description: "Working directory"},
				"timeout": {Type: "integer", Description: "Timeout in seconds, default 60"},
			},
			Example: `shell_exec command="git status" timeout=10`,
			Handler: shellExec(deps),
		},
		{
			Name:        "env_info",
			Description: "Report host environment details",
			Category:    tool.CategorySystem,
			Parameters:  types.ParamSchema{},
			Handler:     envInfo(deps),
		},
	}

	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// commandDenied checks the built-in denylist plus any configured
// additions. Matching is substring-based on the normalized command.
func commandDenied(command string, extra []string) (string, bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(command), " "))
	for _, denied := range builtinDeniedCommands {
		if strings.Contains(normalized, denied) {
			return denied, true
		}
	}
	for _, denied := range extra {
		if denied != "" && strings.Contains(normalized, strings.ToLower(denied)) {
			return denied, true
		}
	}
	return "", false
}

func shellExec(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		command, _ := args.String("command")
		if strings.TrimSpace(command) == "" {
			return nil, fmt.Errorf("command is empty")
		}

		var extra []string
		if deps.Config != nil {
			extra = deps.Config.Security.DeniedCommands
		}
		if pattern, denied := commandDenied(command, extra); denied {
			return nil, fmt.Errorf("command matches denied pattern %q: %w", pattern, apperr.ErrInvocationDenied)
		}

		timeout := defaultShellTimeout
		if secs, ok := args.Int("timeout"); ok && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		if workdir, ok := args.String("workdir"); ok && workdir != "" {
			cmd.Dir = workdir
		}
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		start := time.Now()
		err := cmd.Run()
		elapsed := time.Since(start)

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("command exceeded %s: %w", timeout, apperr.ErrTimeout)
		}

		exitCode := 0
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else {
				return nil, fmt.Errorf("error running command: %w", err)
			}
		}

		deps.Log.Info("shell command finished", "exit_code", exitCode, "elapsed", elapsed)
		return map[string]any{
			"command":    command,
			"exit_code":  exitCode,
			"stdout":     truncateOutput(stdout.String()),
			"stderr":     truncateOutput(stderr.String()),
			"elapsed_ms": elapsed.Milliseconds(),
		}, nil
	}
}

func truncateOutput(s string) string {
	if len(s) <= maxShellOutput {
		return s
	}
	return s[:maxShellOutput] + "\n... (output truncated)"
}

func envInfo(deps Deps) types.Handler {
	return func(ctx context.Context, args types.Args) (any, error) {
		cwd, _ := os.Getwd()
		hostname, _ := os.Hostname()

		info := map[string]any{
			"os":       runtime.GOOS,
			"arch":     runtime.GOARCH,
			"cpus":     runtime.NumCPU(),
			"hostname": hostname,
			"cwd":      cwd,
			"time":     time.Now().Format(time.RFC3339),
		}
		if deps.Config != nil {
			if id, _, err := deps.Config.GetActiveProvider(); err == nil {
				info["active_provider"] = id
			}
			info["backup_directory"] = deps.Config.Preferences.BackupDirectory
		}
		return info, nil
	}
}
