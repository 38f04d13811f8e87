package builtin

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/types"
)

func TestShellExecRunsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("shell_exec")

	payload, err := tl.Handler(context.Background(), types.Args{"command": "echo hello"})
	if err != nil {
		t.Fatalf("shell_exec failed: %v", err)
	}
	out := payload.(map[string]any)
	if out["exit_code"] != 0 {
		t.Errorf("expected exit code 0, got %v", out["exit_code"])
	}
	if out["stdout"] != "hello\n" {
		t.Errorf("expected hello output, got %q", out["stdout"])
	}
}

func TestShellExecNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("shell_exec")

	payload, err := tl.Handler(context.Background(), types.Args{"command": "exit 3"})
	if err != nil {
		t.Fatalf("expected a payload for a failing command, got %v", err)
	}
	if payload.(map[string]any)["exit_code"] != 3 {
		t.Errorf("expected exit code 3, got %v", payload.(map[string]any)["exit_code"])
	}
}

func TestShellExecDenylist(t *testing.T) {
	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("shell_exec")

	_, err := tl.Handler(context.Background(), types.Args{"command": "rm -rf /tmp/everything"})
	if !errors.Is(err, apperr.ErrInvocationDenied) {
		t.Errorf("expected ErrInvocationDenied, got %v", err)
	}

	// Odd spacing still matches.
	_, err = tl.Handler(context.Background(), types.Args{"command": "rm   -rf  /tmp/x"})
	if !errors.Is(err, apperr.ErrInvocationDenied) {
		t.Errorf("expected normalized command denied, got %v", err)
	}
}

func TestShellExecConfiguredDenylist(t *testing.T) {
	deps := testDeps(t, nil)
	deps.Config.Security.DeniedCommands = []string{"curl"}
	reg := testRegistry(t, deps)
	tl, _ := reg.Get("shell_exec")

	_, err := tl.Handler(context.Background(), types.Args{"command": "curl http://example.com"})
	if !errors.Is(err, apperr.ErrInvocationDenied) {
		t.Errorf("expected configured pattern denied, got %v", err)
	}
}

func TestShellExecTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("shell_exec")

	_, err := tl.Handler(context.Background(), types.Args{"command": "sleep 5", "timeout": 1})
	if !errors.Is(err, apperr.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestEnvInfo(t *testing.T) {
	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("env_info")

	payload, err := tl.Handler(context.Background(), nil)
	if err != nil {
		t.Fatalf("env_info failed: %v", err)
	}
	out := payload.(map[string]any)
	if out["os"] != runtime.GOOS {
		t.Errorf("expected os %s, got %v", runtime.GOOS, out["os"])
	}
	if out["cwd"] == "" {
		t.Error("expected a working directory")
	}
}
