package builtin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/orcli-org/orcli/pkg/engine"
	"github.com/orcli-org/orcli/pkg/llm/mock"
	"github.com/orcli-org/orcli/pkg/types"
)

func TestFsCreateWithContent(t *testing.T) {
	deps := testDeps(t, nil)
	reg := testRegistry(t, deps)
	tl, _ := reg.Get("fs_create")

	path := filepath.Join(t.TempDir(), "note.txt")
	payload, err := tl.Handler(context.Background(), types.Args{"file_path": path, "content": "hello"})
	if err != nil {
		t.Fatalf("fs_create failed: %v", err)
	}
	res := payload.(*engine.OperationResult)
	if res.Kind != types.OpCreate {
		t.Errorf("expected create, got %s", res.Kind)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}
}

func TestFsCreateGeneratesFromDescription(t *testing.T) {
	provider := mock.Text("```python\nprint('generated')\n```")
	deps := testDeps(t, provider)
	reg := testRegistry(t, deps)
	tl, _ := reg.Get("fs_create")

	path := filepath.Join(t.TempDir(), "gen.py")
	_, err := tl.Handler(context.Background(), types.Args{"file_path": path, "description": "print something"})
	if err != nil {
		t.Fatalf("fs_create failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "print('generated')" {
		t.Errorf("expected fenced content stripped, got %q", data)
	}
}

func TestFsCreateNeedsContentOrDescription(t *testing.T) {
	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("fs_create")

	path := filepath.Join(t.TempDir(), "empty.txt")
	if _, err := tl.Handler(context.Background(), types.Args{"file_path": path}); err == nil {
		t.Error("expected an error without content or description")
	}
}

func TestFsReadLineRange(t *testing.T) {
	deps := testDeps(t, nil)
	reg := testRegistry(t, deps)
	tl, _ := reg.Get("fs_read")

	path := filepath.Join(t.TempDir(), "lines.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour"), 0o644); err != nil {
		t.Fatal(err)
	}

	payload, err := tl.Handler(context.Background(), types.Args{"file_path": path, "start_line": 2, "end_line": 3})
	if err != nil {
		t.Fatalf("fs_read failed: %v", err)
	}
	res := payload.(*engine.ReadResult)
	if res.Content != "two\nthree" {
		t.Errorf("expected lines 2-3, got %q", res.Content)
	}
}

func TestFsWriteThenUndo(t *testing.T) {
	deps := testDeps(t, nil)
	reg := testRegistry(t, deps)

	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte("before"), 0o644); err != nil {
		t.Fatal(err)
	}

	write, _ := reg.Get("fs_write")
	if _, err := write.Handler(context.Background(), types.Args{"file_path": path, "content": "after"}); err != nil {
		t.Fatalf("fs_write failed: %v", err)
	}

	undo, _ := reg.Get("fs_undo")
	if _, err := undo.Handler(context.Background(), nil); err != nil {
		t.Fatalf("fs_undo failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "before" {
		t.Errorf("expected original content after undo, got %q", data)
	}
}

func TestFsRemoveAndSearch(t *testing.T) {
	deps := testDeps(t, nil)
	reg := testRegistry(t, deps)
	dir := t.TempDir()

	path := filepath.Join(dir, "target.go")
	if err := os.WriteFile(path, []byte("package target\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	search, _ := reg.Get("fs_search")
	payload, err := search.Handler(context.Background(), types.Args{"directory": dir, "file_type": "go"})
	if err != nil {
		t.Fatalf("fs_search failed: %v", err)
	}
	if payload.(map[string]any)["count"] != 1 {
		t.Errorf("expected 1 match, got %v", payload.(map[string]any)["count"])
	}

	remove, _ := reg.Get("fs_remove")
	if _, err := remove.Handler(context.Background(), types.Args{"file_path": path}); err != nil {
		t.Fatalf("fs_remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file removed")
	}
}

func TestCodeAnalyzeStructure(t *testing.T) {
	deps := testDeps(t, nil)
	reg := testRegistry(t, deps)
	tl, _ := reg.Get("code_analyze")

	path := filepath.Join(t.TempDir(), "sample.py")
	content := "import os\n\nclass Greeter:\n    def hello(self):\n        pass\n\ndef main():\n    pass\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	payload, err := tl.Handler(context.Background(), types.Args{"file_path": path})
	if err != nil {
		t.Fatalf("code_analyze failed: %v", err)
	}
	st := payload.(map[string]any)["structure"].(codeStructure)
	if st.Language != "python" {
		t.Errorf("expected python, got %s", st.Language)
	}
	if len(st.Functions) != 2 {
		t.Errorf("expected 2 functions, got %v", st.Functions)
	}
	if len(st.Types) != 1 || st.Types[0] != "Greeter" {
		t.Errorf("expected class Greeter, got %v", st.Types)
	}
	if st.Imports != 1 {
		t.Errorf("expected 1 import, got %d", st.Imports)
	}
}

func TestCodeModifyWritesProviderOutput(t *testing.T) {
	provider := mock.Text("```go\npackage main // modified\n```")
	deps := testDeps(t, provider)
	reg := testRegistry(t, deps)
	tl, _ := reg.Get("code_modify")

	path := filepath.Join(t.TempDir(), "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	payload, err := tl.Handler(context.Background(), types.Args{"file_path": path, "modification": "add a comment"})
	if err != nil {
		t.Fatalf("code_modify failed: %v", err)
	}
	res := payload.(*engine.OperationResult)
	if res.Kind != types.OpModify {
		t.Errorf("expected modify, got %s", res.Kind)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "package main // modified" {
		t.Errorf("expected provider output written, got %q", data)
	}
}
