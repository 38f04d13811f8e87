package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orcli-org/orcli/pkg/config"
	"github.com/orcli-org/orcli/pkg/engine"
	"github.com/orcli-org/orcli/pkg/tool"
	"github.com/orcli-org/orcli/pkg/types"
)

func testServer(t *testing.T, apiKey string) (*Server, *engine.Engine) {
	t.Helper()
	cfg := config.Default()
	cfg.Preferences.BackupDirectory = t.TempDir()
	files := engine.New(cfg, nil)

	reg := tool.NewRegistry()
	reg.Register(&types.Tool{
		Name:        "echo",
		Description: "echoes text",
		Category:    tool.CategoryFile,
		Parameters: types.ParamSchema{
			"text": {Type: "string", Required: true, Description: "text to echo"},
		},
		Handler: func(ctx context.Context, args types.Args) (any, error) {
			text, _ := args.String("text")
			return text, nil
		},
	})

	policy := tool.NewPolicy(cfg.Security)
	disp := tool.NewDispatcher(reg, policy, nil)
	return NewServer(config.HTTPConfig{APIKey: apiKey}, reg, disp, files, nil), files
}

func doRequest(t *testing.T, srv *Server, method, path, body, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t, "")
	w := doRequest(t, srv, http.MethodGet, "/healthz", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	srv, _ := testServer(t, "secret")

	if w := doRequest(t, srv, http.MethodGet, "/api/v1/tools", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}
	if w := doRequest(t, srv, http.MethodGet, "/api/v1/tools", "", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", w.Code)
	}
	if w := doRequest(t, srv, http.MethodGet, "/api/v1/tools", "", "secret"); w.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", w.Code)
	}
	// Health stays open.
	if w := doRequest(t, srv, http.MethodGet, "/healthz", "", ""); w.Code != http.StatusOK {
		t.Errorf("expected health without key, got %d", w.Code)
	}
}

func TestListAndDescribeTools(t *testing.T) {
	srv, _ := testServer(t, "")

	w := doRequest(t, srv, http.MethodGet, "/api/v1/tools", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listed struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &listed)
	if listed.Count != 1 {
		t.Errorf("expected 1 tool, got %d", listed.Count)
	}

	if w := doRequest(t, srv, http.MethodGet, "/api/v1/tools/echo", "", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 for describe, got %d", w.Code)
	}
	if w := doRequest(t, srv, http.MethodGet, "/api/v1/tools/ghost", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown tool, got %d", w.Code)
	}
}

func TestInvokeTool(t *testing.T) {
	srv, _ := testServer(t, "")

	w := doRequest(t, srv, http.MethodPost, "/api/v1/tools/echo/invoke", `{"text":"hi"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result types.ToolResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if !result.Success || result.Payload != "hi" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestInvokeMissingParameter(t *testing.T) {
	srv, _ := testServer(t, "")
	w := doRequest(t, srv, http.MethodPost, "/api/v1/tools/echo/invoke", `{}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	srv, _ := testServer(t, "")
	w := doRequest(t, srv, http.MethodPost, "/api/v1/tools/ghost/invoke", `{}`, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	srv, files := testServer(t, "")

	// Undo with no history conflicts.
	if w := doRequest(t, srv, http.MethodPost, "/api/v1/history/undo", "", ""); w.Code != http.StatusConflict {
		t.Errorf("expected 409 on empty history, got %d", w.Code)
	}

	path := filepath.Join(t.TempDir(), "file.txt")
	if _, err := files.Write(path, "content", nil); err != nil {
		t.Fatal(err)
	}

	w := doRequest(t, srv, http.MethodGet, "/api/v1/history", "", "")
	var history struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &history)
	if history.Count != 1 {
		t.Errorf("expected 1 operation, got %d", history.Count)
	}

	if w := doRequest(t, srv, http.MethodPost, "/api/v1/history/undo", "", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 for undo, got %d: %s", w.Code, w.Body.String())
	}

	if w := doRequest(t, srv, http.MethodDelete, "/api/v1/history", "", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 for clear, got %d", w.Code)
	}
}

func TestBackupsEndpoints(t *testing.T) {
	srv, files := testServer(t, "")

	// Modifying an existing file produces a snapshot.
	path := filepath.Join(t.TempDir(), "file.txt")
	if _, err := files.Write(path, "v1", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := files.Write(path, "v2", nil); err != nil {
		t.Fatal(err)
	}

	w := doRequest(t, srv, http.MethodGet, "/api/v1/backups", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listed struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &listed)
	if listed.Count != 1 {
		t.Errorf("expected 1 backup, got %d", listed.Count)
	}

	if w := doRequest(t, srv, http.MethodPost, "/api/v1/backups/prune?days=0", "", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 for prune, got %d", w.Code)
	}
	if w := doRequest(t, srv, http.MethodPost, "/api/v1/backups/prune?days=-1", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative days, got %d", w.Code)
	}
}
