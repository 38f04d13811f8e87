package builtin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/types"
)

func TestWebFetchExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><script>junk()</script></head><body><h1>Title</h1><p>Body text</p></body></html>"))
	}))
	defer srv.Close()

	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("web_fetch")

	payload, err := tl.Handler(context.Background(), types.Args{"url": srv.URL})
	if err != nil {
		t.Fatalf("web_fetch failed: %v", err)
	}
	out := payload.(map[string]any)
	content := out["content"].(string)
	if !strings.Contains(content, "Title") || !strings.Contains(content, "Body text") {
		t.Errorf("expected extracted text, got %q", content)
	}
	if strings.Contains(content, "junk") {
		t.Errorf("expected script content stripped, got %q", content)
	}
}

func TestWebFetchRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>keep tags</p>"))
	}))
	defer srv.Close()

	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("web_fetch")

	payload, err := tl.Handler(context.Background(), types.Args{"url": srv.URL, "raw": true})
	if err != nil {
		t.Fatal(err)
	}
	if payload.(map[string]any)["content"] != "<p>keep tags</p>" {
		t.Error("expected raw body unchanged")
	}
}

func TestWebFetchSaveTo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("downloaded content"))
	}))
	defer srv.Close()

	deps := testDeps(t, nil)
	reg := testRegistry(t, deps)
	tl, _ := reg.Get("web_fetch")

	dest := filepath.Join(t.TempDir(), "page.txt")
	payload, err := tl.Handler(context.Background(), types.Args{"url": srv.URL, "save_to": dest})
	if err != nil {
		t.Fatal(err)
	}
	out := payload.(map[string]any)
	if out["saved_to"] != dest {
		t.Errorf("expected saved_to %s, got %v", dest, out["saved_to"])
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "downloaded content" {
		t.Errorf("expected saved content, got %q", data)
	}
	// Saving goes through the engine, so it is undoable.
	if deps.Engine.History().Len() != 1 {
		t.Error("expected the save recorded in history")
	}
}

func TestWebFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("web_fetch")

	_, err := tl.Handler(context.Background(), types.Args{"url": srv.URL})
	if !errors.Is(err, apperr.ErrExternalService) {
		t.Errorf("expected ErrExternalService, got %v", err)
	}
}

func TestWebFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	}))
	defer srv.Close()

	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("web_fetch")

	_, err := tl.Handler(context.Background(), types.Args{"url": srv.URL, "timeout": 1})
	if !errors.Is(err, apperr.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestWebAPIDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("X-Custom") != "yes" {
			t.Error("expected custom header forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "n": 7}`))
	}))
	defer srv.Close()

	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("web_api")

	payload, err := tl.Handler(context.Background(), types.Args{
		"url":     srv.URL,
		"method":  "post",
		"body":    `{"q":1}`,
		"headers": map[string]any{"X-Custom": "yes"},
	})
	if err != nil {
		t.Fatalf("web_api failed: %v", err)
	}
	out := payload.(map[string]any)
	decoded, ok := out["json"].(map[string]any)
	if !ok {
		t.Fatalf("expected decoded json, got %v", out)
	}
	if decoded["ok"] != true {
		t.Errorf("expected ok true, got %v", decoded["ok"])
	}
}

func TestWebAPIPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	reg := testRegistry(t, testDeps(t, nil))
	tl, _ := reg.Get("web_api")

	payload, err := tl.Handler(context.Background(), types.Args{"url": srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	if payload.(map[string]any)["body"] != "not json" {
		t.Error("expected raw body when response is not JSON")
	}
}
