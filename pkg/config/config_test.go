package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if !cfg.Preferences.BackupEnabled {
		t.Error("expected backups enabled by default")
	}
	if cfg.Preferences.MaxHistory != 100 {
		t.Errorf("expected max history 100, got %d", cfg.Preferences.MaxHistory)
	}
	if cfg.Models["coding"] == "" {
		t.Error("expected a coding model alias")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
active_provider: openrouter
log_level: debug
provider:
  openrouter:
    options:
      apiKey: test-key
      model: custom/model
preferences:
  backup_enabled: false
  max_history: 10
security:
  allow_shell: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.Preferences.BackupEnabled {
		t.Error("expected backups disabled by the file")
	}
	if cfg.Preferences.MaxHistory != 10 {
		t.Errorf("expected max history 10, got %d", cfg.Preferences.MaxHistory)
	}
	if cfg.Security.AllowShell {
		t.Error("expected shell disabled by the file")
	}

	id, opts, err := cfg.GetActiveProvider()
	if err != nil {
		t.Fatalf("expected active provider: %v", err)
	}
	if id != "openrouter" {
		t.Errorf("expected openrouter, got %s", id)
	}
	if opts.APIKey != "test-key" {
		t.Errorf("expected file api key, got %q", opts.APIKey)
	}
	if opts.Model != "custom/model" {
		t.Errorf("expected file model over default, got %q", opts.Model)
	}
	if opts.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("expected default base url kept, got %q", opts.BaseURL)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestDetectProviderFromEnv(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")
	t.Setenv("OPENROUTER_MODEL", "env/model")

	cfg := Default()
	id, opts, err := cfg.GetActiveProvider()
	if err != nil {
		t.Fatalf("expected detection: %v", err)
	}
	if id != "openrouter" {
		t.Errorf("expected openrouter, got %s", id)
	}
	if opts.APIKey != "env-key" || opts.Model != "env/model" {
		t.Errorf("expected env values, got %+v", opts)
	}
}

func TestNoProviderConfigured(t *testing.T) {
	for _, envVars := range ProviderEnvVars {
		for _, v := range envVars.APIKey {
			t.Setenv(v, "")
		}
	}

	cfg := Default()
	if _, _, err := cfg.GetActiveProvider(); err == nil {
		t.Error("expected an error with no provider available")
	}
}

func TestMergeOptions(t *testing.T) {
	base := ProviderOptions{BaseURL: "https://base", Model: "base-model", MaxTokens: 100}
	override := ProviderOptions{Model: "override-model"}

	merged := mergeOptions(base, override)
	if merged.Model != "override-model" {
		t.Errorf("expected override model, got %s", merged.Model)
	}
	if merged.BaseURL != "https://base" {
		t.Errorf("expected base url kept, got %s", merged.BaseURL)
	}
	if merged.MaxTokens != 100 {
		t.Errorf("expected base max tokens kept, got %d", merged.MaxTokens)
	}
}
