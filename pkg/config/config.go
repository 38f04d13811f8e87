package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ProviderConfig represents configuration for a single model provider.
type ProviderConfig struct {
	Options ProviderOptions `yaml:"options" json:"options"`
}

// ProviderOptions contains the SDK-level options for a provider.
type ProviderOptions struct {
	APIKey      string  `yaml:"apiKey" json:"apiKey" envconfig:"API_KEY"`
	BaseURL     string  `yaml:"baseURL" json:"baseURL" envconfig:"BASE_URL"`
	Model       string  `yaml:"model" json:"model" envconfig:"MODEL"`
	Timeout     int     `yaml:"timeout" json:"timeout" envconfig:"TIMEOUT"` // Request timeout in ms
	Temperature float64 `yaml:"temperature" json:"temperature" envconfig:"TEMP"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens" envconfig:"MAX_TOKENS"`
}

// Preferences groups the settings the file engine consults on every
// operation, so editing the config struct at runtime takes effect on
// the next call.
type Preferences struct {
	BackupEnabled   bool   `yaml:"backup_enabled" envconfig:"BACKUP_ENABLED"`
	BackupDirectory string `yaml:"backup_directory" envconfig:"BACKUP_DIRECTORY"`
	MaxHistory      int    `yaml:"max_history" envconfig:"MAX_HISTORY"`
}

// SecurityConfig contains tool-dispatch policy settings.
type SecurityConfig struct {
	AllowedTools    []string `yaml:"allowed_tools" envconfig:"ALLOWED_TOOLS"`
	AllowFileSystem bool     `yaml:"allow_fs" envconfig:"ALLOW_FS"`
	AllowInternet   bool     `yaml:"allow_net" envconfig:"ALLOW_NET"`
	AllowShell      bool     `yaml:"allow_shell" envconfig:"ALLOW_SHELL"`
	// DeniedCommands extends the built-in shell denylist. Advisory only,
	// not a sandbox.
	DeniedCommands []string `yaml:"denied_commands" envconfig:"DENIED_COMMANDS"`
}

// HTTPConfig contains HTTP API related settings.
type HTTPConfig struct {
	Enable bool   `yaml:"enable" envconfig:"ENABLE"`
	Addr   string `yaml:"addr" envconfig:"ADDR"`
	APIKey string `yaml:"api_key" envconfig:"API_KEY"`
}

// Config is the root configuration structure.
type Config struct {
	// ActiveProvider explicitly sets the active provider (optional).
	// If not set, auto-detection is used based on available API keys.
	ActiveProvider string `yaml:"active_provider" envconfig:"ACTIVE_PROVIDER"`

	// LogLevel controls structured logging verbosity (DEBUG, INFO, WARN, ERROR).
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// Providers is a map of provider ID to its configuration.
	Providers map[string]ProviderConfig `yaml:"provider"`

	// Models maps friendly aliases (coding, general, reasoning) to model
	// identifiers, resolved by the ai_chat tool.
	Models map[string]string `yaml:"models"`

	Preferences Preferences    `yaml:"preferences" envconfig:"PREFERENCES"`
	Security    SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	HTTP        HTTPConfig     `yaml:"http" envconfig:"HTTP"`
}

// ProviderEnvVars maps provider IDs to their environment variable names
// for auto-detection. The first env var in the list that is set wins.
var ProviderEnvVars = map[string]struct {
	APIKey  []string
	BaseURL []string
	Model   []string
}{
	"openrouter": {
		APIKey:  []string{"OPENROUTER_API_KEY"},
		BaseURL: []string{"OPENROUTER_BASE_URL"},
		Model:   []string{"OPENROUTER_MODEL"},
	},
	"openai": {
		APIKey:  []string{"OPENAI_API_KEY"},
		BaseURL: []string{"OPENAI_API_BASE", "OPENAI_BASE_URL"},
		Model:   []string{"OPENAI_MODEL"},
	},
	"gemini": {
		APIKey: []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		Model:  []string{"GEMINI_MODEL"},
	},
	"deepseek": {
		APIKey: []string{"DEEPSEEK_API_KEY"},
		Model:  []string{"DEEPSEEK_MODEL"},
	},
}

// ProviderDefaults contains default options for each provider.
var ProviderDefaults = map[string]ProviderOptions{
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "qwen/qwen3-coder:free",
	},
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o",
	},
	"gemini": {
		Model: "gemini-2.0-flash",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
}

// Default returns the built-in configuration, mirroring what Load
// produces when no file or environment overrides exist.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		LogLevel:  "info",
		Providers: make(map[string]ProviderConfig),
		Models: map[string]string{
			"coding":    "qwen/qwen3-coder:free",
			"general":   "z-ai/glm-4.5-air:free",
			"reasoning": "deepseek/deepseek-r1-0528:free",
		},
		Preferences: Preferences{
			BackupEnabled:   true,
			BackupDirectory: filepath.Join(home, ".orcli", "backups"),
			MaxHistory:      100,
		},
		Security: SecurityConfig{
			AllowFileSystem: true,
			AllowInternet:   true,
			AllowShell:      true,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// GetActiveProvider returns the active provider ID and its options.
// Priority: ActiveProvider field > first provider with an API key in the
// environment > first configured provider with an API key.
func (c *Config) GetActiveProvider() (string, ProviderOptions, error) {
	if c.ActiveProvider != "" {
		if p, ok := c.Providers[c.ActiveProvider]; ok {
			return c.ActiveProvider, mergeOptions(ProviderDefaults[c.ActiveProvider], p.Options), nil
		}
		if opts, ok := c.detectProviderFromEnv(c.ActiveProvider); ok {
			return c.ActiveProvider, opts, nil
		}
		return "", ProviderOptions{}, fmt.Errorf("active provider %q not configured", c.ActiveProvider)
	}

	for _, providerID := range []string{"openrouter", "openai", "gemini", "deepseek"} {
		if opts, ok := c.detectProviderFromEnv(providerID); ok {
			return providerID, opts, nil
		}
	}

	for providerID, p := range c.Providers {
		if p.Options.APIKey != "" {
			return providerID, mergeOptions(ProviderDefaults[providerID], p.Options), nil
		}
	}

	return "", ProviderOptions{}, fmt.Errorf("no provider configured or detected")
}

// detectProviderFromEnv checks if a provider can be configured from
// environment variables alone.
func (c *Config) detectProviderFromEnv(providerID string) (ProviderOptions, bool) {
	envVars, ok := ProviderEnvVars[providerID]
	if !ok {
		return ProviderOptions{}, false
	}

	var apiKey string
	for _, envVar := range envVars.APIKey {
		if v := os.Getenv(envVar); v != "" {
			apiKey = v
			break
		}
	}
	if apiKey == "" {
		return ProviderOptions{}, false
	}

	opts := ProviderDefaults[providerID]
	opts.APIKey = apiKey

	for _, envVar := range envVars.BaseURL {
		if v := os.Getenv(envVar); v != "" {
			opts.BaseURL = v
			break
		}
	}
	for _, envVar := range envVars.Model {
		if v := os.Getenv(envVar); v != "" {
			opts.Model = v
			break
		}
	}

	if p, ok := c.Providers[providerID]; ok {
		opts = mergeOptions(opts, p.Options)
	}
	return opts, true
}

// mergeOptions merges two ProviderOptions, with 'override' taking precedence.
func mergeOptions(base, override ProviderOptions) ProviderOptions {
	result := base
	if override.APIKey != "" {
		result.APIKey = override.APIKey
	}
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Timeout != 0 {
		result.Timeout = override.Timeout
	}
	if override.Temperature > 0 {
		result.Temperature = override.Temperature
	}
	if override.MaxTokens != 0 {
		result.MaxTokens = override.MaxTokens
	}
	return result
}

// Load reads configuration from the specified path, or default locations
// if path is empty. Priority: env vars > config file > defaults.
func Load(path string) (*Config, error) {
	// Try loading .env files (ignore error if not present)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			defaultPath := filepath.Join(home, ".orcli", "config.yaml")
			if _, err := os.Stat(defaultPath); err == nil {
				path = defaultPath
			}
		}
		localPath := "config.yaml"
		if _, err := os.Stat(localPath); err == nil {
			path = localPath
		}
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Process env vars (ORCLI_ prefix), overriding file values.
	if err := envconfig.Process("ORCLI", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}

	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Preferences.MaxHistory <= 0 {
		cfg.Preferences.MaxHistory = 100
	}

	return cfg, nil
}
