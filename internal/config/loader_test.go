package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salesdash.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

// isolatedLoader searches only paths that do not exist.
func isolatedLoader(t *testing.T, paths ...string) *Loader {
	t.Helper()
	l := NewLoader()
	if len(paths) == 0 {
		paths = []string{filepath.Join(t.TempDir(), "missing.yaml")}
	}
	l.configPaths = paths
	return l
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := isolatedLoader(t).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.AI.Provider != "gemini" {
		t.Errorf("Expected default AI provider gemini, got %s", cfg.AI.Provider)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.Format)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := writeConfig(t, `version: "1.0"
ai:
  provider: "openai"
  model: "gpt-4o-mini"
  timeout: 60s
server:
  addr: ":9090"
  allowed_origins: ["https://dash.example.com"]
output:
  format: "json"
  verbose: true
ui:
  phase_interval: 500ms
`)

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.AI.Provider != "openai" {
		t.Errorf("Expected AI provider openai, got %s", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("Expected AI model gpt-4o-mini, got %s", cfg.AI.Model)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Errorf("Expected AI timeout 60s, got %v", cfg.AI.Timeout)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected addr :9090, got %s", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://dash.example.com" {
		t.Errorf("Unexpected allowed origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.Format)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.UI.PhaseInterval != 500*time.Millisecond {
		t.Errorf("Expected phase interval 500ms, got %v", cfg.UI.PhaseInterval)
	}

	// keys absent from the file keep their defaults
	if !cfg.Output.Emoji {
		t.Errorf("Expected emoji to keep its default")
	}
	if cfg.Server.RateLimitPerMinute != 10 {
		t.Errorf("Expected rate limit to keep its default, got %d", cfg.Server.RateLimitPerMinute)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	high := filepath.Join(dir, "high.yaml")
	low := filepath.Join(dir, "low.yaml")
	if err := os.WriteFile(high, []byte("ai:\n  model: from-high\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(low, []byte("ai:\n  model: from-low\n  provider: ollama\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := isolatedLoader(t, high, low).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.AI.Model != "from-high" {
		t.Errorf("Expected higher priority file to win, got %s", cfg.AI.Model)
	}
	if cfg.AI.Provider != "ollama" {
		t.Errorf("Expected lower priority value to survive, got %s", cfg.AI.Provider)
	}
}

func TestLoadConfigBrokenSearchPathWarns(t *testing.T) {
	broken := writeConfig(t, "ai: [unclosed\n")

	l := isolatedLoader(t, broken)
	var warned []string
	l.warn = func(path string, err error) { warned = append(warned, path) }

	cfg, err := l.LoadConfig("")
	if err != nil {
		t.Fatalf("Broken search path file should not fail loading: %v", err)
	}
	if len(warned) != 1 || warned[0] != broken {
		t.Errorf("Expected one warning for %s, got %v", broken, warned)
	}
	if cfg.AI.Provider != "gemini" {
		t.Errorf("Expected defaults to survive a broken file, got %s", cfg.AI.Provider)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `version: "1.0"
ai:
  provider: "openai"
  # Invalid YAML - missing closing quote
output:
  format: "json
  verbose: true
`)

	if _, err := NewLoader().LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	configPath := writeConfig(t, "ai:\n  provider: anthropic\n")

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SALESDASH_AI_PROVIDER", "ollama")
	t.Setenv("SALESDASH_AI_MODEL", "llama3.2")
	t.Setenv("SALESDASH_OUTPUT_VERBOSE", "true")
	t.Setenv("SALESDASH_OUTPUT_EMOJI", "false")
	t.Setenv("SALESDASH_SERVER_ADDR", ":8181")
	t.Setenv("SALESDASH_SERVER_RATE_LIMIT_PER_MINUTE", "25")
	t.Setenv("SALESDASH_SERVER_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SALESDASH_UI_PHASE_INTERVAL", "2s")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.AI.Provider != "ollama" {
		t.Errorf("Expected AI provider ollama, got %s", cfg.AI.Provider)
	}
	if cfg.AI.Model != "llama3.2" {
		t.Errorf("Expected AI model llama3.2, got %s", cfg.AI.Model)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.Emoji {
		t.Errorf("Expected emoji to be false")
	}
	if cfg.Server.Addr != ":8181" {
		t.Errorf("Expected addr :8181, got %s", cfg.Server.Addr)
	}
	if cfg.Server.RateLimitPerMinute != 25 {
		t.Errorf("Expected rate limit 25, got %d", cfg.Server.RateLimitPerMinute)
	}
	expectedOrigins := []string{"http://a.test", "http://b.test"}
	if len(cfg.Server.AllowedOrigins) != len(expectedOrigins) {
		t.Fatalf("Expected %d origins, got %v", len(expectedOrigins), cfg.Server.AllowedOrigins)
	}
	for i, origin := range expectedOrigins {
		if cfg.Server.AllowedOrigins[i] != origin {
			t.Errorf("Expected origin %s, got %s", origin, cfg.Server.AllowedOrigins[i])
		}
	}
	if cfg.UI.PhaseInterval != 2*time.Second {
		t.Errorf("Expected phase interval 2s, got %v", cfg.UI.PhaseInterval)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "SALESDASH_AI_MAX_RETRIES", "not-a-number"},
		{"invalid int64", "SALESDASH_SERVER_MAX_INPUT_BYTES", "lots"},
		{"invalid bool", "SALESDASH_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "SALESDASH_AI_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := NewLoader().applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Fatal("Expected error for invalid env var value, but got none")
			}
			if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("Expected error to name %s, got %v", tt.envVar, err)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	if err := parseDuration("30s", &duration); err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}
	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt(t *testing.T) {
	var value int

	if err := parseInt("42", &value); err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}
	if err := parseInt("not-a-number", &value); err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	if err := parseBool("true", &value); err != nil || !value {
		t.Errorf("Expected true, got %v (err %v)", value, err)
	}
	if err := parseBool("false", &value); err != nil || value {
		t.Errorf("Expected false, got %v (err %v)", value, err)
	}
	if err := parseBool("not-a-bool", &value); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFindConfigFile(t *testing.T) {
	saved := ConfigPaths
	t.Cleanup(func() { ConfigPaths = saved })

	dir := t.TempDir()
	project := filepath.Join(dir, "project.yaml")
	user := filepath.Join(dir, "user.yaml")
	ConfigPaths = []string{project, user}

	if _, found := FindConfigFile(); found {
		t.Error("Expected no config file to be found, but one was found")
	}

	if err := os.WriteFile(user, []byte("version: 1.0"), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	if path, found := FindConfigFile(); !found || path != user {
		t.Errorf("Expected %s, got %s (found %v)", user, path, found)
	}

	if err := os.WriteFile(project, []byte("version: 1.0"), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	if path, _ := FindConfigFile(); path != project {
		t.Errorf("Expected project config to take priority, got %s", path)
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", errMsg: "config file must have .yaml or .yml extension"},
		{name: "system file access", path: "/etc/passwd.yaml", errMsg: "access to system files not allowed"},
		{name: "proc filesystem access", path: "/proc/version.yaml", errMsg: "access to system files not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			switch {
			case tt.errMsg == "" && err != nil:
				t.Errorf("Unexpected error: %v", err)
			case tt.errMsg != "" && err == nil:
				t.Error("Expected error but got none")
			case tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg):
				t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected [a b], got %v", got)
	}
	if splitList("") != nil {
		t.Errorf("Expected nil for empty input")
	}
}
