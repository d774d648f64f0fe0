package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.salesdash.yaml",               // Project-specific config (highest priority)
	"~/.config/salesdash/config.yaml", // User config
	"/etc/salesdash/config.yaml",      // System config (lowest priority)
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "SALESDASH_"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(path string, err error)
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(path string, err error) {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", path, err)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.salesdash.yaml
// 4. ~/.config/salesdash/config.yaml
// 5. /etc/salesdash/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first, so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn(expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML file over config. Keys absent from the file
// keep their current values.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// decode into a copy so a parse error leaves config untouched
	merged := *config
	merged.Server.AllowedOrigins = append([]string(nil), config.Server.AllowedOrigins...)
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	*config = merged

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// AI Config
		"AI_PROVIDER":    func(v string) error { config.AI.Provider = v; return nil },
		"AI_MODEL":       func(v string) error { config.AI.Model = v; return nil },
		"AI_ENDPOINT":    func(v string) error { config.AI.Endpoint = v; return nil },
		"AI_API_KEY":     func(v string) error { config.AI.APIKey = v; return nil },
		"AI_TIMEOUT":     func(v string) error { return parseDuration(v, &config.AI.Timeout) },
		"AI_MAX_RETRIES": func(v string) error { return parseInt(v, &config.AI.MaxRetries) },
		"AI_MAX_TOKENS":  func(v string) error { return parseInt(v, &config.AI.MaxTokens) },

		// Server Config
		"SERVER_ADDR":                  func(v string) error { config.Server.Addr = v; return nil },
		"SERVER_RATE_LIMIT_PER_MINUTE": func(v string) error { return parseInt(v, &config.Server.RateLimitPerMinute) },
		"SERVER_READ_TIMEOUT":          func(v string) error { return parseDuration(v, &config.Server.ReadTimeout) },
		"SERVER_WRITE_TIMEOUT":         func(v string) error { return parseDuration(v, &config.Server.WriteTimeout) },
		"SERVER_MAX_INPUT_BYTES":       func(v string) error { return parseInt64(v, &config.Server.MaxInputBytes) },
		"SERVER_ALLOWED_ORIGINS":       func(v string) error { config.Server.AllowedOrigins = splitList(v); return nil },

		// Output Config
		"OUTPUT_FORMAT":  func(v string) error { config.Output.Format = v; return nil },
		"OUTPUT_COLOR":   func(v string) error { config.Output.Color = v; return nil },
		"OUTPUT_EMOJI":   func(v string) error { return parseBool(v, &config.Output.Emoji) },
		"OUTPUT_VERBOSE": func(v string) error { return parseBool(v, &config.Output.Verbose) },

		// UI Config
		"UI_PHASE_INTERVAL": func(v string) error { return parseDuration(v, &config.UI.PhaseInterval) },
		"UI_THEME":          func(v string) error { config.UI.Theme = v; return nil },
		"UI_ALT_SCREEN":     func(v string) error { return parseBool(v, &config.UI.AltScreen) },
	}

	for suffix, setter := range envMappings {
		envVar := EnvPrefix + suffix
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// splitList splits a comma-separated value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
