package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	AI      AIConfig     `yaml:"ai" json:"ai"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Output  OutputConfig `yaml:"output" json:"output"`
	UI      UIConfig     `yaml:"ui" json:"ui"`
}

// AIConfig configures AI provider settings
type AIConfig struct {
	Provider   string        `yaml:"provider" json:"provider"`       // gemini|openai|ollama
	Model      string        `yaml:"model" json:"model"`             // empty for the provider default
	Endpoint   string        `yaml:"endpoint" json:"endpoint"`       // API endpoint URL
	APIKey     string        `yaml:"api_key" json:"api_key"`         // falls back to the provider's env vars
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`         // request timeout
	MaxRetries int           `yaml:"max_retries" json:"max_retries"` // extra attempts after a retryable failure
	MaxTokens  int           `yaml:"max_tokens" json:"max_tokens"`   // response size limit, 0 for provider default
}

// ServerConfig configures the browser dashboard
type ServerConfig struct {
	Addr               string        `yaml:"addr" json:"addr"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" json:"rate_limit_per_minute"`
	AllowedOrigins     []string      `yaml:"allowed_origins" json:"allowed_origins"`
	ReadTimeout        time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout" json:"write_timeout"`
	MaxInputBytes      int64         `yaml:"max_input_bytes" json:"max_input_bytes"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	Format  string `yaml:"format" json:"format"`   // text|json|markdown|csv|html
	Color   string `yaml:"color" json:"color"`     // auto|always|never
	Emoji   bool   `yaml:"emoji" json:"emoji"`     // emoji in terminal output
	Verbose bool   `yaml:"verbose" json:"verbose"` // default verbosity
}

// UIConfig configures the terminal dashboard
type UIConfig struct {
	PhaseInterval time.Duration `yaml:"phase_interval" json:"phase_interval"`
	Theme         string        `yaml:"theme" json:"theme"`
	AltScreen     bool          `yaml:"alt_screen" json:"alt_screen"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		AI: AIConfig{
			Provider:   "gemini",
			Model:      "",
			Endpoint:   "",
			APIKey:     "",
			Timeout:    120 * time.Second,
			MaxRetries: 0,
		},
		Server: ServerConfig{
			Addr:               "127.0.0.1:8080",
			RateLimitPerMinute: 10,
			AllowedOrigins:     []string{"http://localhost:3000"},
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			MaxInputBytes:      10 << 20,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   "auto",
			Emoji:   true,
			Verbose: false,
		},
		UI: UIConfig{
			PhaseInterval: 1200 * time.Millisecond,
			Theme:         "default",
			AltScreen:     true,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAIConfig(); err != nil {
		return err
	}
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	return nil
}

// validateAIConfig validates AI-related configuration
func (c *Config) validateAIConfig() error {
	if c.AI.Provider != "" {
		validProviders := map[string]bool{
			"gemini": true,
			"openai": true,
			"ollama": true,
		}
		if !validProviders[c.AI.Provider] {
			return fmt.Errorf("invalid AI provider: %s (must be one of: gemini, openai, ollama)", c.AI.Provider)
		}
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai timeout must be non-negative")
	}
	if c.AI.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	return nil
}

// validateServerConfig validates HTTP server configuration
func (c *Config) validateServerConfig() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Server.RateLimitPerMinute < 1 {
		return fmt.Errorf("rate_limit_per_minute must be greater than 0")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if c.Server.MaxInputBytes < 0 {
		return fmt.Errorf("max_input_bytes must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.Format != "" {
		validFormats := map[string]bool{
			"text":     true,
			"json":     true,
			"markdown": true,
			"csv":      true,
			"html":     true,
		}
		if !validFormats[c.Output.Format] {
			return fmt.Errorf("invalid output format: %s (must be one of: text, json, markdown, csv, html)", c.Output.Format)
		}
	}
	if c.Output.Color != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.Color] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.Color)
		}
	}
	return nil
}

// validateUIConfig validates terminal UI configuration
func (c *Config) validateUIConfig() error {
	if c.UI.PhaseInterval <= 0 {
		return fmt.Errorf("phase_interval must be greater than 0")
	}
	return nil
}
