package gemini

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/yildizm/SalesDash/internal/ai"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1beta"
	DefaultModel      = "gemini-2.5-flash"
	DefaultMaxTokens  = 8192
	DefaultTimeout    = 120 * time.Second
)

// APIKeyEnvs are consulted in order when no key is configured.
var APIKeyEnvs = []string{"GEMINI_API_KEY", "API_KEY"}

// Config holds Gemini-specific configuration
type Config struct {
	APIKey             string        `json:"api_key"`
	BaseURL            string        `json:"base_url"`
	APIVersion         string        `json:"api_version"`
	DefaultModel       string        `json:"default_model"`
	MaxTokens          int           `json:"max_tokens"`
	DefaultTemperature float64       `json:"default_temperature"`
	Timeout            time.Duration `json:"timeout"`
	MaxRetries         int           `json:"max_retries"`
}

// DefaultConfig returns a default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		APIVersion:   DefaultAPIVersion,
		DefaultModel: DefaultModel,
		MaxTokens:    DefaultMaxTokens,
		Timeout:      DefaultTimeout,
	}
}

// Validate checks the static configuration. The API key is checked per request.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ai.NewConfigurationError("gemini", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("gemini", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	if c.APIVersion == "" {
		return ai.NewConfigurationError("gemini", "api_version", "API version is required")
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("gemini", "default_model", "default model is required")
	}

	if c.MaxTokens <= 0 {
		return ai.NewConfigurationError("gemini", "max_tokens", "max tokens must be positive")
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return ai.NewConfigurationError("gemini", "default_temperature", "temperature must be between 0 and 2")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("gemini", "timeout", "timeout must be positive")
	}

	if c.MaxRetries < 0 {
		return ai.NewConfigurationError("gemini", "max_retries", "max retries must not be negative")
	}

	return nil
}

// ToProviderConfig converts to the generic provider config
func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	return &ai.ProviderConfig{
		Name:               "gemini",
		Type:               "gemini",
		APIKey:             c.APIKey,
		BaseURL:            c.BaseURL,
		DefaultModel:       c.DefaultModel,
		MaxTokens:          c.MaxTokens,
		DefaultTemperature: c.DefaultTemperature,
		Timeout:            c.Timeout,
		MaxRetries:         c.MaxRetries,
		Options: map[string]interface{}{
			"api_version": c.APIVersion,
		},
	}
}

// FromProviderConfig fills unset fields with defaults and resolves the API key
// from the environment when none is configured.
func FromProviderConfig(pc *ai.ProviderConfig) *Config {
	c := DefaultConfig()
	if pc != nil {
		c.APIKey = pc.APIKey
		if pc.BaseURL != "" {
			c.BaseURL = pc.BaseURL
		}
		if pc.DefaultModel != "" {
			c.DefaultModel = pc.DefaultModel
		}
		if pc.MaxTokens > 0 {
			c.MaxTokens = pc.MaxTokens
		}
		if pc.DefaultTemperature > 0 {
			c.DefaultTemperature = pc.DefaultTemperature
		}
		if pc.Timeout > 0 {
			c.Timeout = pc.Timeout
		}
		c.MaxRetries = pc.MaxRetries
		if v, ok := pc.Options["api_version"].(string); ok && v != "" {
			c.APIVersion = v
		}
	}

	if c.APIKey == "" {
		c.APIKey = apiKeyFromEnv()
	}
	return c
}

func apiKeyFromEnv() string {
	for _, name := range APIKeyEnvs {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
