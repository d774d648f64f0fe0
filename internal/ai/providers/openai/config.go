package openai

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/yildizm/SalesDash/internal/ai"
)

const (
	DefaultBaseURL     = "https://api.openai.com"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second

	// APIKeyEnv is read once when the provider is built and no key is configured.
	APIKeyEnv = "OPENAI_API_KEY"
)

type Config struct {
	APIKey             string        `json:"api_key"`
	BaseURL            string        `json:"base_url"`
	DefaultModel       string        `json:"default_model"`
	MaxTokens          int           `json:"max_tokens"`
	DefaultTemperature float64       `json:"default_temperature"`
	Timeout            time.Duration `json:"timeout"`
	MaxRetries         int           `json:"max_retries"`
	OrganizationID     string        `json:"organization_id,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		DefaultModel:       DefaultModel,
		MaxTokens:          DefaultMaxTokens,
		DefaultTemperature: DefaultTemperature,
		Timeout:            DefaultTimeout,
	}
}

// Validate checks the static configuration. A missing API key is not a
// configuration error; it is reported by the first request.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ai.NewConfigurationError("openai", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("openai", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("openai", "default_model", "default model is required")
	}

	if c.MaxTokens <= 0 {
		return ai.NewConfigurationError("openai", "max_tokens", "max tokens must be positive")
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return ai.NewConfigurationError("openai", "default_temperature", "temperature must be between 0 and 2")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("openai", "timeout", "timeout must be positive")
	}

	if c.MaxRetries < 0 {
		return ai.NewConfigurationError("openai", "max_retries", "max retries must not be negative")
	}

	return nil
}

func (c *Config) ToProviderConfig() *ai.ProviderConfig {
	return &ai.ProviderConfig{
		Name:               "openai",
		Type:               "openai",
		APIKey:             c.APIKey,
		BaseURL:            c.BaseURL,
		DefaultModel:       c.DefaultModel,
		MaxTokens:          c.MaxTokens,
		DefaultTemperature: c.DefaultTemperature,
		Timeout:            c.Timeout,
		MaxRetries:         c.MaxRetries,
		Options: map[string]interface{}{
			"organization_id": c.OrganizationID,
		},
	}
}

// FromProviderConfig fills unset fields with defaults. The API key falls back to
// the OPENAI_API_KEY environment variable.
func FromProviderConfig(config *ai.ProviderConfig) *Config {
	c := DefaultConfig()
	if config == nil {
		c.APIKey = os.Getenv(APIKeyEnv)
		return c
	}

	c.APIKey = config.APIKey
	if config.BaseURL != "" {
		c.BaseURL = config.BaseURL
	}
	if config.DefaultModel != "" {
		c.DefaultModel = config.DefaultModel
	}
	if config.MaxTokens > 0 {
		c.MaxTokens = config.MaxTokens
	}
	if config.DefaultTemperature > 0 {
		c.DefaultTemperature = config.DefaultTemperature
	}
	if config.Timeout > 0 {
		c.Timeout = config.Timeout
	}
	c.MaxRetries = config.MaxRetries

	if c.APIKey == "" {
		c.APIKey = os.Getenv(APIKeyEnv)
	}

	if config.Options != nil {
		if orgID, ok := config.Options["organization_id"].(string); ok {
			c.OrganizationID = orgID
		}
	}

	return c
}
