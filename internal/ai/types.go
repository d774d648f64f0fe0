package ai

import (
	"time"

	"github.com/google/uuid"
)

// CompletionRequest represents a request for a single completion
type CompletionRequest struct {
	// Prompt is the user message
	Prompt string `json:"prompt"`

	// SystemPrompt provides system-level instructions
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Model overrides the provider's default model
	Model string `json:"model,omitempty"`

	// MaxTokens limits the response length
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0)
	Temperature float64 `json:"temperature,omitempty"`

	// ResponseFormat asks for structured output when the provider supports it
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	// Metadata for request tracking
	RequestID string            `json:"request_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Validate checks request fields that every provider relies on
func (r *CompletionRequest) Validate() error {
	if r.Prompt == "" {
		return NewValidationError("prompt", "", "prompt is required")
	}
	if r.MaxTokens < 0 {
		return NewValidationError("max_tokens", "", "max tokens must not be negative")
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return NewValidationError("temperature", "", "temperature must be between 0 and 2")
	}
	return nil
}

// WantsJSON reports whether the caller asked for a JSON response
func (r *CompletionRequest) WantsJSON() bool {
	return r.ResponseFormat != nil && r.ResponseFormat.Type == ResponseFormatJSON
}

// NewRequestID returns a fresh request identifier
func NewRequestID() string {
	return uuid.NewString()
}

// ResponseFormatType selects between free text and JSON output
type ResponseFormatType string

const (
	ResponseFormatText ResponseFormatType = "text"
	ResponseFormatJSON ResponseFormatType = "json"
)

// ResponseFormat describes the expected response shape
type ResponseFormat struct {
	Type   ResponseFormatType `json:"type"`
	Schema *Schema            `json:"schema,omitempty"`
}

// Schema is the subset of JSON Schema understood by the providers' structured output modes
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// CompletionResponse represents the response from a completion request
type CompletionResponse struct {
	// Content is the generated text
	Content string `json:"content"`

	// FinishReason indicates why the completion finished
	FinishReason string `json:"finish_reason"`

	// Usage contains token usage information
	Usage *TokenUsage `json:"usage"`

	// Model indicates which model was used
	Model string `json:"model"`

	// RequestID matches the original request
	RequestID string `json:"request_id,omitempty"`

	// CreatedAt timestamp
	CreatedAt time.Time `json:"created_at"`
}

// TokenUsage tracks token consumption
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig contains configuration for a provider
type ProviderConfig struct {
	// Name is the provider identifier
	Name string `json:"name"`

	// Type is the provider type (gemini, openai, ollama)
	Type string `json:"type"`

	// APIKey for authentication. Empty keys fail on first call, not at construction.
	APIKey string `json:"api_key,omitempty"`

	// BaseURL for the API endpoint
	BaseURL string `json:"base_url,omitempty"`

	// DefaultModel is the default model to use
	DefaultModel string `json:"default_model,omitempty"`

	// MaxTokens is the maximum response size
	MaxTokens int `json:"max_tokens,omitempty"`

	// DefaultTemperature for requests
	DefaultTemperature float64 `json:"default_temperature,omitempty"`

	// Timeout for requests
	Timeout time.Duration `json:"timeout,omitempty"`

	// MaxRetries is the number of additional attempts after a retryable failure
	MaxRetries int `json:"max_retries"`

	// Custom headers for requests
	Headers map[string]string `json:"headers,omitempty"`

	// Provider-specific options
	Options map[string]interface{} `json:"options,omitempty"`
}
