package ai

import (
	"context"
)

// LLMProvider defines the interface for LLM providers
type LLMProvider interface {
	// Name returns the provider name (e.g., "gemini", "openai", "ollama")
	Name() string

	// Complete performs a single text completion
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// ValidateConfig validates the provider configuration
	ValidateConfig() error

	// Close cleans up provider resources
	Close() error
}

// HealthChecker provides health checking capabilities
type HealthChecker interface {
	// HealthCheck verifies provider connectivity and credentials
	HealthCheck(ctx context.Context) error

	// IsHealthy returns the result of the last health check
	IsHealthy() bool
}

// Provider combines all provider capabilities
type Provider interface {
	LLMProvider
	HealthChecker
}
