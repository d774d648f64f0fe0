package ollama

import (
	"github.com/yildizm/SalesDash/internal/ai"
)

// Factory creates Ollama providers
type Factory struct{}

// NewFactory creates a new Ollama provider factory
func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a new Ollama provider instance
func (f *Factory) Create(config *ai.ProviderConfig) (ai.Provider, error) {
	return New(FromProviderConfig(config))
}

// Type returns the provider type
func (f *Factory) Type() string {
	return "ollama"
}

// ValidateConfig validates the provider configuration
func (f *Factory) ValidateConfig(config *ai.ProviderConfig) error {
	if config == nil {
		return ai.NewConfigurationError("ollama", "config", "configuration is required")
	}
	return FromProviderConfig(config).Validate()
}

// DefaultConfig returns the default configuration
func (f *Factory) DefaultConfig() *ai.ProviderConfig {
	return DefaultConfig().ToProviderConfig()
}

// Register registers the Ollama provider with the global registry
func Register() error {
	return ai.RegisterProvider("ollama", NewFactory())
}
