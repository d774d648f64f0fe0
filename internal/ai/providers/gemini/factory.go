package gemini

import (
	"github.com/yildizm/SalesDash/internal/ai"
)

// Factory creates Gemini providers
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(config *ai.ProviderConfig) (ai.Provider, error) {
	return New(FromProviderConfig(config))
}

func (f *Factory) Type() string {
	return "gemini"
}

func (f *Factory) ValidateConfig(config *ai.ProviderConfig) error {
	if config == nil {
		return ai.NewConfigurationError("gemini", "config", "configuration is required")
	}
	return FromProviderConfig(config).Validate()
}

func (f *Factory) DefaultConfig() *ai.ProviderConfig {
	return DefaultConfig().ToProviderConfig()
}

// Register registers the Gemini provider with the global registry
func Register() error {
	return ai.RegisterProvider("gemini", NewFactory())
}
