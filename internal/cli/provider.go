package cli

import (
	"fmt"
	"sync"

	"github.com/yildizm/SalesDash/internal/ai"
	"github.com/yildizm/SalesDash/internal/ai/providers/gemini"
	"github.com/yildizm/SalesDash/internal/ai/providers/ollama"
	"github.com/yildizm/SalesDash/internal/ai/providers/openai"
	"github.com/yildizm/SalesDash/internal/analyst"
	"github.com/yildizm/SalesDash/internal/config"
)

var registerOnce sync.Once

// registerProviders adds the bundled LLM back-ends to the global registry
func registerProviders() {
	registerOnce.Do(func() {
		for _, register := range []func() error{gemini.Register, openai.Register, ollama.Register} {
			if err := register(); err != nil {
				GetLogger("provider").Warn("failed to register provider: %v", err)
			}
		}
	})
}

// newProvider builds the analysis provider. Tests replace it with a stub.
var newProvider = func(cfg *config.Config) (analyst.Provider, func(), error) {
	llm, err := createLLMProvider(&cfg.AI)
	if err != nil {
		return nil, nil, err
	}

	opts := analyst.DefaultOptions()
	opts.Model = cfg.AI.Model
	opts.MaxTokens = cfg.AI.MaxTokens

	cleanup := func() {
		if err := llm.Close(); err != nil && isVerbose() {
			GetLogger("provider").Warn("failed to close provider: %v", err)
		}
	}
	return analyst.New(llm, opts, GetLogger("analyst")), cleanup, nil
}

// createLLMProvider creates an LLM provider based on configuration. A missing
// credential is not an error here; it fails the first call.
func createLLMProvider(aiConfig *config.AIConfig) (ai.Provider, error) {
	registerProviders()

	registry := ai.GlobalRegistry()
	pc, err := registry.DefaultConfig(aiConfig.Provider)
	if err != nil {
		return nil, fmt.Errorf("unsupported AI provider %q: %w", aiConfig.Provider, err)
	}

	pc.APIKey = aiConfig.APIKey
	pc.MaxRetries = aiConfig.MaxRetries
	if aiConfig.Endpoint != "" {
		pc.BaseURL = aiConfig.Endpoint
	}
	if aiConfig.Model != "" {
		pc.DefaultModel = aiConfig.Model
	}
	if aiConfig.Timeout > 0 {
		pc.Timeout = aiConfig.Timeout
	}
	if aiConfig.MaxTokens > 0 {
		pc.MaxTokens = aiConfig.MaxTokens
	}

	provider, err := registry.Create(aiConfig.Provider, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}
	return provider, nil
}
