package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/yildizm/SalesDash/internal/ai"
)

const providerName = "ollama"

// Provider implements ai.Provider against a local Ollama server
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
	healthy atomic.Bool
}

// New creates a new Ollama provider. No request is made until Complete.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, ai.NewConfigurationError(providerName, "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	p := &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}
	p.healthy.Store(true)
	return p, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// Complete performs a non-streaming generation
func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "completion request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	genReq, err := p.generateRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := p.generate(ctx, genReq)
	if err != nil {
		return nil, err
	}

	return &ai.CompletionResponse{
		Content:      resp.Response,
		FinishReason: resp.DoneReason,
		Model:        resp.Model,
		RequestID:    req.RequestID,
		CreatedAt:    resp.CreatedAt,
		Usage: &ai.TokenUsage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}

// generateRequest applies the configured defaults. A JSON request sends its
// schema as the format so the model is constrained to it; without a schema
// the plain "json" mode is used.
func (p *Provider) generateRequest(req *ai.CompletionRequest) (*GenerateRequest, error) {
	genReq := &GenerateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		System: req.SystemPrompt,
		Options: &Options{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	if genReq.Model == "" {
		genReq.Model = p.config.DefaultModel
	}
	if genReq.Options.Temperature == 0 {
		genReq.Options.Temperature = p.config.DefaultTemperature
	}
	if genReq.Options.NumPredict == 0 {
		genReq.Options.NumPredict = p.config.MaxTokens
	}

	if req.WantsJSON() {
		genReq.Format = json.RawMessage(`"json"`)
		if schema := req.ResponseFormat.Schema; schema != nil {
			raw, err := json.Marshal(schema)
			if err != nil {
				return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to encode response schema", providerName, err)
			}
			genReq.Format = raw
		}
	}
	return genReq, nil
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

// Close cleans up provider resources
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// HealthCheck verifies the server is reachable and the default model is pulled
func (p *Provider) HealthCheck(ctx context.Context) error {
	err := p.checkDefaultModel(ctx)
	p.healthy.Store(err == nil)
	return err
}

// IsHealthy returns the result of the last health check
func (p *Provider) IsHealthy() bool {
	return p.healthy.Load()
}

func (p *Provider) checkDefaultModel(ctx context.Context) error {
	models, err := p.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if sameModel(m.Name, p.config.DefaultModel) {
			return nil
		}
	}
	msg := fmt.Sprintf("model %q is not available locally (run: ollama pull %s)", p.config.DefaultModel, p.config.DefaultModel)
	return ai.NewProviderError(ai.ErrTypeNotFound, msg, providerName)
}

// sameModel compares model names, treating a missing tag as ":latest"
func sameModel(a, b string) bool {
	withTag := func(s string) string {
		if !strings.Contains(s, ":") {
			return s + ":latest"
		}
		return s
	}
	return withTag(a) == withTag(b)
}

func (p *Provider) generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", providerName, err)
	}

	endpoint := p.baseURL.JoinPath("/api/generate").String()
	resp, err := ai.DoWithRetry(ctx, p.client, providerName, p.config.MaxRetries, func(ctx context.Context) (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		return httpReq, nil
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeDecode, "failed to decode response", providerName, err)
	}
	return &genResp, nil
}

// ListModels lists locally available models
func (p *Provider) ListModels(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL.JoinPath("/api/tags").String(), http.NoBody)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to create request", providerName, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to list models", providerName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var tags TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeDecode, "failed to decode models response", providerName, err)
	}
	return tags.Models, nil
}

func statusError(resp *http.Response) error {
	var errResp ErrorResponse
	if body, err := io.ReadAll(resp.Body); err == nil {
		_ = json.Unmarshal(body, &errResp)
	}
	return ai.NewStatusError(resp.StatusCode, errResp.Error, providerName)
}
