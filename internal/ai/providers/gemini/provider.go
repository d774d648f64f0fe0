package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/yildizm/SalesDash/internal/ai"
)

// Provider implements ai.Provider against the Generative Language REST API
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
	healthy bool
	mu      sync.RWMutex
}

// New creates a Gemini provider. A missing API key is reported on first use.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = FromProviderConfig(nil)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, ai.NewConfigurationError("gemini", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
		healthy: true,
	}, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "completion request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if p.config.APIKey == "" {
		return nil, ai.NewProviderError(ai.ErrTypeAuthentication, "API key is not configured", "gemini")
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", "gemini", err)
	}

	endpoint := p.modelURL(model, ":generateContent")
	resp, err := ai.DoWithRetry(ctx, p.client, "gemini", p.config.MaxRetries, func(ctx context.Context) (*http.Request, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		p.setHeaders(httpReq)
		return httpReq, nil
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var genResp GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeDecode, "failed to decode response", "gemini", err)
	}

	if genResp.PromptFeedback != nil && genResp.PromptFeedback.BlockReason != "" {
		return nil, ai.NewProviderError(ai.ErrTypeValidation, "prompt blocked: "+genResp.PromptFeedback.BlockReason, "gemini")
	}

	out := &ai.CompletionResponse{
		Content:   genResp.Text(),
		Model:     model,
		RequestID: req.RequestID,
		CreatedAt: time.Now(),
	}
	if genResp.ModelVersion != "" {
		out.Model = genResp.ModelVersion
	}
	if len(genResp.Candidates) > 0 {
		out.FinishReason = genResp.Candidates[0].FinishReason
	}
	if u := genResp.UsageMetadata; u != nil {
		out.Usage = &ai.TokenUsage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return out, nil
}

func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// HealthCheck fetches the configured model's metadata
func (p *Provider) HealthCheck(ctx context.Context) error {
	if p.config.APIKey == "" {
		p.setHealthy(false)
		return ai.NewProviderError(ai.ErrTypeAuthentication, "API key is not configured", "gemini")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.modelURL(p.config.DefaultModel, ""), http.NoBody)
	if err != nil {
		p.setHealthy(false)
		return ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to create health check request", "gemini", err)
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		p.setHealthy(false)
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "health check request failed", "gemini", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.setHealthy(false)
		return p.handleErrorResponse(resp)
	}

	p.setHealthy(true)
	return nil
}

func (p *Provider) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.healthy
}

func (p *Provider) buildRequest(req *ai.CompletionRequest) *GenerateContentRequest {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	genCfg := &GenerationConfig{MaxOutputTokens: maxTokens}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.DefaultTemperature
	}
	if temperature > 0 {
		genCfg.Temperature = &temperature
	}

	if req.WantsJSON() {
		genCfg.ResponseMimeType = "application/json"
		genCfg.ResponseSchema = toSchema(req.ResponseFormat.Schema)
	}

	out := &GenerateContentRequest{
		Contents:         []Content{{Role: "user", Parts: []Part{{Text: req.Prompt}}}},
		GenerationConfig: genCfg,
	}
	if req.SystemPrompt != "" {
		out.SystemInstruction = &Content{Parts: []Part{{Text: req.SystemPrompt}}}
	}
	return out
}

// modelURL builds {base}/{version}/models/{model}{suffix}
func (p *Provider) modelURL(model, suffix string) string {
	return p.baseURL.JoinPath(p.config.APIVersion, "models", model+suffix).String()
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("x-goog-api-key", p.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

func (p *Provider) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		pe := ai.NewStatusError(resp.StatusCode, errResp.Error.Message, "gemini")
		// API_KEY_INVALID comes back as 400
		if errResp.Error.Status == "UNAUTHENTICATED" || bytes.Contains(body, []byte("API_KEY_INVALID")) {
			pe.Type = ai.ErrTypeAuthentication
		}
		return pe
	}

	return ai.NewStatusError(resp.StatusCode, "", "gemini")
}

func (p *Provider) setHealthy(healthy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.healthy = healthy
}
