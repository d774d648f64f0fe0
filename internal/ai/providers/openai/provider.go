package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/yildizm/SalesDash/internal/ai"
)

const (
	providerName = "openai"

	chatPath   = "/v1/chat/completions"
	modelsPath = "/v1/models"

	// schemaName labels the structured output schema in the request
	schemaName = "salesdash_response"
)

// Provider talks to the OpenAI chat completions API or any compatible server.
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
	healthy atomic.Bool
}

// New builds a client. A missing API key is accepted; Complete reports it.
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = FromProviderConfig(nil)
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

func (p *Provider) Name() string {
	return providerName
}

// Complete sends one chat completion. JSON requests use json_schema output
// when a schema is attached and json_object otherwise.
func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if req == nil {
		return nil, ai.NewValidationError("request", "nil", "completion request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := p.requireKey(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(p.chatRequest(req))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", providerName, err)
	}

	resp, err := ai.DoWithRetry(ctx, p.client, providerName, p.config.MaxRetries, func(ctx context.Context) (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, chatPath, bytes.NewReader(body))
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeDecode, "failed to decode response", providerName, err)
	}
	return chatResp.toCompletion(req.RequestID), nil
}

func (p *Provider) ValidateConfig() error {
	return p.config.Validate()
}

func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// HealthCheck lists models, which checks both reachability and the key.
func (p *Provider) HealthCheck(ctx context.Context) error {
	err := p.checkModels(ctx)
	p.healthy.Store(err == nil)
	return err
}

func (p *Provider) IsHealthy() bool {
	return p.healthy.Load()
}

func (p *Provider) checkModels(ctx context.Context) error {
	if err := p.requireKey(); err != nil {
		return err
	}

	req, err := p.newRequest(ctx, http.MethodGet, modelsPath, http.NoBody)
	if err != nil {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create health check request", providerName, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "health check request failed", providerName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (p *Provider) requireKey() error {
	if p.config.APIKey == "" {
		return ai.NewProviderError(ai.ErrTypeAuthentication, "API key is not configured (set ai.api_key or "+APIKeyEnv+")", providerName)
	}
	return nil
}

// chatRequest fills request fields left at zero from the provider defaults
func (p *Provider) chatRequest(req *ai.CompletionRequest) *ChatCompletionRequest {
	chatReq := &ChatCompletionRequest{
		Model:       firstNonEmpty(req.Model, p.config.DefaultModel),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		User:        req.RequestID,
	}
	if chatReq.MaxTokens == 0 {
		chatReq.MaxTokens = p.config.MaxTokens
	}
	if chatReq.Temperature == 0 {
		chatReq.Temperature = p.config.DefaultTemperature
	}

	if req.SystemPrompt != "" {
		chatReq.Messages = append(chatReq.Messages, ChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	chatReq.Messages = append(chatReq.Messages, ChatMessage{Role: "user", Content: req.Prompt})

	if req.WantsJSON() {
		chatReq.ResponseFormat = &ResponseFormat{Type: "json_object"}
		if schema := req.ResponseFormat.Schema; schema != nil {
			chatReq.ResponseFormat = &ResponseFormat{
				Type:       "json_schema",
				JSONSchema: &JSONSchema{Name: schemaName, Schema: schema},
			}
		}
	}
	return chatReq
}

func (p *Provider) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if p.config.OrganizationID != "" {
		req.Header.Set("OpenAI-Organization", p.config.OrganizationID)
	}
	return req, nil
}

// statusError maps a non-200 response, using the API's error message when present
func statusError(resp *http.Response) error {
	var errResp ErrorResponse
	if body, err := io.ReadAll(resp.Body); err == nil {
		_ = json.Unmarshal(body, &errResp)
	}
	return ai.NewStatusError(resp.StatusCode, errResp.Error.Message, providerName)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
