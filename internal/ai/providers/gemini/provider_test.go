package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yildizm/SalesDash/internal/ai"
)

func testConfig(baseURL string) *Config {
	c := DefaultConfig()
	c.APIKey = "test-key"
	c.BaseURL = baseURL
	return c
}

func TestProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1beta/models/gemini-2.5-flash:generateContent" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if key := r.Header.Get("x-goog-api-key"); key != "test-key" {
			t.Errorf("Unexpected API key header %q", key)
		}

		var req GenerateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "be precise" {
			t.Errorf("Expected system instruction, got %+v", req.SystemInstruction)
		}
		cfg := req.GenerationConfig
		if cfg == nil || cfg.ResponseMimeType != "application/json" {
			t.Fatalf("Expected JSON mime type, got %+v", cfg)
		}
		if cfg.ResponseSchema == nil || cfg.ResponseSchema.Type != "OBJECT" {
			t.Errorf("Expected OBJECT schema, got %+v", cfg.ResponseSchema)
		}
		if cfg.ResponseSchema.Properties["items"].Type != "ARRAY" {
			t.Errorf("Expected nested ARRAY schema, got %+v", cfg.ResponseSchema.Properties["items"])
		}

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"summary\":"}, {"text": "\"ok\"}"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 3, "totalTokenCount": 10},
			"modelVersion": "gemini-2.5-flash-001"
		}`))
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := provider.Complete(context.Background(), &ai.CompletionRequest{
		Prompt:       "Analyze",
		SystemPrompt: "be precise",
		ResponseFormat: &ai.ResponseFormat{
			Type: ai.ResponseFormatJSON,
			Schema: &ai.Schema{
				Type: "object",
				Properties: map[string]*ai.Schema{
					"items": {Type: "array", Items: &ai.Schema{Type: "string"}},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if resp.Content != `{"summary":"ok"}` {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.FinishReason != "STOP" || resp.Model != "gemini-2.5-flash-001" {
		t.Errorf("Unexpected metadata %+v", resp)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 10 {
		t.Errorf("Unexpected usage %+v", resp.Usage)
	}
}

func TestProvider_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	resp, err := provider.Complete(context.Background(), &ai.CompletionRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "" {
		t.Errorf("Expected empty content, got %q", resp.Content)
	}
}

func TestProvider_MissingAPIKey(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	for _, name := range APIKeyEnvs {
		t.Setenv(name, "")
	}

	config := FromProviderConfig(&ai.ProviderConfig{BaseURL: server.URL})
	provider, err := New(config)
	if err != nil {
		t.Fatalf("construction must not fail without a key: %v", err)
	}

	_, err = provider.Complete(context.Background(), &ai.CompletionRequest{Prompt: "hi"})
	if !ai.IsAuthError(err) {
		t.Errorf("Expected authentication error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no request, got %d", calls)
	}
}

func TestProvider_ErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ai.ErrorType
	}{
		{
			name:     "invalid key",
			status:   http.StatusBadRequest,
			body:     `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT","details":[{"reason":"API_KEY_INVALID"}]}}`,
			wantType: ai.ErrTypeAuthentication,
		},
		{
			name:     "quota",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`,
			wantType: ai.ErrTypeRateLimit,
		},
		{
			name:     "unavailable",
			status:   http.StatusServiceUnavailable,
			body:     `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`,
			wantType: ai.ErrTypeProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider, err := New(testConfig(server.URL))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			_, err = provider.Complete(context.Background(), &ai.CompletionRequest{Prompt: "hi"})
			pe, ok := err.(*ai.ProviderError)
			if !ok {
				t.Fatalf("Expected ProviderError, got %T: %v", err, err)
			}
			if pe.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", pe.Type, tt.wantType)
			}
		})
	}
}

func TestFromProviderConfig_EnvKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")

	c := FromProviderConfig(nil)
	if c.APIKey != "fallback-key" {
		t.Errorf("APIKey = %q, want API_KEY fallback", c.APIKey)
	}

	t.Setenv("GEMINI_API_KEY", "primary-key")
	c = FromProviderConfig(&ai.ProviderConfig{DefaultModel: "gemini-2.5-pro"})
	if c.APIKey != "primary-key" || c.DefaultModel != "gemini-2.5-pro" {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestProvider_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1beta/models/gemini-2.5-flash" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"name":"models/gemini-2.5-flash"}`))
	}))
	defer server.Close()

	provider, err := New(testConfig(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if !provider.IsHealthy() {
		t.Error("Expected healthy provider")
	}
}
