package ai

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	return &CompletionResponse{Content: "ok"}, nil
}
func (s *stubProvider) ValidateConfig() error                 { return nil }
func (s *stubProvider) Close() error                          { return nil }
func (s *stubProvider) HealthCheck(ctx context.Context) error { return nil }
func (s *stubProvider) IsHealthy() bool                       { return true }

type stubFactory struct {
	typ     string
	created []*ProviderConfig
}

func (f *stubFactory) Create(config *ProviderConfig) (Provider, error) {
	f.created = append(f.created, config)
	return &stubProvider{name: f.typ}, nil
}
func (f *stubFactory) Type() string { return f.typ }
func (f *stubFactory) ValidateConfig(config *ProviderConfig) error {
	if config.DefaultModel == "" {
		return NewConfigurationError(f.typ, "default_model", "required")
	}
	return nil
}
func (f *stubFactory) DefaultConfig() *ProviderConfig {
	return &ProviderConfig{Name: f.typ, Type: f.typ, DefaultModel: "stub-1"}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	factory := &stubFactory{typ: "stub"}

	if err := r.Register("stub", factory); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("stub", factory); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := r.Register("other", &stubFactory{typ: "other"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if got := r.List(); !reflect.DeepEqual(got, []string{"other", "stub"}) {
		t.Errorf("List() = %v", got)
	}
	if !r.IsRegistered("stub") || r.IsRegistered("missing") {
		t.Error("IsRegistered() mismatch")
	}

	p, err := r.Create("stub", nil)
	if err != nil {
		t.Fatalf("Create() with default config error = %v", err)
	}
	if p.Name() != "stub" {
		t.Errorf("Name() = %s", p.Name())
	}
	if len(factory.created) != 1 || factory.created[0].DefaultModel != "stub-1" {
		t.Errorf("factory did not receive default config: %+v", factory.created)
	}

	if _, err := r.Create("stub", &ProviderConfig{}); !IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}

	_, err = r.Create("missing", nil)
	if pe, ok := err.(*ProviderError); !ok || pe.Type != ErrTypeNotFound {
		t.Errorf("expected not_found error, got %v", err)
	}

	cfg, err := r.DefaultConfig("other")
	if err != nil || cfg.DefaultModel != "stub-1" {
		t.Errorf("DefaultConfig() = %+v, %v", cfg, err)
	}
}

func TestRegistryNameResolution(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("Gemini", &stubFactory{typ: "gemini"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for _, name := range []string{"gemini", "GEMINI", " gemini ", ""} {
		if !r.IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false", name)
		}
	}

	_, err := r.DefaultConfig("anthropic")
	if err == nil || !strings.Contains(err.Error(), "available: gemini") {
		t.Errorf("expected error listing available providers, got %v", err)
	}
}
