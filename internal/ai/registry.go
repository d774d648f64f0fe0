package ai

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultProviderName is used when no provider is configured.
const DefaultProviderName = "gemini"

// ProviderFactory creates provider instances
type ProviderFactory interface {
	// Create creates a new provider instance with the given config
	Create(config *ProviderConfig) (Provider, error)

	// Type returns the provider type this factory creates
	Type() string

	// ValidateConfig validates configuration for this provider type
	ValidateConfig(config *ProviderConfig) error

	// DefaultConfig returns a default configuration
	DefaultConfig() *ProviderConfig
}

// Registry maps provider names to factories. Names are case-insensitive and
// the empty name resolves to DefaultProviderName.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultProviderName
	}
	return name
}

// Register adds a factory under name. Registering a name twice fails.
func (r *Registry) Register(name string, factory ProviderFactory) error {
	name = normalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return NewProviderError(ErrTypeRegistration, "provider already registered", name)
	}
	r.factories[name] = factory
	return nil
}

func (r *Registry) lookup(name string) (ProviderFactory, error) {
	name = normalizeName(name)

	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		msg := fmt.Sprintf("provider not registered (available: %s)", strings.Join(r.List(), ", "))
		return nil, NewProviderError(ErrTypeNotFound, msg, name)
	}
	return factory, nil
}

// Create validates config and builds a provider. A nil config uses the
// factory default.
func (r *Registry) Create(name string, config *ProviderConfig) (Provider, error) {
	factory, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	if config == nil {
		config = factory.DefaultConfig()
	}
	if err := factory.ValidateConfig(config); err != nil {
		return nil, err
	}
	return factory.Create(config)
}

// DefaultConfig returns a fresh copy of the factory default configuration,
// ready to be overridden by user settings.
func (r *Registry) DefaultConfig(name string) (*ProviderConfig, error) {
	factory, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return factory.DefaultConfig(), nil
}

// List returns all registered provider names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a provider is registered
func (r *Registry) IsRegistered(name string) bool {
	_, err := r.lookup(name)
	return err == nil
}

var globalRegistry = NewRegistry()

// GlobalRegistry returns the registry the bundled providers register into
func GlobalRegistry() *Registry {
	return globalRegistry
}

// RegisterProvider registers a provider in the global registry
func RegisterProvider(name string, factory ProviderFactory) error {
	return globalRegistry.Register(name, factory)
}
