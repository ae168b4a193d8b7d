package provider

import (
	"fmt"
	"sort"
	"strings"

	"postcraft.app/postcraft/internal/config"
)

const DefaultProviderName = "openai"

// Registry stores completion providers and resolves a default provider.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

func NewRegistry(defaultProvider string) *Registry {
	normalizedDefault := normalizeProviderName(defaultProvider)
	if normalizedDefault == "" {
		normalizedDefault = DefaultProviderName
	}

	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: normalizedDefault,
	}
}

// NewRegistryFromConfig creates a provider registry with every adapter the
// configuration carries credentials for.
func NewRegistryFromConfig(cfg *config.Config) *Registry {
	registry := NewRegistry(cfg.Provider)

	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		_ = registry.Register(NewOpenAIProvider(OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}))
	}
	if strings.TrimSpace(cfg.AnthropicAPIKey) != "" {
		_ = registry.Register(NewAnthropicProvider(AnthropicOptions{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.AnthropicBaseURL,
			Model:   cfg.AnthropicModel,
		}))
	}

	if _, exists := registry.providers[registry.defaultProvider]; !exists {
		for _, name := range registry.ProviderNames() {
			registry.defaultProvider = name
			break
		}
	}

	return registry
}

// Register adds one provider.
func (r *Registry) Register(p Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if p == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(p.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	r.providers[name] = p
	return nil
}

// Provider resolves a provider by name. Empty names use the configured default provider.
func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(r.providers) == 0 {
		return nil, fmt.Errorf("no completion providers are registered")
	}

	resolvedName := normalizeProviderName(name)
	if resolvedName == "" {
		resolvedName = r.defaultProvider
	}
	if p, ok := r.providers[resolvedName]; ok {
		return p, nil
	}

	return nil, fmt.Errorf("completion provider %q is not registered (available: %s)", resolvedName, strings.Join(r.ProviderNames(), ", "))
}

func (r *Registry) DefaultProvider() string {
	if r == nil {
		return ""
	}
	return r.defaultProvider
}

func (r *Registry) ProviderNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
