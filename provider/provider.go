// Package provider defines the LLM backends that answer console messages.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Provider answers one user message.
type Provider interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Settings carries the runtime options handed to a constructor.
type Settings struct {
	APIKey      string
	APIBase     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// ProviderConstructor builds a provider from settings.
type ProviderConstructor func(s Settings) Provider

// ProviderRegistration defines metadata and constructor for a provider.
type ProviderRegistration struct {
	DefaultModel string
	EnvKey       string
	EnvBase      string
	NeedsKey     bool
	Constructor  ProviderConstructor
}

var providerRegistry = map[string]ProviderRegistration{}

// RegisterProvider registers provider metadata and constructor.
func RegisterProvider(name string, reg ProviderRegistration) {
	name = strings.TrimSpace(name)
	if name == "" || reg.Constructor == nil {
		return
	}
	reg.EnvKey = strings.TrimSpace(reg.EnvKey)
	reg.EnvBase = strings.TrimSpace(reg.EnvBase)
	providerRegistry[name] = reg
}

// SupportedProviders returns all registered provider names in sorted order.
func SupportedProviders() []string {
	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registration returns the registration for name.
func Registration(name string) (ProviderRegistration, bool) {
	reg, ok := providerRegistry[name]
	return reg, ok
}

// ErrMissingAPIKey is returned when a provider that needs a key has none.
var ErrMissingAPIKey = errors.New("api key not configured")

// New builds the named provider. Empty key, base or model fall back to the
// registration's environment variables and default model.
func New(name string, s Settings) (Provider, error) {
	name = strings.TrimSpace(name)
	reg, ok := providerRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	if s.APIKey == "" && reg.EnvKey != "" {
		s.APIKey = strings.TrimSpace(os.Getenv(reg.EnvKey))
	}
	if s.APIBase == "" && reg.EnvBase != "" {
		s.APIBase = strings.TrimSpace(os.Getenv(reg.EnvBase))
	}
	if s.Model == "" {
		s.Model = reg.DefaultModel
	}
	if reg.NeedsKey && s.APIKey == "" {
		if reg.EnvKey != "" {
			return nil, fmt.Errorf("%s: %w (set %s)", name, ErrMissingAPIKey, reg.EnvKey)
		}
		return nil, fmt.Errorf("%s: %w", name, ErrMissingAPIKey)
	}
	return reg.Constructor(s), nil
}
