// Package config handles configuration loading and saving.
package config

import (
	"strings"
	"time"
)

const (
	configFileName = "config.yaml"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Console   ConsoleConfig   `json:"console" yaml:"console"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Providers ProvidersConfig `json:"providers" yaml:"providers"`
	Logging   LoggingConfig   `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ConsoleConfig configures the interactive console.
type ConsoleConfig struct {
	Endpoint      string        `json:"endpoint" yaml:"endpoint"`                               // responder URL
	BootstrapPath string        `json:"bootstrapPath,omitempty" yaml:"bootstrapPath,omitempty"` // GET before the first send, seeds the cookie jar
	CookieName    string        `json:"cookieName,omitempty" yaml:"cookieName,omitempty"`       // defaults to csrftoken
	HeaderName    string        `json:"headerName,omitempty" yaml:"headerName,omitempty"`       // defaults to X-CSRFToken
	Cookies       string        `json:"cookies,omitempty" yaml:"cookies,omitempty"`             // static "k=v; k2=v2" cookie string
	StatusTTL     time.Duration `json:"statusTTL,omitempty" yaml:"statusTTL,omitempty"`         // defaults to 3s
	ResizeQuiet   time.Duration `json:"resizeQuiet,omitempty" yaml:"resizeQuiet,omitempty"`     // defaults to 100ms
	Locale        string        `json:"locale,omitempty" yaml:"locale,omitempty"`               // en or zh
	Markdown      bool          `json:"markdown,omitempty" yaml:"markdown,omitempty"`           // render assistant entries as markdown
	ShowLogs      bool          `json:"showLogs,omitempty" yaml:"showLogs,omitempty"`           // show the log panel in the TUI
}

// ServerConfig configures the responder service.
type ServerConfig struct {
	Addr           string          `json:"addr" yaml:"addr"`
	Provider       string          `json:"provider" yaml:"provider"` // deepseek, openai, anthropic, echo
	Model          string          `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature    float64         `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens      int             `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
	RateLimit      RateLimitConfig `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`
	RequireCSRF    bool            `json:"requireCSRF,omitempty" yaml:"requireCSRF,omitempty"`
	MaxInputTokens int             `json:"maxInputTokens,omitempty" yaml:"maxInputTokens,omitempty"` // 0 disables the guard
	Timeout        time.Duration   `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// RateLimitConfig bounds requests per client address.
type RateLimitConfig struct {
	Requests int           `json:"requests,omitempty" yaml:"requests,omitempty"` // negative disables
	Window   time.Duration `json:"window,omitempty" yaml:"window,omitempty"`
}

// ProvidersConfig contains provider API configurations.
type ProvidersConfig struct {
	DeepSeek  *ProviderConfig `json:"deepseek,omitempty" yaml:"deepseek,omitempty"`
	OpenAI    *ProviderConfig `json:"openai,omitempty" yaml:"openai,omitempty"`
	Anthropic *ProviderConfig `json:"anthropic,omitempty" yaml:"anthropic,omitempty"`
}

// ProviderConfig contains API credentials for a provider.
type ProviderConfig struct {
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	APIBase string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"` // optional custom base URL
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Format  string `json:"format,omitempty" yaml:"format,omitempty"` // text or json
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
}

// ProviderFor returns the credentials block for a provider name, or nil.
func (c *Config) ProviderFor(name string) *ProviderConfig {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deepseek":
		return c.Providers.DeepSeek
	case "openai":
		return c.Providers.OpenAI
	case "anthropic":
		return c.Providers.Anthropic
	}
	return nil
}

// SetProviderAPIKey stores an API key for the named provider.
func (c *Config) SetProviderAPIKey(name, apiKey string) {
	pc := &ProviderConfig{APIKey: strings.TrimSpace(apiKey)}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deepseek":
		c.Providers.DeepSeek = pc
	case "openai":
		c.Providers.OpenAI = pc
	case "anthropic":
		c.Providers.Anthropic = pc
	}
}
