package config

import "time"

const (
	defaultEndpoint       = "http://127.0.0.1:8000/get_response/"
	defaultBootstrapPath  = "/chat/"
	defaultCookieName     = "csrftoken"
	defaultHeaderName     = "X-CSRFToken"
	defaultStatusTTL      = 3 * time.Second
	defaultResizeQuiet    = 100 * time.Millisecond
	defaultLocale         = "en"
	defaultServerAddr     = "127.0.0.1:8000"
	defaultProvider       = "deepseek"
	defaultTemperature    = 0.7
	defaultMaxTokens      = 1000
	defaultRateRequests   = 10
	defaultRateWindow     = 60 * time.Second
	defaultMaxInputTokens = 4000
	defaultTimeout        = 30 * time.Second
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Console: ConsoleConfig{
			Endpoint:      defaultEndpoint,
			BootstrapPath: defaultBootstrapPath,
			CookieName:    defaultCookieName,
			HeaderName:    defaultHeaderName,
			StatusTTL:     defaultStatusTTL,
			ResizeQuiet:   defaultResizeQuiet,
			Locale:        defaultLocale,
		},
		Server: ServerConfig{
			Addr:           defaultServerAddr,
			Provider:       defaultProvider,
			Temperature:    defaultTemperature,
			MaxTokens:      defaultMaxTokens,
			RateLimit:      RateLimitConfig{Requests: defaultRateRequests, Window: defaultRateWindow},
			MaxInputTokens: defaultMaxInputTokens,
			Timeout:        defaultTimeout,
		},
		Providers: ProvidersConfig{
			DeepSeek: &ProviderConfig{
				APIKey: "",
			},
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Format:  "text",
		Stdout:  false,
		File:    "logs/nagochat.log",
	}
}

func (c *Config) applyDefaults() {
	if c.Console.Endpoint == "" {
		c.Console.Endpoint = defaultEndpoint
	}
	if c.Console.BootstrapPath == "" {
		c.Console.BootstrapPath = defaultBootstrapPath
	}
	if c.Console.CookieName == "" {
		c.Console.CookieName = defaultCookieName
	}
	if c.Console.HeaderName == "" {
		c.Console.HeaderName = defaultHeaderName
	}
	if c.Console.StatusTTL <= 0 {
		c.Console.StatusTTL = defaultStatusTTL
	}
	if c.Console.ResizeQuiet <= 0 {
		c.Console.ResizeQuiet = defaultResizeQuiet
	}
	if c.Console.Locale == "" {
		c.Console.Locale = defaultLocale
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	if c.Server.Provider == "" {
		c.Server.Provider = defaultProvider
	}
	if c.Server.Temperature == 0 {
		c.Server.Temperature = defaultTemperature
	}
	if c.Server.MaxTokens <= 0 {
		c.Server.MaxTokens = defaultMaxTokens
	}
	if c.Server.RateLimit.Requests == 0 {
		c.Server.RateLimit.Requests = defaultRateRequests
	}
	if c.Server.RateLimit.Window <= 0 {
		c.Server.RateLimit.Window = defaultRateWindow
	}
	if c.Server.MaxInputTokens < 0 {
		c.Server.MaxInputTokens = 0
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = defaultTimeout
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}

	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Stdout
	if c.Logging.Enabled == nil && hasAny {
		enabled := true
		c.Logging.Enabled = &enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Format
	}
	if c.Logging.File == "" && !c.Logging.Stdout {
		c.Logging.File = def.File
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
