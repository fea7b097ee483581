package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	for _, key := range []string{EnvEndpoint, EnvCookies, EnvServerAddr} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Console.Endpoint != defaultEndpoint {
		t.Fatalf("Console.Endpoint = %q, want %q", cfg.Console.Endpoint, defaultEndpoint)
	}
	if cfg.Console.StatusTTL != 3*time.Second || cfg.Console.ResizeQuiet != 100*time.Millisecond {
		t.Fatalf("timings = %v/%v, want 3s/100ms", cfg.Console.StatusTTL, cfg.Console.ResizeQuiet)
	}
	if cfg.Server.RateLimit.Requests != 10 || cfg.Server.RateLimit.Window != time.Minute {
		t.Fatalf("rate limit = %+v, want 10 per minute", cfg.Server.RateLimit)
	}
}

func TestLoadParsesDurationsAndFillsGaps(t *testing.T) {
	dir := useTempConfigDir(t)
	raw := `console:
  endpoint: http://example.test/get_response/
  statusTTL: 5s
  resizeQuiet: 250ms
server:
  provider: echo
  rateLimit:
    requests: -1
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Console.Endpoint != "http://example.test/get_response/" {
		t.Fatalf("Console.Endpoint = %q", cfg.Console.Endpoint)
	}
	if cfg.Console.StatusTTL != 5*time.Second || cfg.Console.ResizeQuiet != 250*time.Millisecond {
		t.Fatalf("timings = %v/%v, want 5s/250ms", cfg.Console.StatusTTL, cfg.Console.ResizeQuiet)
	}
	if cfg.Console.CookieName != defaultCookieName || cfg.Console.BootstrapPath != defaultBootstrapPath {
		t.Fatalf("console defaults not applied: %+v", cfg.Console)
	}
	if cfg.Server.Provider != "echo" || cfg.Server.RateLimit.Requests != -1 {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Server.Temperature != defaultTemperature || cfg.Server.MaxTokens != defaultMaxTokens {
		t.Fatalf("server model defaults not applied: %+v", cfg.Server)
	}

	lc := cfg.BuildLoggerConfig()
	if !lc.Enabled || lc.Level != "debug" || lc.Format != "text" || lc.File == "" {
		t.Fatalf("BuildLoggerConfig() = %+v", lc)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := useTempConfigDir(t)
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("console: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded on malformed yaml")
	}
}

func TestEnvOverlay(t *testing.T) {
	useTempConfigDir(t)
	t.Setenv(EnvEndpoint, "http://override.test/get_response/")
	t.Setenv(EnvCookies, "csrftoken=abc")
	t.Setenv(EnvServerAddr, "0.0.0.0:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Console.Endpoint != "http://override.test/get_response/" ||
		cfg.Console.Cookies != "csrftoken=abc" ||
		cfg.Server.Addr != "0.0.0.0:9000" {
		t.Fatalf("env overlay not applied: console=%+v server.addr=%q", cfg.Console, cfg.Server.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	cfg := DefaultConfig()
	cfg.Server.Provider = "anthropic"
	cfg.SetProviderAPIKey("anthropic", " sk-ant ")
	cfg.Console.Locale = "zh"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path, _ := ConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Server.Provider != "anthropic" || got.Console.Locale != "zh" {
		t.Fatalf("reloaded config = %+v / %+v", got.Server, got.Console)
	}
	if pc := got.ProviderFor("Anthropic"); pc == nil || pc.APIKey != "sk-ant" {
		t.Fatalf("ProviderFor(anthropic) = %+v", pc)
	}
	if got.Console.StatusTTL != defaultStatusTTL {
		t.Fatalf("StatusTTL = %v after round trip", got.Console.StatusTTL)
	}
}

func TestLoggingDisabledStaysDisabled(t *testing.T) {
	off := false
	cfg := &Config{Logging: LoggingConfig{Enabled: &off}}
	cfg.applyDefaults()
	if cfg.BuildLoggerConfig().Enabled {
		t.Fatal("explicitly disabled logging was re-enabled")
	}
}
