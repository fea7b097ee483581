package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/nagochat/logger"
)

// Environment variables that overlay the config file.
const (
	EnvEndpoint   = "NAGOCHAT_ENDPOINT"
	EnvCookies    = "NAGOCHAT_COOKIES"
	EnvServerAddr = "NAGOCHAT_SERVER_ADDR"
)

// ConfigDir returns the configuration directory, ~/.nagochat unless
// overridden with SetConfigDir.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".nagochat"), nil
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file. A missing file yields the defaults. The
// environment overlay is applied in both cases.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = DefaultConfig()
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config file, creating its directory.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		c.Console.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCookies)); v != "" {
		c.Console.Cookies = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		c.Server.Addr = v
	}
}

// BuildLoggerConfig converts the logging section into logger settings.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Format:  c.Logging.Format,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
