// Package logger provides a minimal slog-based logging wrapper.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	Enabled bool
	Level   string
	Format  string // text or json
	Stdout  bool
	File    string
}

var (
	mu      sync.RWMutex
	base    *slog.Logger
	enabled = true

	// Saved state for Intercept/Restore.
	savedCfg   Config
	configured bool
	savedFile  *os.File
	intercept  io.Writer // non-nil while the TUI owns the terminal
)

// Init initializes the logger with the provided config.
// Relative file paths are resolved against configDir.
func Init(cfg Config, configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	savedCfg = cfg
	configured = true
	if savedFile != nil {
		_ = savedFile.Close()
		savedFile = nil
	}

	if !cfg.Enabled {
		enabled = false
		base = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
		return nil
	}

	var initErr error
	if cfg.File != "" {
		path := expandPath(cfg.File, configDir)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			initErr = fmt.Errorf("logger: create log dir: %w", err)
		} else if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err != nil {
			initErr = fmt.Errorf("logger: open log file: %w", err)
		} else {
			savedFile = f
		}
	}

	rebuild()
	return initErr
}

// Intercept replaces stdout with w (the TUI log panel). The file sink is kept.
func Intercept(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	intercept = w
	rebuild()
}

// Restore undoes Intercept.
func Restore() {
	mu.Lock()
	defer mu.Unlock()
	intercept = nil
	rebuild()
}

// Close releases the log file, if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if savedFile != nil {
		_ = savedFile.Close()
		savedFile = nil
	}
	rebuild()
}

// rebuild reconstructs the slog handler from current state.
// Must be called with mu held.
func rebuild() {
	if configured && !savedCfg.Enabled {
		return
	}

	var writers []io.Writer
	switch {
	case intercept != nil:
		writers = append(writers, intercept)
	case savedCfg.Stdout:
		writers = append(writers, os.Stdout)
	}
	if savedFile != nil {
		writers = append(writers, savedFile)
	}
	if len(writers) == 0 {
		if savedCfg.File != "" {
			// The file could not be opened; stay quiet rather than
			// writing over the console.
			writers = append(writers, io.Discard)
		} else {
			writers = append(writers, os.Stderr)
		}
	}

	base = slog.New(newHandler(io.MultiWriter(writers...), savedCfg))
	enabled = true
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	log(slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	log(slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	log(slog.LevelError, msg, args...)
}

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := base
	on := enabled
	mu.RUnlock()

	if !on || l == nil {
		return
	}

	l.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandPath(path, configDir string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	if configDir != "" {
		return filepath.Join(configDir, path)
	}
	return path
}
