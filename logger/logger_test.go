package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesRelativeFile(t *testing.T) {
	dir := t.TempDir()
	err := Init(Config{Enabled: true, Level: "debug", Format: "json", File: "logs/test.log"}, dir)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Close()

	Debug("hello", "k", "v")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) || !strings.Contains(string(data), `"k":"v"`) {
		t.Fatalf("log file = %q, want json record with msg and k", data)
	}
}

func TestInterceptAndLevel(t *testing.T) {
	if err := Init(Config{Enabled: true, Level: "warn"}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	var buf bytes.Buffer
	Intercept(&buf)
	defer Restore()

	Info("dropped")
	Warn("kept", "n", 1)

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=kept") || !strings.Contains(out, "n=1") {
		t.Fatalf("intercepted output = %q, want warn record", out)
	}
}

func TestDisabledStaysQuiet(t *testing.T) {
	if err := Init(Config{Enabled: false}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	var buf bytes.Buffer
	Intercept(&buf)
	defer Restore()

	Error("nothing")
	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]string{"debug": "DEBUG", "WARNING": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO"} {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
