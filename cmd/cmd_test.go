package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/provider"
	"github.com/linanwx/nagochat/server"
)

func isolateConfig(t *testing.T) {
	t.Helper()
	config.SetConfigDir(t.TempDir())
	t.Cleanup(func() { config.SetConfigDir("") })
	for _, key := range []string{config.EnvEndpoint, config.EnvCookies, config.EnvServerAddr} {
		t.Setenv(key, "")
	}
}

func runAskAgainst(t *testing.T, endpoint, message string) (string, string, error) {
	t.Helper()
	askMessage, askEndpoint, askLocale = message, endpoint, ""
	t.Cleanup(func() { askMessage, askEndpoint = "", "" })

	var stdout, stderr bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&stdout)
	c.SetErr(&stderr)
	err := runAsk(c, nil)
	return stdout.String(), stderr.String(), err
}

func TestAskPrintsReply(t *testing.T) {
	isolateConfig(t)
	srv := httptest.NewServer(server.New(server.Config{}, provider.EchoProvider{}))
	defer srv.Close()

	out, errOut, err := runAskAgainst(t, srv.URL+"/get_response/", "  hello  ")
	if err != nil {
		t.Fatalf("runAsk() error = %v (stderr %q)", err, errOut)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Fatalf("stdout = %q, want hello", out)
	}
}

func TestAskReportsRejection(t *testing.T) {
	isolateConfig(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	out, errOut, err := runAskAgainst(t, srv.URL+"/get_response/", "hi")
	if !errors.Is(err, errSilent) {
		t.Fatalf("runAsk() error = %v, want errSilent", err)
	}
	if out != "" {
		t.Fatalf("stdout = %q, want empty", out)
	}
	if strings.TrimSpace(errOut) != "Request rejected: slow down" {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestAskRejectsBlankMessage(t *testing.T) {
	isolateConfig(t)
	if _, _, err := runAskAgainst(t, "http://127.0.0.1:1/get_response/", "   "); err == nil {
		t.Fatal("runAsk() accepted a blank message")
	}
}

func TestNewResponderClientValidatesEndpoint(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, bad := range []string{"", "not a url", "/get_response/"} {
		if _, err := newResponderClient(cfg, bad); err == nil {
			t.Errorf("newResponderClient(%q) succeeded", bad)
		}
	}
	c, err := newResponderClient(cfg, " http://127.0.0.1:8000/get_response/ ")
	if err != nil {
		t.Fatalf("newResponderClient() error = %v", err)
	}
	if c.Endpoint() != "http://127.0.0.1:8000/get_response/" {
		t.Fatalf("Endpoint() = %q", c.Endpoint())
	}
}

func TestBuildBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	p, err := buildBackend(cfg, "echo")
	if err != nil {
		t.Fatalf("buildBackend(echo) error = %v", err)
	}
	if _, ok := p.(provider.EchoProvider); !ok {
		t.Fatalf("buildBackend(echo) = %T", p)
	}

	t.Setenv("DEEPSEEK_API_KEY", "")
	if _, err := buildBackend(cfg, "deepseek"); !errors.Is(err, provider.ErrMissingAPIKey) {
		t.Fatalf("buildBackend(deepseek) error = %v, want ErrMissingAPIKey", err)
	}
}

func TestBuildProviderOptionsDeepSeekFirst(t *testing.T) {
	opts := buildProviderOptions()
	if len(opts) == 0 || opts[0].Value != "deepseek" {
		t.Fatalf("first option = %+v, want deepseek", opts)
	}
}

func TestValidateEndpoint(t *testing.T) {
	if err := validateEndpoint("http://example.test/get_response/"); err != nil {
		t.Fatalf("validateEndpoint(valid) = %v", err)
	}
	if err := validateEndpoint("example"); err == nil {
		t.Fatal("validateEndpoint(example) succeeded")
	}
}
