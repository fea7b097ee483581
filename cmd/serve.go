package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/provider"
	"github.com/linanwx/nagochat/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the responder service",
	Long: `Start the HTTP responder that answers console submissions.

Routes:
  GET  /chat/          issues the anti-forgery cookie
  POST /get_response/  form field "message", answers {"response": ...}
  GET  /health         liveness probe
  GET  /health/details runtime and limiter snapshot

Examples:
  nagochat serve                        # provider from config (deepseek)
  nagochat serve --provider echo        # offline, echoes messages back
  nagochat serve --addr 0.0.0.0:8000`,
	RunE: runServe,
}

var (
	serveAddr     string
	serveProvider string
	serveModel    string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveProvider, "provider", "", "Backend provider: "+fmt.Sprint(provider.SupportedProviders()))
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Model name (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	name := cfg.Server.Provider
	if serveProvider != "" {
		name = serveProvider
	}
	backend, err := buildBackend(cfg, name)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := server.New(server.Config{
		Addr:           addr,
		BackendName:    name,
		CookieName:     cfg.Console.CookieName,
		HeaderName:     cfg.Console.HeaderName,
		RequireCSRF:    cfg.Server.RequireCSRF,
		RateRequests:   cfg.Server.RateLimit.Requests,
		RateWindow:     cfg.Server.RateLimit.Window,
		MaxInputTokens: cfg.Server.MaxInputTokens,
		Timeout:        cfg.Server.Timeout,
	}, backend)
	logger.Info("responder configured", "provider", name, "addr", srv.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func buildBackend(cfg *config.Config, name string) (provider.Provider, error) {
	s := provider.Settings{
		Model:       cfg.Server.Model,
		MaxTokens:   cfg.Server.MaxTokens,
		Temperature: cfg.Server.Temperature,
	}
	if serveModel != "" {
		s.Model = serveModel
	}
	if pc := cfg.ProviderFor(name); pc != nil {
		s.APIKey = pc.APIKey
		s.APIBase = pc.APIBase
	}
	p, err := provider.New(name, s)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	return p, nil
}
