// Package server is the responder service behind the console endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/linanwx/nagochat/internal/health"
	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/provider"
)

const (
	defaultAddr         = "127.0.0.1:8000"
	defaultCookieName   = "csrftoken"
	defaultHeaderName   = "X-CSRFToken"
	defaultRateRequests = 10
	defaultRateWindow   = 60 * time.Second
	defaultTimeout      = 30 * time.Second
	shutdownTimeout     = 5 * time.Second
	maxFormBytes        = 1 << 20
)

// Error bodies returned by the responder.
const (
	msgRateLimited  = "请求过于频繁，请稍后再试"
	msgBadMethod    = "无效的请求方法"
	msgEmptyMessage = "消息不能为空"
	msgTooLong      = "消息过长"
	msgCSRFFailed   = "CSRF verification failed"
	msgInvalidReq   = "Invalid request"
)

// Config configures the responder service.
type Config struct {
	Addr           string
	BackendName    string // reported by /health/details
	CookieName     string
	HeaderName     string
	RequireCSRF    bool
	RateRequests   int
	RateWindow     time.Duration
	MaxInputTokens int
	Timeout        time.Duration
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = defaultAddr
	}
	if strings.TrimSpace(c.CookieName) == "" {
		c.CookieName = defaultCookieName
	}
	if strings.TrimSpace(c.HeaderName) == "" {
		c.HeaderName = defaultHeaderName
	}
	if c.RateRequests == 0 {
		c.RateRequests = defaultRateRequests
	}
	if c.RateWindow <= 0 {
		c.RateWindow = defaultRateWindow
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Server answers /get_response/ with replies from a provider.
type Server struct {
	cfg     Config
	backend provider.Provider
	limiter *RateLimiter
	tokens  *tokenCounter
	router  chi.Router
	started time.Time
}

// New creates a responder. A negative RateRequests disables rate limiting;
// a zero MaxInputTokens disables the size guard.
func New(cfg Config, backend provider.Provider) *Server {
	cfg.applyDefaults()
	s := &Server{
		cfg:     cfg,
		backend: backend,
		limiter: NewRateLimiter(cfg.RateRequests, cfg.RateWindow),
		tokens:  &tokenCounter{},
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Get("/health/details", s.handleHealthDetails)
	r.Get("/chat/", s.handleChatPage)
	r.With(s.rateLimit).HandleFunc("/get_response/", s.handleGetResponse)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("responder listening", "addr", s.cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("responder shutdown error", "err", err)
		return err
	}
	logger.Info("responder stopped")
	return nil
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.limiter.Allow(ip) {
			logger.Warn("rate limit exceeded", "client", ip)
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": msgRateLimited})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ensureCSRFCookie(w, r); err != nil {
		logger.Error("issue csrf cookie failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("nagochat responder: POST messages to /get_response/\n"))
}

func (s *Server) handleHealthDetails(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, health.Collect(health.Options{
		StartedAt: s.started,
		Responder: &health.Responder{
			Backend:        s.cfg.BackendName,
			RateRequests:   s.cfg.RateRequests,
			RateWindow:     s.cfg.RateWindow.String(),
			TrackedClients: s.limiter.Tracked(),
		},
	}))
}

func (s *Server) handleGetResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": msgBadMethod})
		return
	}
	if s.cfg.RequireCSRF && !s.verifyCSRF(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": msgCSRFFailed})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgInvalidReq})
		return
	}
	message := strings.TrimSpace(r.PostForm.Get("message"))
	if message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgEmptyMessage})
		return
	}

	if s.cfg.MaxInputTokens > 0 {
		n, err := s.tokens.Count(message)
		if err != nil {
			logger.Warn("token count unavailable, skipping size guard", "err", err)
		} else if n > s.cfg.MaxInputTokens {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgTooLong})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()
	content, err := s.backend.Chat(ctx, message)
	if err != nil {
		logger.Error("backend chat failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": content})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write json response failed", "err", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Info(
			"http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"requestId", chiMiddleware.GetReqID(r.Context()),
			"latencyMs", time.Since(start).Milliseconds(),
		)
	})
}
