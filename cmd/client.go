package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/cookie"
	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/responder"
)

// newResponderClient builds a client whose anti-forgery token comes from the
// configured static cookies first and the session cookie jar second.
func newResponderClient(cfg *config.Config, endpoint string) (*responder.Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", endpoint)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	store := cookie.Multi{
		cookie.Static(cfg.Console.Cookies),
		cookie.JarStore{Jar: jar, URL: u},
	}
	return responder.NewClient(endpoint,
		responder.WithCredentials(cookie.NewProvider(store, cfg.Console.CookieName)),
		responder.WithHeader(cfg.Console.HeaderName),
		responder.WithHTTPClient(&http.Client{Jar: jar}),
	), nil
}

// bootstrap seeds the cookie jar. Failures are logged only; the first
// submission reports an unreachable responder anyway.
func bootstrap(ctx context.Context, client *responder.Client, path string) {
	if err := client.Bootstrap(ctx, path); err != nil {
		logger.Warn("responder bootstrap failed", "endpoint", client.Endpoint(), "err", err)
	}
}
