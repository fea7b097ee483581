// Package responder is the console's client for the remote chat responder.
package responder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/linanwx/nagochat/logger"
)

const (
	// DefaultEndpoint is where the console posts messages.
	DefaultEndpoint = "http://127.0.0.1:8000/get_response/"
	// DefaultHeader carries the credential token.
	DefaultHeader = "X-CSRFToken"

	maxReplyBytes = 4 << 20
)

// Credentials supplies the token sent with every request.
type Credentials interface {
	Token() (string, bool)
}

// Reply is a decoded success payload. Only truthy fields are set.
type Reply struct {
	Response string
	Error    string
}

// Client posts form-encoded messages to the responder endpoint.
type Client struct {
	endpoint   string
	header     string
	creds      Credentials
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials sets the token source.
func WithCredentials(c Credentials) Option {
	return func(cl *Client) { cl.creds = c }
}

// WithHeader sets the header that carries the token.
func WithHeader(name string) Option {
	return func(cl *Client) {
		if name = strings.TrimSpace(name); name != "" {
			cl.header = name
		}
	}
}

// WithHTTPClient sets the transport, e.g. one with a cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) {
		if hc != nil {
			cl.httpClient = hc
		}
	}
}

// NewClient creates a client for endpoint. An empty endpoint selects
// DefaultEndpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		header:     DefaultHeader,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Bootstrap issues a GET against path on the endpoint's host so the
// responder can set its anti-forgery cookie in the client's jar.
func (c *Client) Bootstrap(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	base, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse bootstrap path: %w", err)
	}
	target := base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create bootstrap request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bootstrap request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplyBytes))
	logger.Debug("responder bootstrap", "url", target, "status", resp.StatusCode)
	return nil
}

// Send posts message and decodes the reply. Failures are returned as
// *TransportError or *RejectedError.
func (c *Client) Send(ctx context.Context, message string) (*Reply, error) {
	start := time.Now()
	form := url.Values{"message": {message}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	token := ""
	if c.creds != nil {
		if v, ok := c.creds.Token(); ok {
			token = v
		}
	}
	req.Header.Set(c.header, token)

	logger.Debug("responder request", "endpoint", c.endpoint, "chars", len(message), "hasToken", token != "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("responder request error", "endpoint", c.endpoint, "err", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxReplyBytes)); err != nil {
		logger.Error("responder read error", "endpoint", c.endpoint, "status", resp.StatusCode, "err", err)
		return nil, &TransportError{Err: fmt.Errorf("read reply: %w", err)}
	}
	body := buf.Bytes()

	// The body is decoded before the status is looked at, so an error page
	// that is not JSON is a transport failure whatever its status.
	if !gjson.ValidBytes(body) {
		logger.Error("responder reply is not json", "endpoint", c.endpoint, "status", resp.StatusCode, "body", buf.String())
		return nil, &TransportError{Err: ErrInvalidReply}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rejected := &RejectedError{Status: resp.StatusCode}
		if e := gjson.GetBytes(body, "error"); truthy(e) {
			rejected.Description = e.String()
		}
		logger.Error("responder rejected request", "endpoint", c.endpoint, "status", resp.StatusCode, "body", buf.String())
		return nil, rejected
	}

	reply := &Reply{}
	if r := gjson.GetBytes(body, "response"); truthy(r) {
		reply.Response = r.String()
	}
	if e := gjson.GetBytes(body, "error"); truthy(e) {
		reply.Error = e.String()
	}
	logger.Debug(
		"responder reply",
		"endpoint", c.endpoint,
		"status", resp.StatusCode,
		"outputChars", len(reply.Response),
		"hasError", reply.Error != "",
		"latencyMs", time.Since(start).Milliseconds(),
	)
	return reply, nil
}

// truthy mirrors how a browser script tests a decoded JSON field.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
