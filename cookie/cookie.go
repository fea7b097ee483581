// Package cookie reads credential tokens out of a cookie store.
package cookie

import (
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/linanwx/nagochat/logger"
)

// DefaultName is the cookie holding the anti-forgery token.
const DefaultName = "csrftoken"

// Store exposes the ambient cookies as a single header-style string
// ("a=1; b=2").
type Store interface {
	Cookies() string
}

// Static is a fixed cookie string.
type Static string

func (s Static) Cookies() string { return string(s) }

// JarStore reads the cookies a jar would send to URL.
type JarStore struct {
	Jar http.CookieJar
	URL *url.URL
}

func (s JarStore) Cookies() string {
	if s.Jar == nil || s.URL == nil {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, c := range s.Jar.Cookies(s.URL) {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// Multi concatenates several stores in order, so earlier stores win lookups.
type Multi []Store

func (m Multi) Cookies() string {
	parts := make([]string, 0, len(m))
	for _, s := range m {
		if s == nil {
			continue
		}
		if c := strings.TrimSpace(s.Cookies()); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "; ")
}

// Lookup returns the percent-decoded value of the first cookie whose key is
// exactly name. Absence is not an error.
func Lookup(store Store, name string) (string, bool) {
	if store == nil || name == "" {
		return "", false
	}
	raw := store.Cookies()
	if raw == "" {
		return "", false
	}
	prefix := name + "="
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if !strings.HasPrefix(entry, prefix) {
			continue
		}
		value, err := url.PathUnescape(entry[len(prefix):])
		if err != nil {
			logger.Debug("cookie value is not valid percent-encoding", "cookie", name, "err", err)
			return "", false
		}
		if !utf8.ValidString(value) {
			logger.Debug("cookie value decodes to invalid UTF-8", "cookie", name)
			return "", false
		}
		return value, true
	}
	return "", false
}

// Provider looks up one named cookie. The store is re-read on every call so
// rotated tokens are picked up.
type Provider struct {
	store Store
	name  string
}

// NewProvider creates a provider for the named cookie. An empty name
// selects DefaultName.
func NewProvider(store Store, name string) *Provider {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	return &Provider{store: store, name: name}
}

// Name returns the cookie name.
func (p *Provider) Name() string { return p.name }

// Token returns the current credential, if any.
func (p *Provider) Token() (string, bool) {
	return Lookup(p.store, p.name)
}
