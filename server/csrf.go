package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

const (
	csrfCookieMaxAge = 365 * 24 * time.Hour
	csrfTokenBytes   = 32
)

func generateCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ensureCSRFCookie sets the anti-forgery cookie unless the request already
// carries one.
func (s *Server) ensureCSRFCookie(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(s.cfg.CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(csrfCookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// verifyCSRF checks that the header repeats the cookie value.
func (s *Server) verifyCSRF(r *http.Request) bool {
	c, err := r.Cookie(s.cfg.CookieName)
	if err != nil || c.Value == "" {
		return false
	}
	header := r.Header.Get(s.cfg.HeaderName)
	return subtle.ConstantTimeCompare([]byte(header), []byte(c.Value)) == 1
}
