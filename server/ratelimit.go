package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const maxTrackedClients = 4096

// RateLimiter admits at most limit requests per client within a sliding
// window. Clients idle for a whole window drop out of the store.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits *expirable.LRU[string, []time.Time]
}

// NewRateLimiter creates a limiter. A non-positive limit disables it.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   expirable.NewLRU[string, []time.Time](maxTrackedClients, nil, window),
	}
}

// Allow records a request from key and reports whether it is admitted.
// Rejected requests are not recorded.
func (rl *RateLimiter) Allow(key string) bool {
	if rl == nil || rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	prev, _ := rl.hits.Get(key)
	recent := make([]time.Time, 0, len(prev)+1)
	for _, t := range prev {
		if now.Sub(t) < rl.window {
			recent = append(recent, t)
		}
	}
	if len(recent) >= rl.limit {
		rl.hits.Add(key, recent)
		return false
	}
	rl.hits.Add(key, append(recent, now))
	return true
}

// Tracked returns the number of clients with requests inside the window.
func (rl *RateLimiter) Tracked() int {
	if rl == nil {
		return 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.hits.Len()
}

// clientIP returns the remote address without its port. chi's RealIP
// middleware has already applied forwarding headers.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
