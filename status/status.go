// Package status owns the single-slot status line of the console.
package status

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/linanwx/nagochat/timer"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3 * time.Second

// Display renders the status line.
type Display interface {
	ShowStatus(text string, isError bool)
	ClearStatus()
}

// Notice is the currently visible status.
type Notice struct {
	Text      string
	IsError   bool
	ExpiresAt time.Time
}

// Announcer shows at most one notice at a time. A new post replaces the
// visible notice and restarts the auto-clear countdown.
type Announcer struct {
	display Display
	clock   clockwork.Clock
	ttl     time.Duration
	expiry  *timer.Timer

	mu      sync.Mutex
	current *Notice
}

// Option configures an Announcer.
type Option func(*Announcer)

// WithClock sets the clock used for expiry.
func WithClock(c clockwork.Clock) Option {
	return func(a *Announcer) { a.clock = c }
}

// WithTTL sets how long notices stay visible.
func WithTTL(d time.Duration) Option {
	return func(a *Announcer) {
		if d > 0 {
			a.ttl = d
		}
	}
}

// NewAnnouncer creates an announcer drawing into display.
func NewAnnouncer(display Display, opts ...Option) *Announcer {
	a := &Announcer{
		display: display,
		clock:   clockwork.NewRealClock(),
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.expiry = timer.New(a.clock)
	return a
}

// Post shows text immediately and schedules it to clear after the TTL.
func (a *Announcer) Post(text string, isError bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := &Notice{Text: text, IsError: isError, ExpiresAt: a.clock.Now().Add(a.ttl)}
	a.current = n
	if a.display != nil {
		a.display.ShowStatus(text, isError)
	}
	a.expiry.Schedule(a.ttl, func() { a.expire(n) })
}

// Current returns the visible notice, if any.
func (a *Announcer) Current() (Notice, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return Notice{}, false
	}
	return *a.current, true
}

// Stop cancels the pending auto-clear and leaves the display untouched.
func (a *Announcer) Stop() {
	a.expiry.Cancel()
}

func (a *Announcer) expire(n *Notice) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != n {
		return
	}
	a.current = nil
	if a.display != nil {
		a.display.ClearStatus()
	}
}
