// Package timer provides single-slot cancellable timers and a debouncer.
package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer owns at most one pending callback. Scheduling a new callback
// cancels the previous one, and a callback that already fired on the clock
// but lost the race against Schedule or Cancel is discarded.
type Timer struct {
	clock clockwork.Clock

	mu      sync.Mutex
	pending clockwork.Timer
	gen     uint64
}

// New creates a timer driven by clock. A nil clock uses the real clock.
func New(clock clockwork.Clock) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Timer{clock: clock}
}

// Schedule cancels any pending callback and runs fn once after d.
func (t *Timer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.pending = t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		if gen != t.gen || t.pending == nil {
			t.mu.Unlock()
			return
		}
		t.pending = nil
		t.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending callback. It reports whether one was pending.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked()
}

// Pending reports whether a callback is scheduled and has not run.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

func (t *Timer) stopLocked() bool {
	if t.pending == nil {
		return false
	}
	t.pending.Stop()
	t.pending = nil
	t.gen++
	return true
}
