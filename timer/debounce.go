package timer

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer runs an action once a burst of triggers has been quiet for the
// configured window. Only the last trigger of a burst counts.
type Debouncer struct {
	timer  *Timer
	wait   time.Duration
	action func()
}

// NewDebouncer wraps action with a quiet window of wait.
func NewDebouncer(clock clockwork.Clock, wait time.Duration, action func()) *Debouncer {
	return &Debouncer{
		timer:  New(clock),
		wait:   wait,
		action: action,
	}
}

// Trigger restarts the quiet window.
func (d *Debouncer) Trigger() {
	d.timer.Schedule(d.wait, d.action)
}

// Stop cancels a pending run.
func (d *Debouncer) Stop() {
	d.timer.Cancel()
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	return d.timer.Pending()
}

// Debounce returns a function that debounces action by wait.
func Debounce(clock clockwork.Clock, wait time.Duration, action func()) func() {
	return NewDebouncer(clock, wait, action).Trigger
}
