// Package resize refits the console input to its content after edits settle.
package resize

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/linanwx/nagochat/timer"
)

// DefaultQuietWindow is the debounce interval after the last edit.
const DefaultQuietWindow = 100 * time.Millisecond

// Auto asks a Sizer to fall back to its natural height.
const Auto = 0

// Sizer is an input control whose rendered height can be measured and set.
type Sizer interface {
	SetHeight(rows int)
	ContentHeight() int
}

// Fit collapses s to its natural size, measures the content and applies that
// height clamped to [minRows, maxRows]. A maxRows of zero means unbounded.
func Fit(s Sizer, minRows, maxRows int) int {
	s.SetHeight(Auto)
	h := s.ContentHeight()
	if h < minRows {
		h = minRows
	}
	if maxRows > 0 && h > maxRows {
		h = maxRows
	}
	s.SetHeight(h)
	return h
}

// Resizer runs a refit action once input changes have been quiet for the
// configured window.
type Resizer struct {
	debouncer *timer.Debouncer
}

// New wraps refit in a debouncer. A non-positive quiet window selects
// DefaultQuietWindow.
func New(clock clockwork.Clock, quiet time.Duration, refit func()) *Resizer {
	if quiet <= 0 {
		quiet = DefaultQuietWindow
	}
	return &Resizer{debouncer: timer.NewDebouncer(clock, quiet, refit)}
}

// InputChanged records an edit.
func (r *Resizer) InputChanged() {
	r.debouncer.Trigger()
}

// Stop drops a pending refit.
func (r *Resizer) Stop() {
	r.debouncer.Stop()
}
