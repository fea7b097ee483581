package console

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/linanwx/nagochat/resize"
	"github.com/linanwx/nagochat/status"
	"github.com/linanwx/nagochat/transcript"
)

// Surface is everything the console needs from a UI toolkit.
type Surface interface {
	View
	transcript.Renderer
	status.Display

	// OnSubmitRequested registers the handler for an explicit submit
	// (button activation or Enter without a newline modifier).
	OnSubmitRequested(fn func(text string))
	// OnInputChanged registers the handler for edits of the input control.
	OnInputChanged(fn func())
	// RefitInput recomputes the input control height for its content.
	RefitInput()
}

// SessionConfig tunes a Session.
type SessionConfig struct {
	Labels      Labels
	StatusTTL   time.Duration
	ResizeQuiet time.Duration
	Clock       clockwork.Clock
}

// Session binds one Surface to a controller, transcript, status line and
// input resizer. Each Session is independent.
type Session struct {
	Controller *Controller
	Transcript *transcript.Log
	Status     *status.Announcer
	Resizer    *resize.Resizer

	cancel context.CancelFunc
}

// NewSession wires surface to sender. Submissions run under ctx; Close
// cancels it.
func NewSession(ctx context.Context, surface Surface, sender Sender, cfg SessionConfig) *Session {
	if cfg.Labels == (Labels{}) {
		cfg.Labels = EnglishLabels
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ctx, cancel := context.WithCancel(ctx)
	log := transcript.New(surface)
	announcer := status.NewAnnouncer(surface, status.WithClock(clock), status.WithTTL(cfg.StatusTTL))
	s := &Session{
		Transcript: log,
		Status:     announcer,
		Resizer:    resize.New(clock, cfg.ResizeQuiet, surface.RefitInput),
		Controller: NewController(surface, log, sender,
			WithLabels(cfg.Labels),
			WithNotifier(announcer),
		),
		cancel: cancel,
	}

	surface.OnSubmitRequested(func(text string) {
		s.Controller.Submit(ctx, text)
	})
	surface.OnInputChanged(s.Resizer.InputChanged)
	return s
}

// Close cancels in-flight work, waits for it to settle and stops timers.
func (s *Session) Close() {
	s.cancel()
	s.Controller.Wait()
	s.Resizer.Stop()
	s.Status.Stop()
}
