// Package console drives the chat console: it validates submissions, runs
// one exchange with the responder at a time and reports the outcome in the
// transcript.
package console

import (
	"context"
	"strings"
	"sync"

	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/responder"
	"github.com/linanwx/nagochat/transcript"
)

// State is the submission state of the console.
type State int

const (
	Idle State = iota
	Sending
)

func (s State) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

// View is the part of the UI the controller toggles around a submission.
// Implementations must not call back into the Controller synchronously.
type View interface {
	// SetBusy disables (or re-enables) the input and submit controls and
	// switches the submit control between its idle and busy looks.
	SetBusy(busy bool)
	ShowTyping(show bool)
	ClearInput()
	Focus()
}

// Sender performs one exchange with the responder.
type Sender interface {
	Send(ctx context.Context, message string) (*responder.Reply, error)
}

// Notifier receives a short notice when an exchange fails.
type Notifier interface {
	Post(text string, isError bool)
}

// Controller runs the Idle → Sending → Idle cycle.
type Controller struct {
	view     View
	log      *transcript.Log
	sender   Sender
	notifier Notifier
	labels   Labels

	mu    sync.Mutex
	state State
	wg    sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithLabels sets the failure labels.
func WithLabels(l Labels) Option {
	return func(c *Controller) { c.labels = l }
}

// WithNotifier posts a status notice for every failed exchange.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// NewController creates an idle controller.
func NewController(view View, log *transcript.Log, sender Sender, opts ...Option) *Controller {
	c := &Controller{
		view:   view,
		log:    log,
		sender: sender,
		labels: EnglishLabels,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit starts an exchange for raw. Blank input, or a submission while
// another is in flight, is ignored and Submit returns false. The user's
// message is in the transcript before Submit returns; the reply arrives
// asynchronously.
func (c *Controller) Submit(ctx context.Context, raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Sending {
		logger.Debug("submit ignored while sending")
		return false
	}
	c.state = Sending

	c.view.SetBusy(true)
	c.view.ShowTyping(true)
	c.view.ClearInput()
	c.log.Append(transcript.UserMessage(text))

	c.wg.Add(1)
	go c.exchange(ctx, text)
	return true
}

// Wait blocks until the in-flight exchange, if any, has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) exchange(ctx context.Context, text string) {
	defer c.wg.Done()
	reply, err := c.sender.Send(ctx, text)
	c.settle(reply, err)
}

func (c *Controller) settle(reply *responder.Reply, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Interpret(reply, err, c.labels)
	switch {
	case err != nil:
		logger.Error("exchange failed", "kind", out.Kind.String(), "err", err)
	case !out.Append:
		// Nothing is shown for a payload with neither field set.
		logger.Debug("exchange returned an empty reply")
	}
	if out.Append {
		c.log.Append(out.Message)
		if out.Message.IsError && c.notifier != nil {
			c.notifier.Post(c.noticeFor(out.Kind), true)
		}
	}

	c.view.ShowTyping(false)
	c.view.SetBusy(false)
	c.state = Idle
	c.view.Focus()
}

func (c *Controller) noticeFor(k Kind) string {
	switch k {
	case KindTransport:
		return strings.TrimRight(c.labels.System, " :：")
	case KindRejected:
		return strings.TrimRight(c.labels.Rejected, " :：")
	default:
		return strings.TrimRight(c.labels.Error, " :：")
	}
}
