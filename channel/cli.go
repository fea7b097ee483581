package channel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/transcript"
)

const maxLineBytes = 1 << 20

// plainChannel implements Channel over line-oriented streams (for non-TTY).
// A line ending in a backslash continues on the next line. Input is not
// read while a submission is in flight.
type plainChannel struct {
	prompt     string
	typingText string
	in         io.Reader
	out        io.Writer
	errOut     io.Writer

	mu       sync.Mutex
	busy     bool
	idle     chan struct{}
	submit   func(string)
	onChange func()
}

func newPlainChannel(cfg Config) *plainChannel {
	c := &plainChannel{
		prompt:     cfg.Prompt,
		typingText: cfg.TypingText,
		in:         cfg.In,
		out:        cfg.Out,
		errOut:     cfg.ErrOut,
		idle:       make(chan struct{}, 1),
	}
	if c.prompt == "" {
		c.prompt = "nagochat> "
	}
	if c.typingText == "" {
		c.typingText = "typing..."
	}
	if c.in == nil {
		c.in = os.Stdin
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.errOut == nil {
		c.errOut = os.Stderr
	}
	return c
}

func (c *plainChannel) Name() string { return "plain" }

func (c *plainChannel) Run(ctx context.Context) error {
	logger.Info("console started (plain mode)")
	defer logger.Info("console stopped")

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var pending []string
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if len(pending) == 0 {
			fmt.Fprint(c.out, c.prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if len(pending) > 0 {
				c.send(ctx, strings.Join(pending, "\n"))
			}
			return nil
		}

		line := scanner.Text()
		if strings.HasSuffix(line, "\\") {
			pending = append(pending, strings.TrimSuffix(line, "\\"))
			c.changed()
			continue
		}
		text := strings.Join(append(pending, line), "\n")
		pending = pending[:0]

		if isExitCommand(text) {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
		c.send(ctx, text)
	}
}

// send submits text and, when the submission was accepted, blocks until
// the controller reports idle again.
func (c *plainChannel) send(ctx context.Context, text string) {
	c.mu.Lock()
	submit := c.submit
	c.mu.Unlock()
	if submit == nil {
		return
	}

	// Drop a stale idle signal from an earlier exchange.
	select {
	case <-c.idle:
	default:
	}

	submit(text)
	if !c.isBusy() {
		return
	}
	select {
	case <-c.idle:
	case <-ctx.Done():
	}
}

func (c *plainChannel) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *plainChannel) isBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *plainChannel) SetBusy(busy bool) {
	c.mu.Lock()
	c.busy = busy
	c.mu.Unlock()
	if !busy {
		select {
		case c.idle <- struct{}{}:
		default:
		}
	}
}

func (c *plainChannel) ShowTyping(show bool) {
	if show {
		fmt.Fprintln(c.errOut, c.typingText)
	}
}

func (c *plainChannel) ClearInput()     {}
func (c *plainChannel) Focus()          {}
func (c *plainChannel) ScrollToBottom() {}
func (c *plainChannel) RefitInput()     {}

// Render prints replies. User entries are skipped since the terminal
// already echoed them.
func (c *plainChannel) Render(e transcript.Entry) {
	if slices.Contains(e.Classes, transcript.ClassUser) {
		return
	}
	w := c.out
	if slices.Contains(e.Classes, transcript.ClassError) {
		w = c.errOut
	}
	fmt.Fprintln(w)
	for _, line := range e.Lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

func (c *plainChannel) ShowStatus(text string, isError bool) {
	tag := "info"
	if isError {
		tag = "error"
	}
	fmt.Fprintf(c.errOut, "[%s] %s\n", tag, text)
}

func (c *plainChannel) ClearStatus() {}

func (c *plainChannel) OnSubmitRequested(fn func(text string)) {
	c.mu.Lock()
	c.submit = fn
	c.mu.Unlock()
}

func (c *plainChannel) OnInputChanged(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// isExitCommand matches only the slash forms, so "exit" and "quit" can
// still be sent as messages.
func isExitCommand(text string) bool {
	switch strings.TrimSpace(text) {
	case "/exit", "/quit":
		return true
	}
	return false
}
