// Package channel provides the concrete console surfaces: a bubbletea TUI
// for terminals and a plain line mode for pipes.
package channel

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/linanwx/nagochat/console"
)

// Channel is a console surface that owns the terminal while it runs.
type Channel interface {
	console.Surface

	// Name returns the channel name ("tui" or "plain").
	Name() string

	// Run drives the surface until the user quits, input ends or ctx is
	// cancelled.
	Run(ctx context.Context) error
}

// Config holds the user-facing texts and switches of a channel.
type Config struct {
	Prompt      string
	Placeholder string
	SubmitLabel string
	BusyLabel   string
	TypingText  string
	Markdown    bool
	ShowLogs    bool

	// Plain mode streams; nil means the process stdio.
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewCLIChannel creates a console channel.
// If stdin and stdout are terminals it returns the TUI; otherwise, or when
// plain is set, a line-oriented scanner.
func NewCLIChannel(cfg Config, plain bool) Channel {
	if !plain && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return newTUIChannel(cfg)
	}
	return newPlainChannel(cfg)
}
