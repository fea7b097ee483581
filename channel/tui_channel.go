package channel

import (
	"bytes"
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/nagochat/channel/tui"
	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/transcript"
)

// TUIChannel implements Channel with a bubbletea program. Every surface
// call is marshalled into the program loop with Program.Send.
type TUIChannel struct {
	app     *tui.App
	program *tea.Program
}

func newTUIChannel(cfg Config) *TUIChannel {
	c := &TUIChannel{}
	c.app = tui.NewApp(tui.Options{
		Placeholder: cfg.Placeholder,
		SubmitLabel: cfg.SubmitLabel,
		BusyLabel:   cfg.BusyLabel,
		TypingText:  cfg.TypingText,
		Markdown:    cfg.Markdown,
		ShowLogs:    cfg.ShowLogs,
		// Send blocks until the loop runs, so logging is rerouted from
		// inside it.
		OnStart: func() { logger.Intercept(&logWriter{program: c.program}) },
	})
	c.program = tea.NewProgram(c.app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	return c
}

func (c *TUIChannel) Name() string { return "tui" }

func (c *TUIChannel) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.program.Quit()
		case <-stop:
		}
	}()

	logger.Info("console started (TUI mode)")
	_, err := c.program.Run()
	logger.Restore()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	logger.Info("console stopped")
	return nil
}

func (c *TUIChannel) SetBusy(busy bool)         { c.program.Send(tui.BusyMsg{Busy: busy}) }
func (c *TUIChannel) ShowTyping(show bool)      { c.program.Send(tui.TypingMsg{Show: show}) }
func (c *TUIChannel) ClearInput()               { c.program.Send(tui.ClearInputMsg{}) }
func (c *TUIChannel) Focus()                    { c.program.Send(tui.FocusMsg{}) }
func (c *TUIChannel) ScrollToBottom()           { c.program.Send(tui.ScrollMsg{}) }
func (c *TUIChannel) ClearStatus()              { c.program.Send(tui.ClearStatusMsg{}) }
func (c *TUIChannel) RefitInput()               { c.program.Send(tui.RefitMsg{}) }
func (c *TUIChannel) Render(e transcript.Entry) { c.program.Send(tui.EntryMsg{Entry: e}) }

func (c *TUIChannel) ShowStatus(text string, isError bool) {
	c.program.Send(tui.StatusMsg{Text: text, IsError: isError})
}

func (c *TUIChannel) OnSubmitRequested(fn func(text string)) { c.app.SetSubmitHandler(fn) }
func (c *TUIChannel) OnInputChanged(fn func())               { c.app.SetChangeHandler(fn) }

// logWriter implements io.Writer and sends each write as a LogLineMsg to the TUI.
type logWriter struct {
	program *tea.Program
}

func (w *logWriter) Write(p []byte) (int, error) {
	// Split on newlines in case a single write contains multiple lines.
	lines := bytes.Split(p, []byte("\n"))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		w.program.Send(tui.LogLineMsg{Line: string(line)})
	}
	return len(p), nil
}
