// Package tui provides a terminal user interface for the chat console.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/nagochat/transcript"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// EntryMsg appends a rendered transcript entry to the conversation panel.
type EntryMsg struct{ Entry transcript.Entry }

// ScrollMsg moves the conversation panel to its last line.
type ScrollMsg struct{}

// BusyMsg disables or re-enables the input and submit controls.
type BusyMsg struct{ Busy bool }

// TypingMsg toggles the typing indicator.
type TypingMsg struct{ Show bool }

// ClearInputMsg empties the input control.
type ClearInputMsg struct{}

// FocusMsg returns keyboard focus to the input control.
type FocusMsg struct{}

// StatusMsg shows a status line notice.
type StatusMsg struct {
	Text    string
	IsError bool
}

// ClearStatusMsg hides the status line.
type ClearStatusMsg struct{}

// RefitMsg asks the input panel to recompute its height.
type RefitMsg struct{}

// InputSubmitMsg is emitted when the user presses Enter in the input panel.
type InputSubmitMsg struct{ Text string }
