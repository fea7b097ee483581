package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultLogRatio = 0.3

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// Options configures an App.
type Options struct {
	Placeholder string
	SubmitLabel string
	BusyLabel   string
	TypingText  string
	Markdown    bool
	ShowLogs    bool
	MaxLogLines int
	// OnStart runs once the program loop is live, e.g. to reroute logging
	// through Program.Send.
	OnStart func()
}

func (o *Options) applyDefaults() {
	if o.Placeholder == "" {
		o.Placeholder = "Type a message..."
	}
	if o.SubmitLabel == "" {
		o.SubmitLabel = "Send"
	}
	if o.BusyLabel == "" {
		o.BusyLabel = "Sending..."
	}
	if o.TypingText == "" {
		o.TypingText = "typing..."
	}
}

// App is the root bubbletea model that orchestrates panels and layout.
type App struct {
	logPanel    *LogPanel // nil when logs are hidden
	chatPanel   *ChatPanel
	statusPanel *StatusPanel
	inputPanel  *InputPanel

	width, height int
	logRatio      float64

	onSubmit func(string)
	onChange func()
	onStart  func()
}

// NewApp creates the root TUI model.
func NewApp(opts Options) *App {
	opts.applyDefaults()
	m := &App{
		chatPanel:   NewChatPanel(opts.Markdown),
		statusPanel: NewStatusPanel(opts.TypingText),
		inputPanel:  NewInputPanel(opts.Placeholder, opts.SubmitLabel, opts.BusyLabel),
		logRatio:    defaultLogRatio,
		onStart:     opts.OnStart,
	}
	if opts.ShowLogs {
		m.logPanel = NewLogPanel(opts.MaxLogLines)
	}
	return m
}

// SetSubmitHandler registers the submit callback. It runs off the event
// loop, so it may block. Must be set before the program starts.
func (m *App) SetSubmitHandler(fn func(string)) { m.onSubmit = fn }

// SetChangeHandler registers the input edit callback. It runs on the event
// loop and must not block. Must be set before the program starts.
func (m *App) SetChangeHandler(fn func()) { m.onChange = fn }

func (m *App) Init() tea.Cmd {
	start := m.onStart
	return tea.Batch(textarea.Blink, func() tea.Msg {
		if start != nil {
			start()
		}
		return nil
	})
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			_, cmd = m.chatPanel.Update(msg)
			return m, cmd
		}
		cmd = m.updateInput(msg)

	case tea.MouseMsg:
		_, cmd = m.chatPanel.Update(msg)

	case InputSubmitMsg:
		if isExitCommand(msg.Text) {
			return m, tea.Quit
		}
		submit, text := m.onSubmit, msg.Text
		if submit == nil {
			return m, nil
		}
		// Submission triggers view updates that go back through
		// Program.Send, so it cannot run on the event loop.
		cmd = func() tea.Msg {
			submit(text)
			return nil
		}

	case RefitMsg:
		m.inputPanel.Refit()
		m.recalcLayout()

	case EntryMsg, ScrollMsg:
		_, cmd = m.chatPanel.Update(msg)

	case BusyMsg:
		_, cmd = m.inputPanel.Update(msg)
		m.recalcLayout()

	case ClearInputMsg, FocusMsg:
		cmd = m.updateInput(msg)

	case TypingMsg, StatusMsg, ClearStatusMsg, spinner.TickMsg:
		_, cmd = m.statusPanel.Update(msg)

	case LogLineMsg:
		if m.logPanel != nil {
			_, cmd = m.logPanel.Update(msg)
		}

	default:
		// Cursor blink and friends belong to the input.
		_, cmd = m.inputPanel.Update(msg)
	}

	if logCmd := m.chatPanel.takeFailures(); logCmd != nil {
		cmd = tea.Batch(cmd, logCmd)
	}
	return m, cmd
}

// updateInput forwards msg to the input panel and reports content edits to
// the change handler.
func (m *App) updateInput(msg tea.Msg) tea.Cmd {
	before := m.inputPanel.Value()
	_, cmd := m.inputPanel.Update(msg)
	if m.onChange != nil && m.inputPanel.Value() != before {
		m.onChange()
	}
	return cmd
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))

	parts := make([]string, 0, 6)
	if m.logPanel != nil {
		parts = append(parts, m.logPanel.View(), sep)
	}
	parts = append(parts,
		m.chatPanel.View(),
		sep,
		m.statusPanel.View(),
		m.inputPanel.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *App) recalcLayout() {
	const statusH = 1
	sepLines := 1
	if m.logPanel != nil {
		sepLines = 2
	}

	m.inputPanel.SetSize(m.width, 0)
	inputH := m.inputPanel.Height()
	usable := max(m.height-inputH-statusH-sepLines, 2)

	chatH := usable
	if m.logPanel != nil {
		logH := max(int(float64(usable)*m.logRatio), 1)
		chatH = max(usable-logH, 1)
		m.logPanel.SetSize(m.width, logH)
	}
	m.chatPanel.SetSize(m.width, chatH)
	m.statusPanel.SetSize(m.width, statusH)
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
