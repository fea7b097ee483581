package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/nagochat/resize"
)

const (
	minInputRows = 1
	maxInputRows = 8
	buttonGap    = 1
)

var (
	buttonIdleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	buttonBusyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Background(lipgloss.Color("8")).Padding(0, 1)
)

// InputPanel is a multi-line text input with a submit button. Enter
// submits; alt+enter and ctrl+j insert a newline.
type InputPanel struct {
	input     textarea.Model
	idleLabel string
	busyLabel string
	busy      bool
	width     int
}

// NewInputPanel creates an input panel. The labels are the submit button's
// idle and busy captions.
func NewInputPanel(placeholder, idleLabel, busyLabel string) *InputPanel {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetHeight(minInputRows)
	ta.Focus()
	return &InputPanel{
		input:     ta,
		idleLabel: idleLabel,
		busyLabel: busyLabel,
	}
}

func (p *InputPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case BusyMsg:
		p.busy = msg.Busy
		if p.busy {
			p.input.Blur()
		}
		return p, nil
	case ClearInputMsg:
		p.input.Reset()
		return p, nil
	case FocusMsg:
		if p.busy {
			return p, nil
		}
		return p, p.input.Focus()
	case tea.KeyMsg:
		if p.busy {
			return p, nil
		}
		switch {
		case msg.Type == tea.KeyEnter && !msg.Alt:
			text := p.input.Value()
			return p, func() tea.Msg { return InputSubmitMsg{Text: text} }
		case msg.Type == tea.KeyEnter && msg.Alt, msg.Type == tea.KeyCtrlJ:
			p.input.InsertString("\n")
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *InputPanel) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		p.input.View(),
		strings.Repeat(" ", buttonGap),
		p.button(),
	)
}

func (p *InputPanel) button() string {
	if p.busy {
		return buttonBusyStyle.Render(p.busyLabel)
	}
	return buttonIdleStyle.Render(p.idleLabel)
}

func (p *InputPanel) SetSize(width, _ int) {
	p.width = width
	w := width - lipgloss.Width(p.button()) - buttonGap
	if w < 1 {
		w = 1
	}
	p.input.SetWidth(w)
}

// Value returns the current input text.
func (p *InputPanel) Value() string { return p.input.Value() }

// Busy reports whether the controls are disabled.
func (p *InputPanel) Busy() bool { return p.busy }

// Height returns the number of rows the input occupies.
func (p *InputPanel) Height() int { return p.input.Height() }

// SetHeight implements resize.Sizer.
func (p *InputPanel) SetHeight(rows int) {
	if rows == resize.Auto {
		rows = maxInputRows
	}
	p.input.SetHeight(rows)
}

// ContentHeight implements resize.Sizer. It counts soft-wrapped rows at
// the current text width, not just hard lines.
func (p *InputPanel) ContentHeight() int {
	width := p.input.Width()
	if width < 1 {
		return p.input.LineCount()
	}
	wrap := lipgloss.NewStyle().Width(width)
	rows := 0
	for _, line := range strings.Split(p.input.Value(), "\n") {
		rows += lipgloss.Height(wrap.Render(line))
	}
	return max(rows, p.input.LineCount())
}

// Refit sizes the input to its content.
func (p *InputPanel) Refit() int {
	return resize.Fit(p, minInputRows, maxInputRows)
}
