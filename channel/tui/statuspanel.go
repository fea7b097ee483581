package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	typingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// StatusPanel is the single status row: typing indicator on the left,
// transient notice on the right.
type StatusPanel struct {
	spinner    spinner.Model
	typingText string
	typing     bool

	text    string
	isError bool
	visible bool
	width   int
}

// NewStatusPanel creates a status panel.
func NewStatusPanel(typingText string) *StatusPanel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &StatusPanel{spinner: sp, typingText: typingText}
}

func (p *StatusPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case TypingMsg:
		p.typing = msg.Show
		if p.typing {
			return p, p.spinner.Tick
		}
		return p, nil
	case StatusMsg:
		p.text, p.isError, p.visible = msg.Text, msg.IsError, true
		return p, nil
	case ClearStatusMsg:
		p.text, p.isError, p.visible = "", false, false
		return p, nil
	case spinner.TickMsg:
		// Dropping ticks while hidden ends the tick loop.
		if !p.typing {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *StatusPanel) View() string {
	left := ""
	if p.typing {
		left = typingStyle.Render(p.spinner.View() + " " + p.typingText)
	}
	right := ""
	if p.visible {
		style := statusInfoStyle
		if p.isError {
			style = statusErrorStyle
		}
		right = style.Render(p.text)
	}
	gap := p.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

func (p *StatusPanel) SetSize(width, _ int) {
	p.width = width
}

// Typing reports whether the typing indicator is shown.
func (p *StatusPanel) Typing() bool { return p.typing }

// Notice returns the visible status text.
func (p *StatusPanel) Notice() (string, bool) { return p.text, p.visible }
