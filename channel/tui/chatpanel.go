package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/nagochat/logger"
	"github.com/linanwx/nagochat/transcript"
)

var (
	userMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	errorMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
)

// ChatPanel displays the transcript in a scrollable viewport.
type ChatPanel struct {
	viewport viewport.Model
	entries  []transcript.Entry
	markdown bool
	md       *glamour.TermRenderer
	mdWidth  int

	newRenderer func(width int) (*glamour.TermRenderer, error)

	// Render failures are logged from a command, never on the event loop.
	failures []renderFailure
}

type renderFailure struct {
	msg  string
	err  error
	warn bool
}

// NewChatPanel creates a chat panel. With markdown set, assistant replies
// are rendered through glamour.
func NewChatPanel(markdown bool) *ChatPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &ChatPanel{viewport: vp, markdown: markdown, newRenderer: newMarkdownRenderer}
}

func newMarkdownRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
}

func (p *ChatPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case EntryMsg:
		p.entries = append(p.entries, msg.Entry)
		p.refresh()
		return p, nil
	case ScrollMsg:
		p.viewport.GotoBottom()
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *ChatPanel) View() string {
	return p.viewport.View()
}

func (p *ChatPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	p.refresh()
}

// Len returns the number of entries shown.
func (p *ChatPanel) Len() int { return len(p.entries) }

// takeFailures returns a command that logs pending render failures, or nil.
func (p *ChatPanel) takeFailures() tea.Cmd {
	if len(p.failures) == 0 {
		return nil
	}
	failures := p.failures
	p.failures = nil
	return func() tea.Msg {
		for _, f := range failures {
			if f.warn {
				logger.Warn(f.msg, "err", f.err)
			} else {
				logger.Debug(f.msg, "err", f.err)
			}
		}
		return nil
	}
}

func (p *ChatPanel) refresh() {
	blocks := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		blocks = append(blocks, p.renderEntry(e))
	}
	p.viewport.SetContent(strings.Join(blocks, "\n"))
}

func (p *ChatPanel) renderEntry(e transcript.Entry) string {
	switch {
	case slices.Contains(e.Classes, transcript.ClassError):
		return errorMsgStyle.Render(strings.Join(e.Lines, "\n"))
	case slices.Contains(e.Classes, transcript.ClassUser):
		return userMsgStyle.Render("> " + strings.Join(e.Lines, "\n  "))
	}
	if p.markdown {
		if out, ok := p.renderMarkdown(e.Message.Text); ok {
			return strings.TrimRight(out, "\n")
		}
	}
	return strings.Join(e.Lines, "\n")
}

func (p *ChatPanel) renderMarkdown(text string) (string, bool) {
	width := max(p.viewport.Width, 20)
	if p.md == nil || p.mdWidth != width {
		r, err := p.newRenderer(width)
		if err != nil {
			p.failures = append(p.failures, renderFailure{msg: "markdown renderer unavailable", err: err, warn: true})
			p.markdown = false
			return "", false
		}
		p.md, p.mdWidth = r, width
	}
	out, err := p.md.Render(text)
	if err != nil {
		p.failures = append(p.failures, renderFailure{msg: "markdown render failed", err: err})
		return "", false
	}
	return out, true
}
