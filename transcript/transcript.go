// Package transcript keeps the ordered, append-only record of a chat exchange.
package transcript

import (
	"strings"
	"sync"
)

// Role identifies who produced a message.
type Role int

const (
	User Role = iota
	Assistant
)

func (r Role) String() string {
	switch r {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Style classes attached to rendered entries.
const (
	ClassMessage   = "message"
	ClassUser      = "user-message"
	ClassAssistant = "ai-message"
	ClassError     = "error-message"
)

// Message is one transcript entry. IsError marks a failure explanation
// rather than genuine assistant content.
type Message struct {
	Text    string
	Role    Role
	IsError bool
}

// UserMessage creates a user message.
func UserMessage(text string) Message {
	return Message{Text: text, Role: User}
}

// AssistantMessage creates an assistant reply.
func AssistantMessage(text string) Message {
	return Message{Text: text, Role: Assistant}
}

// ErrorMessage creates an assistant-side failure explanation.
func ErrorMessage(text string) Message {
	return Message{Text: text, Role: Assistant, IsError: true}
}

// Classes returns the style classes for m.
func (m Message) Classes() []string {
	classes := []string{ClassMessage, ClassAssistant}
	if m.Role == User {
		classes[1] = ClassUser
	}
	if m.IsError {
		classes = append(classes, ClassError)
	}
	return classes
}

// Lines splits the text on newlines, each becoming a rendered line break.
func (m Message) Lines() []string {
	return strings.Split(m.Text, "\n")
}

// Entry is what a Renderer receives for each appended message.
type Entry struct {
	Index   int
	Message Message
	Classes []string
	Lines   []string
}

// Renderer draws entries into a scrollable viewport.
type Renderer interface {
	Render(entry Entry)
	ScrollToBottom()
}

// Handle refers to an appended entry. Entries are never edited in place.
type Handle struct {
	index int
	msg   Message
}

// Index returns the position of the entry in the log.
func (h Handle) Index() int { return h.index }

// Message returns the appended message.
func (h Handle) Message() Message { return h.msg }

// Log is an append-only transcript bound to an optional Renderer.
type Log struct {
	mu       sync.Mutex
	messages []Message
	renderer Renderer
}

// New creates an empty log. A nil renderer records without drawing.
func New(r Renderer) *Log {
	return &Log{renderer: r}
}

// Append records m, renders it and scrolls the viewport to it.
func (l *Log) Append(m Message) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := len(l.messages)
	l.messages = append(l.messages, m)
	if l.renderer != nil {
		l.renderer.Render(Entry{
			Index:   idx,
			Message: m,
			Classes: m.Classes(),
			Lines:   m.Lines(),
		})
		l.renderer.ScrollToBottom()
	}
	return Handle{index: idx, msg: m}
}

// Messages returns a copy of the recorded messages in order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of recorded messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}
