package transcript

import (
	"reflect"
	"testing"
)

type recordingRenderer struct {
	calls   []string
	entries []Entry
}

func (r *recordingRenderer) Render(e Entry) {
	r.calls = append(r.calls, "render")
	r.entries = append(r.entries, e)
}

func (r *recordingRenderer) ScrollToBottom() {
	r.calls = append(r.calls, "scroll")
}

func TestAppendRendersThenScrolls(t *testing.T) {
	r := &recordingRenderer{}
	log := New(r)

	h1 := log.Append(UserMessage("hello\nworld"))
	h2 := log.Append(ErrorMessage("System error: boom"))

	if h1.Index() != 0 || h2.Index() != 1 {
		t.Fatalf("handle indexes = %d, %d; want 0, 1", h1.Index(), h2.Index())
	}
	if h2.Message().Text != "System error: boom" {
		t.Fatalf("handle message = %+v", h2.Message())
	}

	wantCalls := []string{"render", "scroll", "render", "scroll"}
	if !reflect.DeepEqual(r.calls, wantCalls) {
		t.Fatalf("renderer calls = %v, want %v", r.calls, wantCalls)
	}

	if got := r.entries[0].Lines; !reflect.DeepEqual(got, []string{"hello", "world"}) {
		t.Fatalf("entry lines = %q, want newline split", got)
	}
	if got := r.entries[0].Classes; !reflect.DeepEqual(got, []string{ClassMessage, ClassUser}) {
		t.Fatalf("user classes = %v", got)
	}
	if got := r.entries[1].Classes; !reflect.DeepEqual(got, []string{ClassMessage, ClassAssistant, ClassError}) {
		t.Fatalf("error classes = %v", got)
	}
}

func TestMessagesIsACopy(t *testing.T) {
	log := New(nil)
	log.Append(UserMessage("a"))
	log.Append(AssistantMessage("b"))

	msgs := log.Messages()
	msgs[0].Text = "mutated"

	if got := log.Messages()[0].Text; got != "a" {
		t.Fatalf("stored message changed to %q", got)
	}
	if log.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", log.Len())
	}
}

func TestRoleString(t *testing.T) {
	if User.String() != "user" || Assistant.String() != "assistant" || Role(9).String() != "unknown" {
		t.Fatal("unexpected role names")
	}
}
