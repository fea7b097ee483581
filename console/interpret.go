package console

import (
	"errors"
	"strings"

	"github.com/linanwx/nagochat/responder"
	"github.com/linanwx/nagochat/transcript"
)

// Labels prefix the failure entries shown in the transcript.
type Labels struct {
	System      string // request never completed
	Rejected    string // responder answered with a failure status
	Error       string // responder reported an error in a success payload
	ServerError string // description when a rejection carries none
}

// EnglishLabels is the default label set.
var EnglishLabels = Labels{
	System:      "System error: ",
	Rejected:    "Request rejected: ",
	Error:       "Error: ",
	ServerError: "server error",
}

// ChineseLabels is the Simplified Chinese label set.
var ChineseLabels = Labels{
	System:      "系统错误：",
	Rejected:    "请求被拒绝：",
	Error:       "错误：",
	ServerError: "服务器错误",
}

// LabelsFor returns the label set for a locale ("en", "zh").
func LabelsFor(locale string) Labels {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "zh", "zh-cn", "zh_cn", "cn":
		return ChineseLabels
	default:
		return EnglishLabels
	}
}

// Kind classifies how an exchange ended.
type Kind int

const (
	KindReply Kind = iota
	KindTransport
	KindRejected
	KindReported
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindReply:
		return "reply"
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindReported:
		return "reported"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Outcome is the interpreted result of one exchange. Message is meaningful
// only when Append is true.
type Outcome struct {
	Kind    Kind
	Message transcript.Message
	Append  bool
}

// Interpret turns a settled request into at most one transcript entry.
// Any error that is not a *responder.RejectedError counts as a transport
// failure.
func Interpret(reply *responder.Reply, err error, labels Labels) Outcome {
	if err != nil {
		var rejected *responder.RejectedError
		if errors.As(err, &rejected) {
			desc := rejected.Description
			if desc == "" {
				desc = labels.ServerError
			}
			return Outcome{Kind: KindRejected, Message: transcript.ErrorMessage(labels.Rejected + desc), Append: true}
		}
		return Outcome{Kind: KindTransport, Message: transcript.ErrorMessage(labels.System + err.Error()), Append: true}
	}
	if reply == nil {
		return Outcome{Kind: KindEmpty}
	}
	if reply.Response != "" {
		return Outcome{Kind: KindReply, Message: transcript.AssistantMessage(reply.Response), Append: true}
	}
	if reply.Error != "" {
		return Outcome{Kind: KindReported, Message: transcript.ErrorMessage(labels.Error + reply.Error), Append: true}
	}
	return Outcome{Kind: KindEmpty}
}
