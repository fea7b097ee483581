package responder

import (
	"errors"
	"fmt"
)

// ErrInvalidReply reports a reply body that is not JSON.
var ErrInvalidReply = errors.New("reply is not valid JSON")

// TransportError means no usable response was obtained: the request never
// completed, or the reply body could not be decoded.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError means the responder answered with a non-success status.
// Description holds the payload's error field when one was supplied.
type RejectedError struct {
	Status      int
	Description string
}

func (e *RejectedError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return fmt.Sprintf("status %d", e.Status)
}
