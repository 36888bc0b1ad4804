package imap

import (
	"errors"
	"fmt"
)

// Sentinel errors for the taxonomy of spec §7. Use errors.Is against
// these; wrapped forms (ParseError, StateError, ArgumentError,
// NegativeError) carry additional context but still match with Is/As.
var (
	// ErrTimeout is returned when a read exceeds its configured
	// deadline. The session is left in an indeterminate state; callers
	// should not reuse it after seeing this error mid-command.
	ErrTimeout = errors.New("imap: i/o timeout")
	// ErrDisconnected is returned when the peer closed the stream. The
	// session transitions to StateUnconnected.
	ErrDisconnected = errors.New("imap: disconnected")
)

// ParseError reports a malformed response: an unclosed bracket, trailing
// bytes on a response line, a missing continuation '+', or an unexpected
// tag. There is no lenient mode: a tagged line whose tag is not the one
// in flight is always a ParseError. ParseError is fatal to the session.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "imap: protocol parse error: " + e.Msg }

// NewParseError builds a ParseError with a formatted message.
func NewParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// NegativeError wraps a NO or BAD tagged completion for the command that
// was just issued. It is transient: the session remains usable.
type NegativeError struct {
	Response *StatusResponse
}

func (e *NegativeError) Error() string { return e.Response.Error() }

// Unwrap exposes the underlying StatusResponse for errors.As chains that
// want *StatusResponse directly.
func (e *NegativeError) Unwrap() error { return e.Response }

// StateError reports that a verb was issued outside the connection state
// it requires, or that a verb's extension capability is not advertised
// by the server. StateError is non-fatal.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return "imap: " + e.Msg }

// NewStateError builds a StateError with a formatted message.
func NewStateError(format string, args ...interface{}) *StateError {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}

// ArgumentError reports caller-side misuse detected at construction time
// (e.g. a nil stream, or conflicting configuration).
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return "imap: invalid argument: " + e.Msg }

// NewArgumentError builds an ArgumentError with a formatted message.
func NewArgumentError(format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// ErrReleased is returned by any operation on a Session after its stream
// has been released to the caller via Session.Release.
var ErrReleased = &StateError{Msg: "session released, no longer usable"}
