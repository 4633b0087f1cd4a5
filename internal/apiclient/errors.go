package apiclient

import (
	"errors"
	"fmt"
)

// ErrNoSeats is returned by CreateBooking when no seat numbers are given.
// No request is sent in that case.
var ErrNoSeats = errors.New("apiclient: at least one seat is required")

// Kind classifies why a gateway call failed.
type Kind int

const (
	// KindTransport: the API could not be reached or its answer could not
	// be read.  Retrying the same action is safe.
	KindTransport Kind = iota + 1
	// KindUnauthorized: the API rejected the bearer credential (401).
	KindUnauthorized
	// KindRejected: the API refused the operation and said why.
	KindRejected
	// KindServer: the API failed (5xx) without an explanation.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindRejected:
		return "rejected"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is the structured failure returned by every gateway call.  Message
// is safe to show to the user: for rejections it is the server's text,
// verbatim.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("apiclient: %s: %s (%d %s)", e.Op, e.Message, e.Status, e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("apiclient: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("apiclient: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a gateway error, or 0 when err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsTransport(err error) bool    { return KindOf(err) == KindTransport }
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
func IsRejected(err error) bool     { return KindOf(err) == KindRejected }

// UserMessage returns the text to show for err.  Gateway errors carry
// their own message; anything else gets the generic transport text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if errors.Is(err, ErrNoSeats) {
		return MsgNoSeats
	}
	return MsgTransport
}
