package flow

import (
	"errors"
	"fmt"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
)

var (
	// ErrAuthRequired: the step needs a logged-in session.  The state does
	// not change; the caller shows the login prompt.
	ErrAuthRequired = errors.New("flow: authentication required")
	// ErrNoSeatsSelected: proceed was requested with an empty selection.
	ErrNoSeatsSelected = errors.New("flow: no seats selected")
	// ErrSeatUnavailable: the seat is unknown or not available.
	ErrSeatUnavailable = errors.New("flow: seat not available")
	// ErrWrongState: the action does not apply to the current step.
	ErrWrongState = errors.New("flow: action not allowed in current state")
	// ErrBusy: a request for this flow is already in flight.
	ErrBusy = errors.New("flow: request in progress")
	// ErrStale: the result arrived after the user navigated elsewhere and
	// was dropped.
	ErrStale = errors.New("flow: result discarded after navigation")
	// ErrMissingContext: a step was entered without its navigation payload.
	ErrMissingContext = errors.New("flow: navigation context missing")
	// ErrInvalidConfirmation: the confirmation payload lacks a field.
	ErrInvalidConfirmation = errors.New("flow: confirmation payload incomplete")
)

// ErrorKind classifies a flow failure for rendering.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindRejected
	KindTransport
	KindInvalidState
	KindUnauthorized
	KindPayment
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRejected:
		return "rejected"
	case KindTransport:
		return "transport"
	case KindInvalidState:
		return "invalid_state"
	case KindUnauthorized:
		return "unauthorized"
	case KindPayment:
		return "payment"
	}
	return "unknown"
}

// MarshalText renders the kind name in JSON views.
func (k ErrorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Error is a failure shown to the user.  Message is displayable as is and
// Escape is where the "go back" action leads.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Escape  string    `json:"escape"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flow: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("flow: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// gatewayError maps a gateway failure onto a flow Error.
func gatewayError(err error) *Error {
	kind := KindTransport
	switch apiclient.KindOf(err) {
	case apiclient.KindRejected:
		kind = KindRejected
	case apiclient.KindUnauthorized:
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, Message: apiclient.UserMessage(err), Escape: "/", Err: err}
}
