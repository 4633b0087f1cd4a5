package flow

import "time"

// State is a step of the booking flow.
type State int

const (
	StateBrowsing State = iota
	StateSeatSelection
	StateAwaitingConfirmation
	StateHeld
	StateSimulatedPayment
	StateTicketed
	StateError
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateSeatSelection:
		return "seat_selection"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateHeld:
		return "held"
	case StateSimulatedPayment:
		return "simulated_payment"
	case StateTicketed:
		return "ticketed"
	case StateError:
		return "error"
	}
	return "unknown"
}

// MarshalText renders the state name in JSON views.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Transition records one state change.
type Transition struct {
	From State
	To   State
	At   time.Time
}
