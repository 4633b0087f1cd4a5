package flow

import (
	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

// ConfirmationPayload is the navigation message carried from seat
// selection to the confirmation step.  Every field is required; pointers
// distinguish "missing" from zero.
type ConfirmationPayload struct {
	TripID      string      `json:"tripId"`
	Trip        *model.Trip `json:"tripDetails"`
	SeatNumbers []string    `json:"selectedSeatNumbers"`
	TotalAmount *float64    `json:"totalAmount"`
}

// Confirmation validates the payload.  A nil payload means the step was
// reached without any context; a payload with a missing field is invalid.
// Neither is rendered partially.
func (p *ConfirmationPayload) Confirmation() (Confirmation, error) {
	if p == nil {
		return Confirmation{}, ErrMissingContext
	}
	if p.TripID == "" || p.Trip == nil || len(p.SeatNumbers) == 0 || p.TotalAmount == nil {
		return Confirmation{}, ErrInvalidConfirmation
	}
	seats := make([]string, len(p.SeatNumbers))
	copy(seats, p.SeatNumbers)
	return Confirmation{tripID: p.TripID, trip: p.Trip, seats: seats, total: *p.TotalAmount}, nil
}

// Confirmation is the immutable booking request shown for approval: trip,
// chosen seats and the total computed at selection time.
type Confirmation struct {
	tripID string
	trip   *model.Trip
	seats  []string
	total  float64
}

func (c Confirmation) TripID() string { return c.tripID }

// Trip is the snapshot taken when seats were chosen.  Callers must not
// modify it.
func (c Confirmation) Trip() *model.Trip { return c.trip }

// SeatNumbers returns a copy of the selected seats.
func (c Confirmation) SeatNumbers() []string {
	out := make([]string, len(c.seats))
	copy(out, c.seats)
	return out
}

func (c Confirmation) TotalAmount() float64 { return c.total }

// Payload converts the confirmation back into its navigation form.
func (c Confirmation) Payload() ConfirmationPayload {
	total := c.total
	return ConfirmationPayload{
		TripID:      c.tripID,
		Trip:        c.trip,
		SeatNumbers: c.SeatNumbers(),
		TotalAmount: &total,
	}
}

// Hold is the context carried from a successful seat hold into payment.
type Hold struct {
	BookingID     string              `json:"bookingId"`
	TotalAmount   float64             `json:"totalAmount"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
}
