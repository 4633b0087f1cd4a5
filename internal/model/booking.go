package model

import "time"

// BookingStatus is the lifecycle state of a booking on the server.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingHeld      BookingStatus = "held"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
)

// PaymentStatus is the optional payment state attached to a booking.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Passenger is one traveller on a booking.  SeatNumber always matches one
// of the seats selected when the booking was created.
type Passenger struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	SeatNumber string `json:"seatNumber"`
}

// Booking is the client's read-only projection of a booking created by
// the server in response to a hold request.
//
// Fields:
//  ID            – booking identifier.
//  UserID        – owner of the booking.
//  TripID        – trip the seats belong to.
//  BookingTime   – when the hold was placed.
//  Status        – pending, held, confirmed, cancelled or expired.
//  HeldUntil     – hold expiry, if the server reports one.
//  PaymentStatus – pending, paid or failed, if reported.
//  TotalAmount   – price × passenger count at creation time.
//  Passengers    – one entry per held seat.
//  TicketCode    – short code shown to the traveller, once issued.
//  TripInfo      – denormalized trip snapshot for display.
type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	TripID        string        `json:"tripId"`
	BookingTime   time.Time     `json:"bookingTime"`
	Status        BookingStatus `json:"status"`
	HeldUntil     *time.Time    `json:"heldUntil,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	TotalAmount   float64       `json:"totalAmount"`
	Passengers    []Passenger   `json:"passengers"`
	TicketCode    string        `json:"ticketCode,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	TripInfo      *Trip         `json:"tripInfo,omitempty"`
}

// SeatNumbers lists the seats of every passenger, in booking order.
func (b *Booking) SeatNumbers() []string {
	out := make([]string, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		out = append(out, p.SeatNumber)
	}
	return out
}
