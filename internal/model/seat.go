package model

// SeatStatus is the server-authoritative state of one seat on a trip.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatHeld      SeatStatus = "held"
	SeatBooked    SeatStatus = "booked"
)

// Seat describes one seat in a trip's seat map.  Seat numbers are unique
// within a trip.  The client never changes Status locally; it only tracks
// its own selection of available seats.
//
// Fields:
//  SeatNumber – label printed on the seat (e.g. A1).
//  Status     – available, held or booked.
type Seat struct {
	SeatNumber string     `json:"seatNumber"`
	Status     SeatStatus `json:"status"`
}

// Available reports whether the seat may be selected.
func (s Seat) Available() bool { return s.Status == SeatAvailable }
