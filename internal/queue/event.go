// Package queue carries booking flow events over RabbitMQ and keeps an
// activity log of them.
package queue

const (
	BookingHeldQueue  = "booking.held"
	TicketIssuedQueue = "ticket.issued"
)

// BookingHeldEvent is published when the API accepts a seat hold.
type BookingHeldEvent struct {
	BookingID   string   `json:"booking_id"`
	UserID      string   `json:"user_id"`
	TripID      string   `json:"trip_id"`
	CompanyName string   `json:"company_name"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	DepartsAt   string   `json:"departs_at"`
	SeatNumbers []string `json:"seats"`
	TotalAmount float64  `json:"total_amount"`
	HeldAt      string   `json:"held_at"`
}

// TicketIssuedEvent is published once the ticket of a paid booking has
// been fetched for display.
type TicketIssuedEvent struct {
	BookingID   string   `json:"booking_id"`
	UserID      string   `json:"user_id"`
	TicketCode  string   `json:"ticket_code"`
	Status      string   `json:"status"`
	SeatNumbers []string `json:"seats"`
	TotalAmount float64  `json:"total_amount"`
	IssuedAt    string   `json:"issued_at"`
}
