package handler

import (
	"github.com/iliyamo/bus-booking-frontend/internal/flow"
	"github.com/iliyamo/bus-booking-frontend/internal/model"
	"github.com/iliyamo/bus-booking-frontend/internal/seat"
	"github.com/iliyamo/bus-booking-frontend/internal/session"
	"github.com/iliyamo/bus-booking-frontend/internal/ticket"
)

const seatsPerRow = 4

type sessionView struct {
	Status string `json:"status"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

func newSessionView(s *session.Store) sessionView {
	out := sessionView{Status: s.Status().String()}
	if cl, ok := s.Claims(); ok {
		out.UserID = cl.UserID
		out.Email = cl.Email
	}
	return out
}

type tripCard struct {
	ID             string  `json:"id"`
	Company        string  `json:"company"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Departure      string  `json:"departure"`
	Arrival        string  `json:"arrival"`
	Price          string  `json:"price"`
	PriceAmount    float64 `json:"priceAmount"`
	AvailableSeats int     `json:"availableSeats"`
	Link           string  `json:"link"`
}

func newTripCard(t model.Trip) tripCard {
	return tripCard{
		ID:             t.ID,
		Company:        t.CompanyName,
		From:           t.Route.From.Name,
		To:             t.Route.To.Name,
		Departure:      ticket.FormatDateTime(t.DepartureTime),
		Arrival:        ticket.FormatDateTime(t.ExpectedArrivalTime),
		Price:          ticket.FormatVND(t.Price),
		PriceAmount:    t.Price,
		AvailableSeats: t.AvailableSeats,
		Link:           "/trips/" + t.ID,
	}
}

func tripCards(trips []model.Trip) []tripCard {
	out := make([]tripCard, 0, len(trips))
	for _, t := range trips {
		out = append(out, newTripCard(t))
	}
	return out
}

type seatCell struct {
	Number     string           `json:"number"`
	Status     model.SeatStatus `json:"status"`
	Selected   bool             `json:"selected"`
	Selectable bool             `json:"selectable"`
}

type tripView struct {
	State       flow.State   `json:"state"`
	Trip        tripCard     `json:"trip"`
	SeatRows    [][]seatCell `json:"seatRows"`
	Selected    []string     `json:"selectedSeats"`
	Total       string       `json:"total"`
	TotalAmount float64      `json:"totalAmount"`
	Notice      string       `json:"notice,omitempty"`
	CanProceed  bool         `json:"canProceed"`
}

func newTripView(v flow.View) tripView {
	picked := make(map[string]bool, len(v.Selected))
	for _, s := range v.Selected {
		picked[s] = true
	}
	out := tripView{
		State:       v.State,
		Selected:    append([]string{}, v.Selected...),
		Total:       ticket.FormatVND(v.Total),
		TotalAmount: v.Total,
		Notice:      v.Notice,
		CanProceed:  len(v.Selected) > 0,
	}
	if v.Trip == nil {
		return out
	}
	out.Trip = newTripCard(*v.Trip)
	for _, row := range seat.Rows(v.Trip.Seats, seatsPerRow) {
		cells := make([]seatCell, 0, len(row))
		for _, st := range row {
			cells = append(cells, seatCell{
				Number:     st.SeatNumber,
				Status:     st.Status,
				Selected:   picked[st.SeatNumber],
				Selectable: seat.Selectable(st),
			})
		}
		out.SeatRows = append(out.SeatRows, cells)
	}
	return out
}

type confirmView struct {
	State       flow.State               `json:"state"`
	Trip        tripCard                 `json:"trip"`
	Seats       []string                 `json:"seats"`
	Total       string                   `json:"total"`
	TotalAmount float64                  `json:"totalAmount"`
	Payload     flow.ConfirmationPayload `json:"payload"`
	Notice      string                   `json:"notice,omitempty"`
	Busy        bool                     `json:"busy"`
}

func newConfirmView(v flow.View, c flow.Confirmation) confirmView {
	out := confirmView{
		State:       v.State,
		Seats:       c.SeatNumbers(),
		Total:       ticket.FormatVND(c.TotalAmount()),
		TotalAmount: c.TotalAmount(),
		Payload:     c.Payload(),
		Notice:      v.Notice,
		Busy:        v.Busy,
	}
	if t := c.Trip(); t != nil {
		out.Trip = newTripCard(*t)
	}
	return out
}

type bookingItem struct {
	ticket.Summary
	Link string `json:"link"`
	PDF  string `json:"pdf"`
}

func newBookingItem(b model.Booking) bookingItem {
	return bookingItem{
		Summary: ticket.Summarize(b),
		Link:    "/ticket/" + b.ID,
		PDF:     "/ticket/" + b.ID + "/pdf",
	}
}
