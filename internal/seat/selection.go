// Package seat tracks which seats of one trip the current user has picked.
package seat

import (
	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

// Selection is the set of seat numbers chosen for one trip, kept in the
// order they were picked.  It lives for one trip-viewing session and is not
// persisted.  Selection does not look at seat status; callers must check
// Selectable before toggling a seat on.
type Selection struct {
	price float64
	order []string
	index map[string]struct{}
}

// NewSelection returns an empty selection priced at price per seat.
func NewSelection(price float64) *Selection {
	return &Selection{price: price, index: make(map[string]struct{})}
}

// Toggle removes seatNumber when already selected and adds it otherwise.
// It reports whether the seat is selected after the call.
func (s *Selection) Toggle(seatNumber string) bool {
	if _, ok := s.index[seatNumber]; ok {
		delete(s.index, seatNumber)
		for i, n := range s.order {
			if n == seatNumber {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.index[seatNumber] = struct{}{}
	s.order = append(s.order, seatNumber)
	return true
}

// Contains reports whether seatNumber is selected.
func (s *Selection) Contains(seatNumber string) bool {
	_, ok := s.index[seatNumber]
	return ok
}

// Seats returns a copy of the selected seat numbers in pick order.
func (s *Selection) Seats() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len is the number of selected seats.
func (s *Selection) Len() int { return len(s.order) }

// Price is the per-seat price the total is computed from.
func (s *Selection) Price() float64 { return s.price }

// Total is Len × price.
func (s *Selection) Total() float64 { return float64(len(s.order)) * s.price }

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = nil
	s.index = make(map[string]struct{})
}

// Selectable reports whether a seat may be added to a selection.  Held and
// booked seats never are.
func Selectable(st model.Seat) bool { return st.Available() }

// Rows splits a seat map into display rows of perRow seats.
func Rows(seats []model.Seat, perRow int) [][]model.Seat {
	if perRow < 1 {
		perRow = 1
	}
	rows := make([][]model.Seat, 0, (len(seats)+perRow-1)/perRow)
	for i := 0; i < len(seats); i += perRow {
		end := i + perRow
		if end > len(seats) {
			end = len(seats)
		}
		rows = append(rows, seats[i:end])
	}
	return rows
}
