package model

import "time"

// Location is a named stop on a route.
type Location struct {
	Name string `json:"name"`
}

// Route links the origin and destination of a trip.
type Route struct {
	From Location `json:"from"`
	To   Location `json:"to"`
}

// Trip is one scheduled departure as returned by the catalog API.  Trips
// are immutable once fetched and are re-fetched for every view; nothing in
// this module caches them.
//
// Fields:
//  ID                  – trip identifier.
//  CompanyName         – carrier operating the trip.
//  Route               – origin and destination names.
//  DepartureTime       – scheduled departure.
//  ExpectedArrivalTime – scheduled arrival.
//  Price               – price of one seat, in VND.
//  Seats               – seat map in display order.
//  AvailableSeats      – number of seats currently available.
type Trip struct {
	ID                  string    `json:"id"`
	CompanyName         string    `json:"companyName"`
	Route               Route     `json:"route"`
	DepartureTime       time.Time `json:"departureTime"`
	ExpectedArrivalTime time.Time `json:"expectedArrivalTime"`
	Price               float64   `json:"price"`
	Seats               []Seat    `json:"seats"`
	AvailableSeats      int       `json:"availableSeats"`
}

// Seat returns the seat with the given number and whether it exists.
func (t *Trip) Seat(number string) (Seat, bool) {
	for _, s := range t.Seats {
		if s.SeatNumber == number {
			return s, true
		}
	}
	return Seat{}, false
}
