package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

// CreateBookingRequest is the body of POST /bookings: a hold on the given
// seats of one trip.
type CreateBookingRequest struct {
	TripID      string   `json:"tripId"`
	SeatNumbers []string `json:"seatNumbers"`
}

// CreateBooking places a seat hold.  Success is decided only by the
// presence of a booking id in the response; any other answer is a
// rejection whose message is the server's, verbatim.  An empty seat list is
// rejected with ErrNoSeats before any request is made.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	if len(req.SeatNumbers) == 0 {
		return nil, ErrNoSeats
	}
	env, status, err := call[model.Booking](ctx, c, "create_booking", http.MethodPost, "/bookings", nil, req)
	if err != nil {
		return nil, err
	}
	if env.Data != nil && env.Data.ID != "" {
		return env.Data, nil
	}
	if status == http.StatusUnauthorized || (status >= 500 && env.Error == "" && env.Message == "") {
		return nil, statusError("create_booking", status, env.Error, env.Message)
	}
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	if msg == "" {
		msg = MsgHoldFailed
	}
	return nil, &Error{Op: "create_booking", Kind: KindRejected, Status: status, Message: msg}
}

// GetBookingDetails fetches one booking of the current user.  A booking
// that does not exist, or is not visible to this user, yields (nil, nil).
func (c *Client) GetBookingDetails(ctx context.Context, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, nil
	}
	env, status, err := call[model.Booking](ctx, c, "get_booking", http.MethodGet, "/bookings/"+url.PathEscape(bookingID), nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status >= 400 {
		return nil, statusError("get_booking", status, env.Error, env.Message)
	}
	if env.Data == nil || env.Data.ID == "" {
		return nil, nil
	}
	return env.Data, nil
}

// GetMyBookings lists every booking owned by the session's user.
func (c *Client) GetMyBookings(ctx context.Context) ([]model.Booking, error) {
	env, status, err := call[[]model.Booking](ctx, c, "my_bookings", http.MethodGet, "/bookings/my", nil, nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, statusError("my_bookings", status, env.Error, env.Message)
	}
	if env.Data == nil {
		return []model.Booking{}, nil
	}
	return *env.Data, nil
}
