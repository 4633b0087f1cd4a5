package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

// TripQuery filters the trip catalog.  Date is YYYY-MM-DD.
type TripQuery struct {
	From string
	To   string
	Date string
}

func (q TripQuery) values() url.Values {
	v := url.Values{}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	return v
}

// SearchTrips lists trips matching q.  No match is an empty slice, never
// an error.
func (c *Client) SearchTrips(ctx context.Context, q TripQuery) ([]model.Trip, error) {
	return c.listTrips(ctx, "search_trips", q.values())
}

// GetAllTrips lists the unfiltered catalog for the landing view.
func (c *Client) GetAllTrips(ctx context.Context) ([]model.Trip, error) {
	return c.listTrips(ctx, "list_trips", nil)
}

func (c *Client) listTrips(ctx context.Context, op string, q url.Values) ([]model.Trip, error) {
	env, status, err := call[[]model.Trip](ctx, c, op, http.MethodGet, "/trips", q, nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, statusError(op, status, env.Error, env.Message)
	}
	if env.Data == nil {
		return []model.Trip{}, nil
	}
	return *env.Data, nil
}

// GetTripDetails fetches one trip.  A trip that does not exist yields
// (nil, nil).
func (c *Client) GetTripDetails(ctx context.Context, tripID string) (*model.Trip, error) {
	if tripID == "" {
		return nil, nil
	}
	env, status, err := call[model.Trip](ctx, c, "get_trip", http.MethodGet, "/trips/"+url.PathEscape(tripID), nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status >= 400 {
		return nil, statusError("get_trip", status, env.Error, env.Message)
	}
	return env.Data, nil
}
