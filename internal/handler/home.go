package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

func tripQuery(c echo.Context) apiclient.TripQuery {
	return apiclient.TripQuery{
		From: strings.TrimSpace(c.QueryParam("from")),
		To:   strings.TrimSpace(c.QueryParam("to")),
		Date: strings.TrimSpace(c.QueryParam("date")),
	}
}

func listTrips(c echo.Context, api *apiclient.Client, q apiclient.TripQuery) ([]model.Trip, error) {
	if q == (apiclient.TripQuery{}) {
		return api.GetAllTrips(c.Request().Context())
	}
	return api.SearchTrips(c.Request().Context(), q)
}

// Home is the browsing step: the trip list, filtered when search criteria
// are given.  Landing here abandons any flow in progress.
func (h *Handler) Home(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	v.Flow.Reset()

	q := tripQuery(c)
	trips, err := listTrips(c, v.API, q)
	if err != nil {
		h.Log.Warn("trip search failed", "op", "handler.Home", "error", err)
		return errorView(c, http.StatusBadGateway, apiclient.UserMessage(err))
	}

	body := echo.Map{
		"state":     v.Flow.State(),
		"session":   newSessionView(v.Session),
		"query":     q,
		"trips":     tripCards(trips),
		"showLogin": c.QueryParam("showLogin") == "true",
	}
	if len(trips) == 0 {
		body["info"] = msgNoTrips
	}
	return c.JSON(http.StatusOK, body)
}

// Catalog is the public trip listing shared by all visitors; responses are
// cacheable because they carry no visitor state.
func (h *Handler) Catalog(c echo.Context) error {
	q := tripQuery(c)
	trips, err := listTrips(c, h.CatalogAPI, q)
	if err != nil {
		return errorView(c, http.StatusBadGateway, apiclient.UserMessage(err))
	}
	body := echo.Map{"query": q, "trips": tripCards(trips)}
	if len(trips) == 0 {
		body["info"] = msgNoTrips
	}
	return c.JSON(http.StatusOK, body)
}
