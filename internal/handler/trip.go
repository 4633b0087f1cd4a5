package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-frontend/internal/flow"
	"github.com/iliyamo/bus-booking-frontend/internal/web"
)

// Trip opens seat selection for a trip.  Each visit re-fetches the trip and
// starts a fresh selection.
func (h *Handler) Trip(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	if err := v.Flow.OpenTrip(c.Request().Context(), c.Param("id")); err != nil {
		return h.flowError(c, err)
	}
	return c.JSON(http.StatusOK, newTripView(v.Flow.View()))
}

// onTrip reports whether the visitor is selecting seats on trip id.
func onTrip(v *web.Visitor, id string) bool {
	fv := v.Flow.View()
	return fv.State == flow.StateSeatSelection && fv.Trip != nil && fv.Trip.ID == id
}

// ToggleSeat adds or removes one seat.
func (h *Handler) ToggleSeat(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	if !onTrip(v, c.Param("id")) {
		return h.flowError(c, flow.ErrWrongState)
	}
	if _, err := v.Flow.ToggleSeat(c.Param("seat")); err != nil {
		return h.flowError(c, err)
	}
	return c.JSON(http.StatusOK, newTripView(v.Flow.View()))
}

// Proceed moves the selection to confirmation, prompting for login when
// the visitor is anonymous.
func (h *Handler) Proceed(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	if !onTrip(v, c.Param("id")) {
		return h.flowError(c, flow.ErrWrongState)
	}
	conf, err := v.Flow.Proceed()
	if err != nil {
		return h.flowError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"state":        v.Flow.State(),
		"next":         "/booking/confirm",
		"confirmation": newConfirmView(v.Flow.View(), conf),
	})
}
