package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-frontend/internal/flow"
)

func TestFlowErrorStatus(t *testing.T) {
	h := New(nil, time.Second, 3*time.Second, nil)
	cases := []struct {
		err  error
		want int
	}{
		{&flow.Error{Kind: flow.KindNotFound, Message: "x", Escape: "/"}, http.StatusNotFound},
		{&flow.Error{Kind: flow.KindRejected, Message: "x", Escape: "/"}, http.StatusConflict},
		{&flow.Error{Kind: flow.KindTransport, Message: "x", Escape: "/"}, http.StatusBadGateway},
		{&flow.Error{Kind: flow.KindInvalidState, Message: "x", Escape: "/"}, http.StatusBadRequest},
		{&flow.Error{Kind: flow.KindUnauthorized, Message: "x", Escape: "/"}, http.StatusUnauthorized},
		{&flow.Error{Kind: flow.KindPayment, Message: "x", Escape: "/"}, http.StatusPaymentRequired},
		{flow.ErrAuthRequired, http.StatusUnauthorized},
		{flow.ErrNoSeatsSelected, http.StatusUnprocessableEntity},
		{fmt.Errorf("seat Z9: %w", flow.ErrSeatUnavailable), http.StatusConflict},
		{flow.ErrStale, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := h.flowError(c, tc.err); err != nil {
			t.Fatalf("%v: %v", tc.err, err)
		}
		if rec.Code != tc.want {
			t.Errorf("%v: status %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}
