// Package handler renders the booking flow steps as JSON views.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
	"github.com/iliyamo/bus-booking-frontend/internal/flow"
	"github.com/iliyamo/bus-booking-frontend/internal/middleware"
	"github.com/iliyamo/bus-booking-frontend/internal/web"
)

// Handler serves the flow views.  CatalogAPI is an anonymous API client
// shared by all visitors for the public trip listing.
type Handler struct {
	CatalogAPI           *apiclient.Client
	PaymentRedirectDelay time.Duration
	ErrorRedirectDelay   time.Duration
	Log                  *slog.Logger
}

func New(catalog *apiclient.Client, paymentRedirect, errorRedirect time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		CatalogAPI:           catalog,
		PaymentRedirectDelay: paymentRedirect,
		ErrorRedirectDelay:   errorRedirect,
		Log:                  logger,
	}
}

const escapeHome = "/"

func visitorOf(c echo.Context) (*web.Visitor, error) {
	v := middleware.VisitorFrom(c)
	if v == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "visitor middleware not installed")
	}
	return v, nil
}

// errorView is the shape of every failure: a message and a way back.
func errorView(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg, "escape": escapeHome})
}

func loginPrompt(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error":     msg,
		"escape":    escapeHome,
		"showLogin": true,
		"login":     middleware.LoginURL,
	})
}

// flowError renders an error returned by the flow controller.
func (h *Handler) flowError(c echo.Context, err error) error {
	var ferr *flow.Error
	switch {
	case errors.As(err, &ferr):
		body := echo.Map{"error": ferr.Message, "escape": ferr.Escape, "kind": ferr.Kind}
		status := http.StatusBadGateway
		switch ferr.Kind {
		case flow.KindNotFound:
			status = http.StatusNotFound
		case flow.KindRejected:
			status = http.StatusConflict
		case flow.KindInvalidState:
			status = http.StatusBadRequest
			body["redirect"] = escapeHome
			body["redirectAfterMs"] = h.ErrorRedirectDelay.Milliseconds()
		case flow.KindUnauthorized:
			return loginPrompt(c, ferr.Message)
		case flow.KindPayment:
			status = http.StatusPaymentRequired
		}
		return c.JSON(status, body)
	case errors.Is(err, flow.ErrAuthRequired):
		return loginPrompt(c, flow.MsgLoginRequired)
	case errors.Is(err, flow.ErrNoSeatsSelected):
		return errorView(c, http.StatusUnprocessableEntity, flow.MsgSelectSeat)
	case errors.Is(err, flow.ErrSeatUnavailable):
		return errorView(c, http.StatusConflict, flow.MsgSeatUnavailable)
	case errors.Is(err, flow.ErrWrongState), errors.Is(err, flow.ErrStale), errors.Is(err, flow.ErrBusy):
		return errorView(c, http.StatusConflict, msgWrongStep)
	}
	h.Log.Error("unexpected flow error", "path", c.Path(), "error", err)
	return errorView(c, http.StatusInternalServerError, apiclient.MsgTransport)
}

const (
	msgNoTrips     = "Không có chuyến đi nào được tìm thấy."
	msgNoBookings  = "Bạn chưa có giao dịch đặt vé nào."
	msgWrongStep   = "Thao tác không hợp lệ ở bước hiện tại. Vui lòng tải lại trang."
	msgLoggedOut   = "Đã đăng xuất."
	msgInvalidBody = "Dữ liệu gửi lên không hợp lệ."
	msgCredentials = "Vui lòng nhập email và mật khẩu."
	msgSimulated   = "Đây là trang giả lập thanh toán."
	msgPaying      = "Đang xử lý thanh toán, vé sẽ sẵn sàng ngay sau đó."
)
