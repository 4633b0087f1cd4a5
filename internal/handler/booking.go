package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
	"github.com/iliyamo/bus-booking-frontend/internal/flow"
	"github.com/iliyamo/bus-booking-frontend/internal/middleware"
	"github.com/iliyamo/bus-booking-frontend/internal/model"
	"github.com/iliyamo/bus-booking-frontend/internal/ticket"
)

// ConfirmPage shows the pending booking for approval.  Reaching it without
// a selection is an invalid navigation that returns home after a delay.
func (h *Handler) ConfirmPage(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	conf, err := v.Flow.EnterConfirmation(nil)
	if err != nil {
		return h.flowError(c, err)
	}
	return c.JSON(http.StatusOK, newConfirmView(v.Flow.View(), conf))
}

// Confirm places the seat hold.  A rejection keeps the visitor on the
// confirmation step with the server's message.
func (h *Handler) Confirm(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	hold, err := v.Flow.Confirm(c.Request().Context())
	if err != nil {
		return h.flowError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"state":   v.Flow.State(),
		"message": flow.MsgHoldSucceeded,
		"hold":    hold,
		"next":    "/payment/" + hold.BookingID,
	})
}

// Payment reports the simulated payment of a held booking.
func (h *Handler) Payment(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	id := c.Param("bookingId")
	if err := v.Flow.ResumePayment(id); err != nil {
		return h.flowError(c, err)
	}

	fv := v.Flow.View()
	body := echo.Map{"state": fv.State, "bookingId": id}
	if fv.Hold != nil {
		body["total"] = ticket.FormatVND(fv.Hold.TotalAmount)
		body["totalAmount"] = fv.Hold.TotalAmount
	}
	switch {
	case fv.State == flow.StateTicketed || (fv.Hold != nil && fv.Hold.PaymentStatus == model.PaymentPaid):
		body["payment"] = "success"
		body["message"] = fmt.Sprintf("Booking #%s của bạn đã được xác nhận.", id)
		body["redirect"] = "/ticket/" + id
		body["redirectAfterMs"] = h.PaymentRedirectDelay.Milliseconds()
	default:
		body["payment"] = "processing"
		body["message"] = msgSimulated
	}
	return c.JSON(http.StatusOK, body)
}

// Ticket shows a booking's e-ticket.
func (h *Handler) Ticket(c echo.Context) error {
	b, err := h.openTicket(c)
	if err != nil || b == nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"state":   flow.StateTicketed,
		"ticket":  newBookingItem(*b),
		"payment": "Đã thanh toán (Giả lập)",
		"links":   echo.Map{"history": "/my-bookings", "home": "/"},
	})
}

// TicketPDF serves the printable e-ticket.
func (h *Handler) TicketPDF(c echo.Context) error {
	b, err := h.openTicket(c)
	if err != nil || b == nil {
		return err
	}
	data, name, err := ticket.RenderPDF(*b)
	if err != nil {
		h.Log.Error("render ticket pdf", "op", "handler.TicketPDF", "booking_id", b.ID, "error", err)
		return errorView(c, http.StatusInternalServerError, "Không thể tạo vé PDF.")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, name))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// openTicket loads the ticket into the visitor's flow.  On failure the
// error view has already been written and the booking is nil.
func (h *Handler) openTicket(c echo.Context) (*model.Booking, error) {
	v, err := visitorOf(c)
	if err != nil {
		return nil, err
	}
	if err := v.Flow.OpenTicket(c.Request().Context(), c.Param("bookingId")); err != nil {
		return nil, h.flowError(c, err)
	}
	fv := v.Flow.View()
	if fv.Ticket == nil && (fv.State == flow.StateHeld || fv.State == flow.StateSimulatedPayment) {
		return nil, c.JSON(http.StatusAccepted, echo.Map{
			"state":    fv.State,
			"notice":   msgPaying,
			"redirect": "/payment/" + c.Param("bookingId"),
		})
	}
	if fv.Ticket == nil {
		return nil, h.flowError(c, flow.ErrWrongState)
	}
	return fv.Ticket, nil
}

// MyBookings lists the visitor's bookings, newest first as the API sends
// them.
func (h *Handler) MyBookings(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	bookings, err := v.API.GetMyBookings(c.Request().Context())
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error":  apiclient.UserMessage(err),
				"escape": escapeHome,
				"login":  middleware.LoginURL,
			})
		}
		return errorView(c, http.StatusBadGateway, apiclient.UserMessage(err))
	}

	items := make([]bookingItem, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, newBookingItem(b))
	}
	body := echo.Map{"bookings": items}
	if len(items) == 0 {
		body["info"] = msgNoBookings
	}
	return c.JSON(http.StatusOK, body)
}
