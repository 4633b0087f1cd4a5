// Package flow drives one visitor through trip selection, seat hold,
// simulated payment and ticket display.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
	"github.com/iliyamo/bus-booking-frontend/internal/clock"
	"github.com/iliyamo/bus-booking-frontend/internal/metrics"
	"github.com/iliyamo/bus-booking-frontend/internal/model"
	"github.com/iliyamo/bus-booking-frontend/internal/seat"
)

const (
	DefaultPaymentDelay  = 3 * time.Second
	DefaultRedirectDelay = 3 * time.Second
	DefaultFetchTimeout  = 10 * time.Second
)

// Gateway is the part of the REST client the flow calls.
type Gateway interface {
	GetTripDetails(ctx context.Context, tripID string) (*model.Trip, error)
	CreateBooking(ctx context.Context, req apiclient.CreateBookingRequest) (*model.Booking, error)
	GetBookingDetails(ctx context.Context, bookingID string) (*model.Booking, error)
}

// Authenticator reports whether the visitor holds a credential.
type Authenticator interface {
	Authenticated() bool
}

// Notifier is told about holds and issued tickets.  Calls happen outside
// the controller lock and must not block for long.
type Notifier interface {
	BookingHeld(hold Hold, c Confirmation)
	TicketIssued(b model.Booking)
}

type Options struct {
	Clock clock.Clock
	// Payment defaults to SimulatedPayment{Clock, PaymentDelay}.
	Payment       PaymentProcessor
	PaymentDelay  time.Duration
	RedirectDelay time.Duration
	// FetchTimeout bounds the ticket fetch started by a payment callback.
	FetchTimeout time.Duration
	Notifier     Notifier
	OnTransition func(Transition)
	Logger       *slog.Logger
}

// View is a snapshot of the flow for rendering.  Slices are copies.
type View struct {
	State        State          `json:"state"`
	Busy         bool           `json:"busy"`
	Trip         *model.Trip    `json:"trip,omitempty"`
	Selected     []string       `json:"selectedSeats,omitempty"`
	Total        float64        `json:"totalPrice"`
	Confirmation *Confirmation  `json:"-"`
	Hold         *Hold          `json:"hold,omitempty"`
	Ticket       *model.Booking `json:"ticket,omitempty"`
	Notice       string         `json:"notice,omitempty"`
	Err          *Error         `json:"error,omitempty"`
}

// Controller is the booking flow of one visitor.  It is safe for use by
// concurrent requests; timer callbacks and HTTP handlers share it.
type Controller struct {
	gw   Gateway
	auth Authenticator
	opts Options
	log  *slog.Logger

	mu        sync.Mutex
	state     State
	epoch     uint64
	busy      bool
	trip      *model.Trip
	selection *seat.Selection
	confirm   *Confirmation
	hold      *Hold
	ticket    *model.Booking
	notice    string
	err       *Error
	redirect  *clock.Timer
	cancelPay func() bool

	// deferred callbacks, run after mu is released
	pending []func()
}

func NewController(gw Gateway, auth Authenticator, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.PaymentDelay <= 0 {
		opts.PaymentDelay = DefaultPaymentDelay
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = DefaultRedirectDelay
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Payment == nil {
		opts.Payment = SimulatedPayment{Clock: opts.Clock, Delay: opts.PaymentDelay}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{gw: gw, auth: auth, opts: opts, log: logger, state: StateBrowsing}
}

// State returns the current step.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns a snapshot of the flow.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:  c.state,
		Busy:   c.busy,
		Trip:   c.trip,
		Ticket: c.ticket,
		Notice: c.notice,
	}
	if c.selection != nil {
		v.Selected = c.selection.Seats()
		v.Total = c.selection.Total()
	}
	if c.confirm != nil {
		conf := *c.confirm
		v.Confirmation = &conf
		v.Total = conf.TotalAmount()
	}
	if c.hold != nil {
		h := *c.hold
		v.Hold = &h
	}
	if c.err != nil {
		e := *c.err
		v.Err = &e
	}
	return v
}

// OpenTrip starts seat selection for tripID, dropping whatever the flow
// was doing.
func (c *Controller) OpenTrip(ctx context.Context, tripID string) error {
	c.mu.Lock()
	e := c.navigateLocked()
	c.setStateLocked(StateBrowsing)
	if tripID == "" {
		ferr := c.failLocked(&Error{Kind: KindInvalidState, Message: MsgInvalidTripID, Escape: "/"}, false)
		c.unlock()
		return ferr
	}
	c.busy = true
	c.unlock()

	trip, err := c.gw.GetTripDetails(ctx, tripID)

	c.mu.Lock()
	defer c.unlock()
	if e != c.epoch {
		return ErrStale
	}
	c.busy = false
	if err != nil {
		c.log.Warn("trip fetch failed", "op", "flow.OpenTrip", "trip_id", tripID, "error", err)
		return c.failLocked(gatewayError(err), false)
	}
	if trip == nil {
		return c.failLocked(&Error{Kind: KindNotFound, Message: MsgTripNotFound, Escape: "/"}, false)
	}
	c.trip = trip
	c.selection = seat.NewSelection(trip.Price)
	c.setStateLocked(StateSeatSelection)
	return nil
}

// ToggleSeat flips one seat in the selection and reports whether it is now
// selected.
func (c *Controller) ToggleSeat(seatNumber string) (bool, error) {
	c.mu.Lock()
	defer c.unlock()
	if c.state != StateSeatSelection || c.trip == nil {
		return false, ErrWrongState
	}
	st, ok := c.trip.Seat(seatNumber)
	if !ok || !seat.Selectable(st) {
		c.notice = MsgSeatUnavailable
		return false, fmt.Errorf("seat %s: %w", seatNumber, ErrSeatUnavailable)
	}
	c.notice = ""
	return c.selection.Toggle(seatNumber), nil
}

// Proceed moves the current selection to the confirmation step.
func (c *Controller) Proceed() (Confirmation, error) {
	c.mu.Lock()
	defer c.unlock()
	if c.state != StateSeatSelection || c.trip == nil {
		return Confirmation{}, ErrWrongState
	}
	if !c.auth.Authenticated() {
		c.notice = MsgLoginRequired
		return Confirmation{}, ErrAuthRequired
	}
	if c.selection.Len() == 0 {
		c.notice = MsgSelectSeat
		return Confirmation{}, ErrNoSeatsSelected
	}
	total := c.selection.Total()
	p := ConfirmationPayload{
		TripID:      c.trip.ID,
		Trip:        c.trip,
		SeatNumbers: c.selection.Seats(),
		TotalAmount: &total,
	}
	return c.enterConfirmationLocked(&p)
}

// EnterConfirmation opens the confirmation step from a navigation payload.
// A nil or incomplete payload puts the flow in Error and schedules a
// return to browsing.
func (c *Controller) EnterConfirmation(p *ConfirmationPayload) (Confirmation, error) {
	c.mu.Lock()
	defer c.unlock()
	if !c.auth.Authenticated() {
		return Confirmation{}, ErrAuthRequired
	}
	if c.state == StateAwaitingConfirmation && p == nil && c.confirm != nil {
		return *c.confirm, nil
	}
	c.navigateLocked()
	return c.enterConfirmationLocked(p)
}

func (c *Controller) enterConfirmationLocked(p *ConfirmationPayload) (Confirmation, error) {
	conf, err := p.Confirmation()
	if err != nil {
		msg := MsgInvalidBookingData
		if errors.Is(err, ErrMissingContext) {
			msg = MsgNoBookingContext
		}
		return Confirmation{}, c.failLocked(&Error{Kind: KindInvalidState, Message: msg, Escape: "/", Err: err}, true)
	}
	c.confirm = &conf
	c.notice = ""
	c.err = nil
	c.setStateLocked(StateAwaitingConfirmation)
	return conf, nil
}

// Confirm asks the server to hold the confirmed seats.  On rejection the
// flow stays on the confirmation step with the server's message so the
// user may retry.  On success the simulated payment starts.
func (c *Controller) Confirm(ctx context.Context) (Hold, error) {
	c.mu.Lock()
	if c.state != StateAwaitingConfirmation || c.confirm == nil {
		c.unlock()
		return Hold{}, ErrWrongState
	}
	if c.busy {
		c.unlock()
		return Hold{}, ErrBusy
	}
	if !c.auth.Authenticated() {
		c.notice = MsgLoginRequired
		c.unlock()
		return Hold{}, ErrAuthRequired
	}
	e := c.epoch
	conf := *c.confirm
	c.busy = true
	c.notice = ""
	c.unlock()

	b, err := c.gw.CreateBooking(ctx, apiclient.CreateBookingRequest{
		TripID:      conf.TripID(),
		SeatNumbers: conf.SeatNumbers(),
	})

	c.mu.Lock()
	if e != c.epoch {
		c.unlock()
		return Hold{}, ErrStale
	}
	c.busy = false
	if err != nil {
		c.notice = apiclient.UserMessage(err)
		c.log.Info("seat hold rejected", "op", "flow.Confirm", "trip_id", conf.TripID(), "error", err)
		c.unlock()
		return Hold{}, gatewayError(err)
	}
	if b == nil || b.ID == "" {
		c.notice = apiclient.MsgHoldFailed
		c.log.Warn("seat hold answered without booking id", "op", "flow.Confirm", "trip_id", conf.TripID())
		c.unlock()
		return Hold{}, &Error{Kind: KindRejected, Message: apiclient.MsgHoldFailed, Escape: "/"}
	}
	hold := Hold{BookingID: b.ID, TotalAmount: conf.TotalAmount(), PaymentStatus: model.PaymentPending}
	held := hold
	c.hold = &held
	c.notice = MsgHoldSucceeded
	c.setStateLocked(StateHeld)
	if n := c.opts.Notifier; n != nil {
		c.pending = append(c.pending, func() { n.BookingHeld(hold, conf) })
	}
	c.log.Info("seats held", "op", "flow.Confirm", "booking_id", hold.BookingID, "trip_id", conf.TripID())
	c.setStateLocked(StateSimulatedPayment)
	c.unlock()

	c.beginPayment(e, hold)
	return hold, nil
}

// beginPayment runs outside mu: a processor may complete synchronously.
func (c *Controller) beginPayment(e uint64, hold Hold) {
	cancel := c.opts.Payment.Begin(
		PaymentRequest{BookingID: hold.BookingID, Amount: hold.TotalAmount},
		func(r PaymentResult) { c.finishPayment(e, r) },
	)

	c.mu.Lock()
	defer c.unlock()
	if e != c.epoch {
		cancel()
		return
	}
	if c.state == StateSimulatedPayment && c.hold != nil && c.hold.PaymentStatus == model.PaymentPending {
		c.cancelPay = cancel
	}
}

func (c *Controller) finishPayment(e uint64, r PaymentResult) {
	c.mu.Lock()
	if e != c.epoch || c.state != StateSimulatedPayment || c.hold == nil {
		c.unlock()
		return
	}
	c.cancelPay = nil
	c.hold.PaymentStatus = r.Status
	if r.Status != model.PaymentPaid {
		msg := r.Message
		if msg == "" {
			msg = MsgPaymentFailed
		}
		c.failLocked(&Error{Kind: KindPayment, Message: msg, Escape: "/"}, false)
		c.unlock()
		return
	}
	bookingID := c.hold.BookingID
	c.busy = true
	c.unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
	defer cancel()
	if err := c.loadTicket(ctx, e, bookingID); err != nil && !errors.Is(err, ErrStale) {
		c.log.Warn("ticket fetch after payment failed", "op", "flow.finishPayment", "booking_id", bookingID, "error", err)
	}
}

// OpenTicket shows an existing booking, as reached from the history list.
// Opening the booking whose payment is still running leaves the payment
// alone; the view stays in SimulatedPayment until the ticket is loaded.
func (c *Controller) OpenTicket(ctx context.Context, bookingID string) error {
	c.mu.Lock()
	if !c.auth.Authenticated() {
		c.unlock()
		return ErrAuthRequired
	}
	if c.state == StateTicketed && c.ticket != nil && c.ticket.ID == bookingID {
		c.unlock()
		return nil
	}
	// the ticket of the payment in progress arrives when the payment ends
	if (c.state == StateHeld || c.state == StateSimulatedPayment) && c.hold != nil && c.hold.BookingID == bookingID {
		c.unlock()
		return nil
	}
	e := c.navigateLocked()
	c.setStateLocked(StateBrowsing)
	if bookingID == "" {
		ferr := c.failLocked(&Error{Kind: KindInvalidState, Message: MsgInvalidTicketID, Escape: "/"}, false)
		c.unlock()
		return ferr
	}
	c.busy = true
	c.unlock()
	return c.loadTicket(ctx, e, bookingID)
}

func (c *Controller) loadTicket(ctx context.Context, e uint64, bookingID string) error {
	b, err := c.gw.GetBookingDetails(ctx, bookingID)

	c.mu.Lock()
	defer c.unlock()
	if e != c.epoch {
		return ErrStale
	}
	c.busy = false
	if err != nil {
		return c.failLocked(gatewayError(err), false)
	}
	if b == nil {
		return c.failLocked(&Error{Kind: KindNotFound, Message: fmt.Sprintf(msgTicketNotFoundFmt, bookingID), Escape: "/"}, false)
	}
	c.ticket = b
	c.notice = ""
	c.setStateLocked(StateTicketed)
	if n := c.opts.Notifier; n != nil {
		issued := *b
		c.pending = append(c.pending, func() { n.TicketIssued(issued) })
	}
	return nil
}

// ResumePayment checks that bookingID is the payment in progress or just
// completed.  Anything else is an invalid navigation and ends in Error.
func (c *Controller) ResumePayment(bookingID string) error {
	c.mu.Lock()
	defer c.unlock()
	if !c.auth.Authenticated() {
		return ErrAuthRequired
	}
	if c.hold != nil && c.hold.BookingID == bookingID {
		switch c.state {
		case StateHeld, StateSimulatedPayment, StateTicketed:
			return nil
		case StateError:
			if c.err != nil && c.err.Kind == KindPayment {
				e := *c.err
				return &e
			}
		}
	}
	c.navigateLocked()
	return c.failLocked(&Error{Kind: KindInvalidState, Message: MsgNoPaymentContext, Escape: "/"}, true)
}

// Reset returns to browsing and forgets the current flow.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.unlock()
	c.navigateLocked()
	c.setStateLocked(StateBrowsing)
}

// navigateLocked starts a new epoch: pending timers are cancelled and
// in-flight results will be dropped.
func (c *Controller) navigateLocked() uint64 {
	c.epoch++
	if c.redirect != nil {
		c.redirect.Stop()
		c.redirect = nil
	}
	if c.cancelPay != nil {
		c.cancelPay()
		c.cancelPay = nil
	}
	c.busy = false
	c.trip = nil
	c.selection = nil
	c.confirm = nil
	c.hold = nil
	c.ticket = nil
	c.notice = ""
	c.err = nil
	return c.epoch
}

// failLocked enters Error.  With redirect set the flow returns to browsing
// after RedirectDelay unless the user navigates first.
func (c *Controller) failLocked(ferr *Error, redirect bool) *Error {
	c.err = ferr
	c.busy = false
	c.setStateLocked(StateError)
	if redirect {
		e := c.epoch
		c.redirect = c.opts.Clock.AfterFunc(c.opts.RedirectDelay, func() { c.autoRedirect(e) })
	}
	return ferr
}

func (c *Controller) autoRedirect(e uint64) {
	c.mu.Lock()
	defer c.unlock()
	if e != c.epoch || c.state != StateError {
		return
	}
	c.redirect = nil
	c.navigateLocked()
	c.setStateLocked(StateBrowsing)
}

func (c *Controller) setStateLocked(s State) {
	if s == c.state {
		return
	}
	t := Transition{From: c.state, To: s, At: c.opts.Clock.Now()}
	c.state = s
	c.log.Debug("flow transition", "from", t.From.String(), "state", t.To.String())
	hook := c.opts.OnTransition
	c.pending = append(c.pending, func() {
		metrics.FlowTransition(t.To.String())
		if hook != nil {
			hook(t)
		}
	})
}

// unlock releases mu and runs callbacks queued while it was held.
func (c *Controller) unlock() {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}
