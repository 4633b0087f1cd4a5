package flow

import (
	"time"

	"github.com/iliyamo/bus-booking-frontend/internal/clock"
	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

// PaymentRequest describes what a processor is asked to collect.
type PaymentRequest struct {
	BookingID string
	Amount    float64
}

// PaymentResult is reported once by a processor.
type PaymentResult struct {
	BookingID string
	Status    model.PaymentStatus
	Message   string
}

// PaymentProcessor collects payment for a held booking.  Begin must not
// block; done is called at most once, from any goroutine.  The returned
// function cancels a pending payment and reports whether it did so.
type PaymentProcessor interface {
	Begin(req PaymentRequest, done func(PaymentResult)) (cancel func() bool)
}

// SimulatedPayment succeeds after Delay.  No money moves.
type SimulatedPayment struct {
	Clock clock.Clock
	Delay time.Duration
}

func (p SimulatedPayment) Begin(req PaymentRequest, done func(PaymentResult)) func() bool {
	c := p.Clock
	if c == nil {
		c = clock.Real()
	}
	t := c.AfterFunc(p.Delay, func() {
		done(PaymentResult{BookingID: req.BookingID, Status: model.PaymentPaid})
	})
	return t.Stop
}
