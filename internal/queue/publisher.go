package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/bus-booking-frontend/internal/flow"
	"github.com/iliyamo/bus-booking-frontend/internal/metrics"
	"github.com/iliyamo/bus-booking-frontend/internal/model"
	"github.com/iliyamo/bus-booking-frontend/internal/ticket"
)

// Publisher sends flow events to durable queues.  Each publish dials the
// broker; event volume is one or two messages per booking.
type Publisher struct {
	url string
	log *slog.Logger
}

func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{url: url, log: logger.With("component", "queue.publisher")}
}

func (p *Publisher) PublishBookingHeld(ctx context.Context, ev BookingHeldEvent) error {
	return p.publish(ctx, BookingHeldQueue, ev)
}

func (p *Publisher) PublishTicketIssued(ctx context.Context, ev TicketIssuedEvent) error {
	return p.publish(ctx, TicketIssuedQueue, ev)
}

// publish never panics; errors are logged and returned so callers may
// ignore them.
func (p *Publisher) publish(ctx context.Context, queue string, event any) (err error) {
	defer func() { metrics.EventPublished(queue, err) }()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("dial failed", "queue", queue, "error", err)
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", "queue", queue, "error", err)
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.Warn("queue declare failed", "queue", queue, "error", err)
		return fmt.Errorf("declare %s: %w", queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err = ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.log.Warn("publish failed", "queue", queue, "error", err)
		return fmt.Errorf("publish %s: %w", queue, err)
	}
	return nil
}

// EventPublisher is what FlowNotifier publishes through.
type EventPublisher interface {
	PublishBookingHeld(ctx context.Context, ev BookingHeldEvent) error
	PublishTicketIssued(ctx context.Context, ev TicketIssuedEvent) error
}

// FlowNotifier turns flow hooks into queue events.  Publishing happens in
// the background so a slow broker never stalls the booking flow.
type FlowNotifier struct {
	Events  EventPublisher
	UserID  func() string
	Timeout time.Duration
	Now     func() time.Time
	// Sync publishes inline; used by the CLI, which exits right after.
	Sync bool
}

var _ flow.Notifier = (*FlowNotifier)(nil)

func (n *FlowNotifier) BookingHeld(h flow.Hold, c flow.Confirmation) {
	ev := BookingHeldEvent{
		BookingID:   h.BookingID,
		UserID:      n.userID(),
		TripID:      c.TripID(),
		SeatNumbers: c.SeatNumbers(),
		TotalAmount: h.TotalAmount,
		HeldAt:      n.now().UTC().Format(time.RFC3339),
	}
	if t := c.Trip(); t != nil {
		ev.CompanyName = t.CompanyName
		ev.From = t.Route.From.Name
		ev.To = t.Route.To.Name
		ev.DepartsAt = t.DepartureTime.UTC().Format(time.RFC3339)
	}
	n.run(func(ctx context.Context) error { return n.Events.PublishBookingHeld(ctx, ev) })
}

func (n *FlowNotifier) TicketIssued(b model.Booking) {
	ev := TicketIssuedEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		TicketCode:  ticket.DisplayCode(b),
		Status:      string(b.Status),
		SeatNumbers: b.SeatNumbers(),
		TotalAmount: b.TotalAmount,
		IssuedAt:    n.now().UTC().Format(time.RFC3339),
	}
	if ev.UserID == "" {
		ev.UserID = n.userID()
	}
	n.run(func(ctx context.Context) error { return n.Events.PublishTicketIssued(ctx, ev) })
}

func (n *FlowNotifier) run(fn func(ctx context.Context) error) {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	do := func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = fn(ctx)
	}
	if n.Sync {
		do()
		return
	}
	go do()
}

func (n *FlowNotifier) userID() string {
	if n.UserID == nil {
		return ""
	}
	return n.UserID()
}

func (n *FlowNotifier) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}
