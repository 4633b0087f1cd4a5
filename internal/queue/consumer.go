package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const activityLogName = "booking.log"

// StartActivityConsumer consumes booking.held and ticket.issued and appends
// one line per event to <logDir>/booking.log.  It reconnects with
// exponential backoff and returns only when ctx is done.
func StartActivityConsumer(ctx context.Context, url, logDir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "queue.consumer")

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Warn("dial failed", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logDir, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string, logger *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warn("set QoS failed", "error", err)
	}

	type source struct {
		queue string
		msgs  <-chan amqp.Delivery
	}
	var sources []source
	for _, q := range []string{BookingHeldQueue, TicketIssuedQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		sources = append(sources, source{queue: q, msgs: msgs})
	}

	held, issued := sources[0], sources[1]
	for {
		var (
			d     amqp.Delivery
			ok    bool
			queue string
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-held.msgs:
			queue = held.queue
		case d, ok = <-issued.msgs:
			queue = issued.queue
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := handleMessage(logDir, queue, d.Body); err != nil {
			logger.Warn("handle message failed", "queue", queue, "error", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

func handleMessage(logDir, queue string, body []byte) error {
	line, err := formatActivity(queue, body)
	if err != nil {
		return err
	}
	return appendActivity(logDir, line)
}

// formatActivity renders one event as a single log line.
func formatActivity(queue string, body []byte) (string, error) {
	switch queue {
	case BookingHeldQueue:
		var ev BookingHeldEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Seats held | booking_id=%s | user_id=%s | trip_id=%s | company=%q | route=%q | departs=%s | total=%.0f VND | seats=%s\n",
			ev.HeldAt, ev.BookingID, ev.UserID, ev.TripID, ev.CompanyName, ev.From+" -> "+ev.To, ev.DepartsAt, ev.TotalAmount, seatList(ev.SeatNumbers)), nil
	case TicketIssuedQueue:
		var ev TicketIssuedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Ticket issued | booking_id=%s | user_id=%s | code=%s | status=%s | total=%.0f VND | seats=%s\n",
			ev.IssuedAt, ev.BookingID, ev.UserID, ev.TicketCode, ev.Status, ev.TotalAmount, seatList(ev.SeatNumbers)), nil
	}
	return "", fmt.Errorf("unknown queue %q", queue)
}

func seatList(seats []string) string {
	return "[" + strings.Join(seats, ",") + "]"
}

func appendActivity(logDir, line string) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", logDir, err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, activityLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
