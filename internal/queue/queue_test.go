package queue

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/bus-booking-frontend/internal/flow"
	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

func TestFormatActivity(t *testing.T) {
	held := `{"booking_id":"B1","user_id":"U1","trip_id":"T1","company_name":"Phương Trang","from":"Hà Nội","to":"Sài Gòn","departs_at":"2024-06-01T01:30:00Z","seats":["A1","A2"],"total_amount":500000,"held_at":"2024-05-30T10:00:00Z"}`
	line, err := formatActivity(BookingHeldQueue, []byte(held))
	if err != nil {
		t.Fatal(err)
	}
	want := `[2024-05-30T10:00:00Z] Seats held | booking_id=B1 | user_id=U1 | trip_id=T1 | company="Phương Trang" | route="Hà Nội -> Sài Gòn" | departs=2024-06-01T01:30:00Z | total=500000 VND | seats=[A1,A2]` + "\n"
	if line != want {
		t.Fatalf("line =\n%q\nwant\n%q", line, want)
	}

	issued := `{"booking_id":"B1","user_id":"U1","ticket_code":"B1","status":"confirmed","seats":["A1"],"total_amount":250000,"issued_at":"2024-05-30T10:00:03Z"}`
	line, err = formatActivity(TicketIssuedQueue, []byte(issued))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(line, "Ticket issued | booking_id=B1") || !strings.HasSuffix(line, "seats=[A1]\n") {
		t.Fatalf("line = %q", line)
	}

	if _, err := formatActivity(BookingHeldQueue, []byte("{")); err == nil {
		t.Fatal("malformed body accepted")
	}
	if _, err := formatActivity("other", []byte("{}")); err == nil {
		t.Fatal("unknown queue accepted")
	}
}

func TestHandleMessageAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	body := []byte(`{"booking_id":"B1","seats":[]}`)
	for i := 0; i < 2; i++ {
		if err := handleMessage(dir, TicketIssuedQueue, body); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, activityLogName))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", n, data)
	}
}

type capturePublisher struct {
	held   []BookingHeldEvent
	issued []TicketIssuedEvent
}

func (c *capturePublisher) PublishBookingHeld(_ context.Context, ev BookingHeldEvent) error {
	c.held = append(c.held, ev)
	return nil
}

func (c *capturePublisher) PublishTicketIssued(_ context.Context, ev TicketIssuedEvent) error {
	c.issued = append(c.issued, ev)
	return nil
}

func TestFlowNotifierBuildsEvents(t *testing.T) {
	now := time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC)
	pub := &capturePublisher{}
	n := &FlowNotifier{
		Events: pub,
		UserID: func() string { return "U1" },
		Now:    func() time.Time { return now },
		Sync:   true,
	}

	total := 500000.0
	trip := &model.Trip{ID: "T1", CompanyName: "Phương Trang", Route: model.Route{From: model.Location{Name: "Hà Nội"}, To: model.Location{Name: "Sài Gòn"}}}
	conf, err := (&flow.ConfirmationPayload{TripID: "T1", Trip: trip, SeatNumbers: []string{"A1", "A2"}, TotalAmount: &total}).Confirmation()
	if err != nil {
		t.Fatal(err)
	}
	n.BookingHeld(flow.Hold{BookingID: "B1", TotalAmount: total}, conf)
	n.TicketIssued(model.Booking{ID: "665f1c2ab93e4d0012ab34cd", Status: model.BookingConfirmed, Passengers: []model.Passenger{{SeatNumber: "A1"}}})

	if len(pub.held) != 1 {
		t.Fatalf("held events = %d", len(pub.held))
	}
	h := pub.held[0]
	if h.BookingID != "B1" || h.UserID != "U1" || h.From != "Hà Nội" || h.HeldAt != "2024-05-30T10:00:00Z" || !reflect.DeepEqual(h.SeatNumbers, []string{"A1", "A2"}) {
		t.Fatalf("held = %+v", h)
	}
	if len(pub.issued) != 1 || pub.issued[0].TicketCode != "12AB34CD" || pub.issued[0].UserID != "U1" {
		t.Fatalf("issued = %+v", pub.issued)
	}
}
