// Package ticket formats bookings for display: ticket code, money,
// status badges and the printable e-ticket.
package ticket

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

// Vietnam has no DST; a fixed zone avoids depending on tzdata.
var vietnam = time.FixedZone("ICT", 7*60*60)

// DisplayCode is the server's ticket code or, until one is issued, the
// last eight characters of the booking id in upper case.
func DisplayCode(b model.Booking) string {
	if b.TicketCode != "" {
		return b.TicketCode
	}
	id := b.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

// FormatAmount groups thousands with dots, as in "250.000".
func FormatAmount(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var out []byte
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		pos := len(s) - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, '.')
		}
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// FormatVND renders an amount in dong.
func FormatVND(v float64) string { return FormatAmount(v) + " VNĐ" }

// StatusBadge maps a booking status to a badge variant.
func StatusBadge(s model.BookingStatus) string {
	switch model.BookingStatus(strings.ToLower(string(s))) {
	case model.BookingConfirmed:
		return "success"
	case model.BookingHeld:
		return "warning"
	case model.BookingCancelled, model.BookingExpired:
		return "danger"
	default:
		return "secondary"
	}
}

// StatusLabel is the upper-cased status, or N/A when unknown.
func StatusLabel(s model.BookingStatus) string {
	if s == "" {
		return "N/A"
	}
	return strings.ToUpper(string(s))
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.In(vietnam).Format("02/01/2006")
}

func FormatClock(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.In(vietnam).Format("15:04")
}

func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.In(vietnam).Format("15:04 02/01/2006")
}

func orNA(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

// Summary is the display form of a booking used by the ticket and history
// views.
type Summary struct {
	ID            string   `json:"id"`
	Code          string   `json:"code"`
	Company       string   `json:"company"`
	From          string   `json:"from"`
	To            string   `json:"to"`
	DepartureDate string   `json:"departureDate"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
	ArrivalDate   string   `json:"arrivalDate,omitempty"`
	BookedAt      string   `json:"bookedAt"`
	Status        string   `json:"status"`
	Badge         string   `json:"badge"`
	Seats         []string `json:"seats"`
	Passengers    []string `json:"passengers"`
	Total         string   `json:"total"`
}

// Summarize prepares b for rendering.
func Summarize(b model.Booking) Summary {
	s := Summary{
		ID:            b.ID,
		Code:          DisplayCode(b),
		Company:       "N/A (Không có tên nhà xe)",
		From:          "N/A (Điểm đi)",
		To:            "N/A (Điểm đến)",
		DepartureDate: "N/A",
		DepartureTime: "N/A",
		ArrivalTime:   "N/A",
		BookedAt:      FormatDateTime(b.BookingTime),
		Status:        StatusLabel(b.Status),
		Badge:         StatusBadge(b.Status),
		Seats:         b.SeatNumbers(),
		Total:         FormatVND(b.TotalAmount),
	}
	if t := b.TripInfo; t != nil {
		s.Company = orNA(t.CompanyName, s.Company)
		s.From = orNA(t.Route.From.Name, s.From)
		s.To = orNA(t.Route.To.Name, s.To)
		s.DepartureDate = FormatDate(t.DepartureTime)
		s.DepartureTime = FormatClock(t.DepartureTime)
		s.ArrivalTime = FormatClock(t.ExpectedArrivalTime)
		if !t.ExpectedArrivalTime.IsZero() {
			s.ArrivalDate = FormatDate(t.ExpectedArrivalTime)
		}
	}
	for i, p := range b.Passengers {
		line := "Hành khách " + strconv.Itoa(i+1) + ": " + orNA(p.Name, "Chưa cập nhật tên")
		if p.Phone != "" {
			line += " - SĐT: " + p.Phone
		}
		line += " | Ghế: " + p.SeatNumber
		s.Passengers = append(s.Passengers, line)
	}
	return s
}
