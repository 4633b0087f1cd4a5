package ticket

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/iliyamo/bus-booking-frontend/internal/model"
	"github.com/phpdave11/gofpdf"
)

const boardingNote = "Lưu ý: Vui lòng có mặt tại điểm đón trước giờ khởi hành ít nhất 30 phút. " +
	"Mang theo thông tin vé này (bản điện tử hoặc bản in) để đối chiếu khi lên xe."

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

// RenderPDF builds the printable e-ticket for b and a file name for it.
func RenderPDF(b model.Booking) ([]byte, string, error) {
	s := Summarize(b)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+s.Code, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("VÉ XE ĐIỆN TỬ"))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "#"+s.Code)
	pdf.Ln(12)

	lines := []string{
		fmt.Sprintf("Nhà xe         : %s", s.Company),
		fmt.Sprintf("Tuyến          : %s -> %s", s.From, s.To),
		fmt.Sprintf("Ngày đi        : %s", s.DepartureDate),
		fmt.Sprintf("Giờ khởi hành  : %s", s.DepartureTime),
		fmt.Sprintf("Dự kiến đến    : %s %s", s.ArrivalTime, s.ArrivalDate),
		fmt.Sprintf("Trạng thái     : %s", s.Status),
		fmt.Sprintf("Ngày đặt       : %s", s.BookedAt),
		fmt.Sprintf("Ghế            : %s", orNA(strings.Join(s.Seats, ", "), "-")),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, tr("Thông tin hành khách và ghế:"))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if len(s.Passengers) == 0 {
		pdf.Cell(0, 6, tr("Không có thông tin hành khách chi tiết."))
		pdf.Ln(6)
	}
	for _, p := range s.Passengers {
		pdf.Cell(0, 6, tr(p))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr("Tổng tiền: "+s.Total))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr(boardingNote), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render ticket %s: %w", b.ID, err)
	}
	return buf.Bytes(), fmt.Sprintf("ETICKET_%s.pdf", filenamePart(s.Code)), nil
}

func filenamePart(s string) string {
	s = strings.Trim(unsafeFilename.ReplaceAllString(strings.TrimSpace(s), "_"), "_")
	if s == "" {
		return "NA"
	}
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
