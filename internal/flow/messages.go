package flow

// User-facing texts shown by the views.
const (
	MsgInvalidTripID      = "ID chuyến đi không hợp lệ."
	MsgTripNotFound       = "Không tìm thấy thông tin chuyến đi."
	MsgSeatUnavailable    = "Ghế này đã được giữ hoặc đã được đặt."
	MsgLoginRequired      = "Vui lòng đăng nhập để tiếp tục đặt vé."
	MsgSelectSeat         = "Vui lòng chọn ít nhất một ghế."
	MsgNoBookingContext   = "Không tìm thấy thông tin đặt vé. Vui lòng chọn lại chuyến đi."
	MsgInvalidBookingData = "Dữ liệu đặt vé không hợp lệ. Vui lòng thử lại từ đầu."
	MsgHoldSucceeded      = "Giữ chỗ thành công! Chuẩn bị chuyển đến trang thanh toán."
	MsgNoPaymentContext   = "Không tìm thấy thông tin thanh toán hợp lệ. Vui lòng thử lại quy trình đặt vé."
	MsgPaymentFailed      = "Đã có lỗi xảy ra trong quá trình thanh toán."
	MsgInvalidTicketID    = "ID vé không hợp lệ."
	msgTicketNotFoundFmt  = "Không tìm thấy thông tin cho vé #%s. Vé có thể không tồn tại hoặc bạn không có quyền xem."
)
