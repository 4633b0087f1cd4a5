package apiclient

// User-facing fallback messages, used when the API does not explain a
// failure itself.
const (
	MsgTransport     = "Không thể kết nối đến máy chủ hoặc đã có lỗi xảy ra. Vui lòng thử lại."
	MsgServer        = "Máy chủ gặp sự cố. Vui lòng thử lại sau."
	MsgUnauthorized  = "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại."
	MsgHoldFailed    = "Giữ chỗ thất bại. Vui lòng thử lại."
	MsgLoginFailed   = "Đăng nhập thất bại, không nhận được token."
	MsgRegisterOK    = "Đăng ký thành công! Vui lòng đăng nhập."
	MsgRequestFailed = "Yêu cầu không thành công."
	MsgNoSeats       = "Vui lòng chọn ít nhất một ghế."
)
