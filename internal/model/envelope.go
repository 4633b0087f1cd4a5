package model

// Envelope is the response body shape shared by every endpoint of the
// booking API: an optional human message, an optional payload and an
// optional error string.  Auth responses additionally carry a token.
type Envelope[T any] struct {
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Token   string `json:"token,omitempty"`
}
