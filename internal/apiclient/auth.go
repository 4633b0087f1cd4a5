package apiclient

import (
	"context"
	"net/http"

	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is what the auth endpoints return on success.
type AuthResponse struct {
	Message string
	Token   string
	User    *model.User
}

// Register creates an account.  It does not log in; the API issues a token
// only from Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	env, status, err := call[model.User](ctx, c, "register", http.MethodPost, "/auth/register", nil, req)
	if err != nil {
		return AuthResponse{}, err
	}
	if status >= 400 {
		return AuthResponse{}, statusError("register", status, env.Error, env.Message)
	}
	msg := env.Message
	if msg == "" {
		msg = MsgRegisterOK
	}
	return AuthResponse{Message: msg, Token: env.Token, User: env.Data}, nil
}

// Login exchanges credentials for a session token.  A response without a
// token is a rejection carrying the server's message.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	env, status, err := call[model.User](ctx, c, "login", http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password})
	if err != nil {
		return AuthResponse{}, err
	}
	if status >= 400 && status != http.StatusUnauthorized {
		return AuthResponse{}, statusError("login", status, env.Error, env.Message)
	}
	if env.Token == "" {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = MsgLoginFailed
		}
		return AuthResponse{}, &Error{Op: "login", Kind: KindRejected, Status: status, Message: msg}
	}
	return AuthResponse{Message: env.Message, Token: env.Token, User: env.Data}, nil
}
