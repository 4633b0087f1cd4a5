package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
)

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type registerReq struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Phone    string `json:"phone" form:"phone"`
	Password string `json:"password" form:"password"`
}

// Login exchanges credentials with the API and stores the token for the
// visitor.
func (h *Handler) Login(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errorView(c, http.StatusBadRequest, msgInvalidBody)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return errorView(c, http.StatusBadRequest, msgCredentials)
	}

	ctx := c.Request().Context()
	resp, err := v.API.Login(ctx, req.Email, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if apiclient.IsTransport(err) || apiclient.KindOf(err) == apiclient.KindServer {
			status = http.StatusBadGateway
		}
		return errorView(c, status, apiclient.UserMessage(err))
	}
	if err := v.Session.Login(ctx, resp.Token); err != nil {
		h.Log.Error("store session token", "op", "handler.Login", "error", err)
		return errorView(c, http.StatusInternalServerError, apiclient.MsgTransport)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": resp.Message, "user": resp.User})
}

// Register creates an account.  The visitor still has to log in.
func (h *Handler) Register(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return errorView(c, http.StatusBadRequest, msgInvalidBody)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return errorView(c, http.StatusBadRequest, msgCredentials)
	}

	resp, err := v.API.Register(c.Request().Context(), apiclient.RegisterRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Phone:    strings.TrimSpace(req.Phone),
		Password: req.Password,
	})
	if err != nil {
		status := http.StatusBadRequest
		if apiclient.IsTransport(err) || apiclient.KindOf(err) == apiclient.KindServer {
			status = http.StatusBadGateway
		}
		return errorView(c, status, apiclient.UserMessage(err))
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": resp.Message, "next": "/?showLogin=true"})
}

// Logout forgets the token and abandons any flow in progress.
func (h *Handler) Logout(c echo.Context) error {
	v, err := visitorOf(c)
	if err != nil {
		return err
	}
	if err := v.Session.Logout(c.Request().Context()); err != nil {
		h.Log.Warn("clear session token", "op", "handler.Logout", "error", err)
	}
	v.Flow.Reset()
	return c.JSON(http.StatusOK, echo.Map{"message": msgLoggedOut})
}
