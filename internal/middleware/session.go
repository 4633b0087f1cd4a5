package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-frontend/internal/web"
)

const visitorKey = "visitor"

// Visitors attaches the visitor named by the session cookie to the
// request, issuing a fresh id when the cookie is absent or malformed.
func Visitors(reg *web.Registry, cookieName string, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(cookieName); err == nil {
				if u, err := uuid.Parse(ck.Value); err == nil {
					id = u.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(365 * 24 * time.Hour),
				})
			}
			c.Set(visitorKey, reg.Open(id))
			return next(c)
		}
	}
}

// VisitorFrom returns the visitor attached by Visitors, or nil.
func VisitorFrom(c echo.Context) *web.Visitor {
	v, _ := c.Get(visitorKey).(*web.Visitor)
	return v
}
