package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LoginURL is where anonymous visitors are sent from protected views.
const LoginURL = "/?showLogin=true"

// RequireSession guards protected views.  While the visitor's session is
// still being restored it answers 202 with a neutral loading body so the
// page never flashes a login redirect; without a session it redirects to
// the login prompt.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := VisitorFrom(c)
			if v == nil {
				return c.Redirect(http.StatusSeeOther, LoginURL)
			}
			if v.Session.Loading() {
				return c.JSON(http.StatusAccepted, echo.Map{"state": "loading"})
			}
			if !v.Session.Authenticated() {
				return c.Redirect(http.StatusSeeOther, LoginURL)
			}
			return next(c)
		}
	}
}
