package middleware

import "github.com/labstack/echo/v4"

// userID is the API user id of the current visitor, "guest" when nobody is
// logged in.
func userID(c echo.Context) string {
	if v := VisitorFrom(c); v != nil {
		return v.Session.UserID()
	}
	return "guest"
}
