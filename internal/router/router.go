// Package router wires the flow views onto echo.
package router

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bus-booking-frontend/internal/config"
	"github.com/iliyamo/bus-booking-frontend/internal/handler"
	"github.com/iliyamo/bus-booking-frontend/internal/metrics"
	"github.com/iliyamo/bus-booking-frontend/internal/middleware"
	"github.com/iliyamo/bus-booking-frontend/internal/web"
)

// Deps collects what the routes need.  Redis may be nil.
type Deps struct {
	Handler       *handler.Handler
	Visitors      *web.Registry
	Redis         *redis.Client
	RateLimit     config.RateLimitConfig
	CatalogCache  config.CatalogCacheConfig
	SessionCookie string
	SecureCookie  bool
	Logger        *slog.Logger
}

// RegisterRoutes registers endpoints that carry no visitor state.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/catalog", d.Handler.Catalog, middleware.NewCatalogCache(d.CatalogCache, d.Redis))
}

// RegisterFlow registers the visitor-facing views.  Every route runs with a
// visitor attached; protected steps also require a restored session.
func RegisterFlow(e *echo.Echo, d Deps) {
	h := d.Handler

	open := []echo.MiddlewareFunc{
		middleware.Visitors(d.Visitors, d.SessionCookie, d.SecureCookie),
		middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Logger),
	}
	protected := append(open[:len(open):len(open)], middleware.RequireSession())

	e.POST("/auth/login", h.Login, open...)
	e.POST("/auth/register", h.Register, open...)
	e.POST("/auth/logout", h.Logout, open...)

	e.GET("/", h.Home, open...)
	e.GET("/trips/:id", h.Trip, open...)
	e.POST("/trips/:id/seats/:seat", h.ToggleSeat, open...)
	e.POST("/trips/:id/proceed", h.Proceed, open...)

	e.GET("/booking/confirm", h.ConfirmPage, protected...)
	e.POST("/booking/confirm", h.Confirm, protected...)
	e.GET("/payment/:bookingId", h.Payment, protected...)
	e.GET("/ticket/:bookingId", h.Ticket, protected...)
	e.GET("/ticket/:bookingId/pdf", h.TicketPDF, protected...)
	e.GET("/my-bookings", h.MyBookings, protected...)
}
