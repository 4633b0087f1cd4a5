package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
	"github.com/iliyamo/bus-booking-frontend/internal/config"
	"github.com/iliyamo/bus-booking-frontend/internal/handler"
	"github.com/iliyamo/bus-booking-frontend/internal/queue"
	"github.com/iliyamo/bus-booking-frontend/internal/router"
	"github.com/iliyamo/bus-booking-frontend/internal/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rdb := config.NewRedisClient(logger)
	if rdb != nil {
		defer rdb.Close()
	}

	var events queue.EventPublisher
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.RabbitURL, logger)
	}
	if cfg.ConsumerEnabled {
		go func() {
			if err := queue.StartActivityConsumer(ctx, cfg.RabbitURL, cfg.ActivityLogDir, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("activity consumer stopped", "error", err)
			}
		}()
	}

	visitors := web.NewRegistry(web.Settings{
		APIBaseURL:    cfg.APIBaseURL,
		APITimeout:    cfg.APITimeout,
		PaymentDelay:  cfg.PaymentDelay,
		RedirectDelay: cfg.ErrorRedirectDelay,
		SessionPrefix: cfg.SessionPrefix,
		SessionTTL:    cfg.SessionTTL,
		IdleTTL:       cfg.VisitorIdle,
	}, rdb, events, logger)
	go visitors.Run(ctx, time.Minute)

	catalog := apiclient.New(cfg.APIBaseURL, nil, apiclient.WithTimeout(cfg.APITimeout))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency.String())
			return nil
		},
	}))

	deps := router.Deps{
		Handler:       handler.New(catalog, cfg.PaymentRedirectDelay, cfg.ErrorRedirectDelay, logger),
		Visitors:      visitors,
		Redis:         rdb,
		RateLimit:     config.LoadRateLimitConfig(),
		CatalogCache:  config.LoadCatalogCacheConfig(),
		SessionCookie: cfg.SessionCookie,
		SecureCookie:  cfg.Env == "prod",
		Logger:        logger,
	}
	router.RegisterRoutes(e, deps)
	router.RegisterFlow(e, deps)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "api", cfg.APIBaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
