package router // package router defines how HTTP routes are registered for the API

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/staywise/booking-api/internal/handler"
	"github.com/staywise/booking-api/internal/middleware"
	"github.com/staywise/booking-api/internal/observability/metrics"
)

// apiPrefix is where every domain route is mounted.
const apiPrefix = "/api"

// NewServer returns an Echo instance with the cross-cutting middleware stack
// installed: panic recovery, request ids, structured request logs,
// Prometheus metrics, CORS and a body size limit.
func NewServer(logger *slog.Logger, allowedOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(metrics.HTTPMetricsMiddleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit("1M"))
	return e
}

// RegisterRoutes registers the operational endpoints that do not require
// authentication: liveness, readiness and Prometheus metrics.
func RegisterRoutes(e *echo.Echo, ping func(context.Context) error) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(ping))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
