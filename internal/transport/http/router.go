package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/platform-ops/nr-user-mgmt/internal/transport/mw"
)

// NewRouter sets up all Echo routes and middleware.
func NewRouter(h *Handler, webhookAudience string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())

	// Health (no auth required)
	e.GET("/health", h.Health)

	// Event Grid webhook
	e.POST("/events", h.Events, mw.EventGridAuth(webhookAudience))

	// On-demand Kafka consumer-group report
	e.POST("/kafka/consumer-report", h.KafkaReport)

	return e
}
