package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/platform-ops/nr-user-mgmt/internal/application"
	"github.com/platform-ops/nr-user-mgmt/internal/domain"
	"github.com/platform-ops/nr-user-mgmt/internal/event"
)

// Handler holds all HTTP handler methods.
type Handler struct {
	svc      *application.Service
	reporter *application.Reporter
}

// NewHandler creates a new Handler. reporter may be nil when no Kafka
// brokers are configured.
func NewHandler(svc *application.Service, reporter *application.Reporter) *Handler {
	return &Handler{svc: svc, reporter: reporter}
}

// eventResponse is the webhook's rendering of a terminal result.
type eventResponse struct {
	Outcome domain.Outcome `json:"outcome"`
	Detail  string         `json:"detail"`
}

// Events POST /events — Event Grid webhook endpoint.
// Deliveries are batched; each envelope is processed independently and the
// response reflects the first result that actually ran the pipeline, or the
// last informational skip when none did.
func (h *Handler) Events(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	batch, err := event.ParseBatch(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event payload")
	}
	if len(batch) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty event batch")
	}

	result := domain.DeprovisionResult{Outcome: domain.OutcomeSkipped, Detail: "no qualifying event in batch"}
	for _, env := range batch {
		// Subscription handshake short-circuits the whole delivery.
		if code, ok := env.ValidationCode(); ok {
			log.Info().Str("event_id", env.ID).Msg("answering subscription validation handshake")
			return c.JSON(http.StatusOK, map[string]string{"validationResponse": code})
		}

		ev, err := event.ParseMembership(env)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		result = h.svc.Handle(c.Request().Context(), *ev)
		if result.Outcome != domain.OutcomeSkipped {
			break
		}
	}

	return c.JSON(statusFor(result.Outcome), eventResponse{Outcome: result.Outcome, Detail: result.Detail})
}

// KafkaReport POST /kafka/consumer-report — one on-demand consumer-group
// report, mirroring the old HTTP-triggered function.
func (h *Handler) KafkaReport(c echo.Context) error {
	if h.reporter == nil {
		return echo.NewHTTPError(http.StatusNotFound, "kafka reporting is not configured")
	}

	count, err := h.reporter.Report(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no consumer ids found")
	}
	return c.JSON(http.StatusOK, map[string]int{"reported": count})
}

// Health GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps an outcome class to the webhook status code. The event
// source's alerting keys off these, so each taxonomy class must stay
// distinguishable.
func statusFor(outcome domain.Outcome) int {
	switch outcome {
	case domain.OutcomeSuccess, domain.OutcomeSkipped:
		return http.StatusOK
	case domain.OutcomeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
