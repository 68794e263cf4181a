// Package handler exposes the operator endpoints for the admission layer:
// status and metrics snapshots plus manual reset actions. These are thin
// reads/writes over the registries and carry no additional business logic.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks BreakerRegistry,LimiterRegistry,OutcomeCollector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devotly/internal/admission/collector"
	"devotly/internal/admission/models"
	platformMW "devotly/internal/platform/middleware"
	"devotly/internal/transport/httputil"
	dErrors "devotly/pkg/domain-errors"
	"devotly/pkg/requestcontext"
)

// BreakerRegistry is the operator-facing surface of the breaker registry.
type BreakerRegistry interface {
	Statuses() []models.BreakerStatus
	AllHealthy() bool
	Reset(name string) error
	ResetAll()
}

// LimiterRegistry is the operator-facing surface of the limiter registry.
type LimiterRegistry interface {
	Snapshots() []models.BucketSnapshot
	ResetClient(clientID string)
	ResetAll()
}

// OutcomeCollector is the operator-facing surface of the metrics collector.
type OutcomeCollector interface {
	Snapshot() collector.Snapshot
	Reset()
}

type Handler struct {
	breakers  BreakerRegistry
	limiters  LimiterRegistry
	collector OutcomeCollector
	logger    *slog.Logger
}

func New(breakers BreakerRegistry, limiters LimiterRegistry, col OutcomeCollector, logger *slog.Logger) *Handler {
	return &Handler{
		breakers:  breakers,
		limiters:  limiters,
		collector: col,
		logger:    logger,
	}
}

// RegisterAdmin mounts the operator routes. The caller is responsible for
// wrapping them with operator authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/admission/status", h.HandleStatus)
	r.Get("/admin/admission/metrics", h.HandleMetrics)
	r.Post("/admin/admission/breakers/reset", h.HandleResetBreakers)
	r.Post("/admin/admission/limiters/reset", h.HandleResetLimiters)
	r.Post("/admin/admission/metrics/reset", h.HandleResetMetrics)
}

// HandleStatus implements GET /admin/admission/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, &models.StatusResponse{
		AllHealthy: h.breakers.AllHealthy(),
		Breakers:   h.breakers.Statuses(),
		Limiters:   h.limiters.Snapshots(),
	})
}

// HandleMetrics implements GET /admin/admission/metrics.
func (h *Handler) HandleMetrics(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.collector.Snapshot())
}

// HandleResetBreakers implements POST /admin/admission/breakers/reset.
// An empty or absent name resets every breaker.
func (h *Handler) HandleResetBreakers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeResetRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if req.Name == "" {
		h.breakers.ResetAll()
		h.logAction(ctx, "admission_breakers_reset", "scope", "all")
		httputil.WriteJSON(w, http.StatusOK, &models.ResetResponse{Reset: "all", Status: "ok"})
		return
	}

	if err := h.breakers.Reset(req.Name); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logAction(ctx, "admission_breakers_reset", "scope", req.Name)
	httputil.WriteJSON(w, http.StatusOK, &models.ResetResponse{Reset: req.Name, Status: "ok"})
}

// HandleResetLimiters implements POST /admin/admission/limiters/reset.
// An empty or absent client_id resets every bucket.
func (h *Handler) HandleResetLimiters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeResetRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if req.ClientID == "" {
		h.limiters.ResetAll()
		h.logAction(ctx, "admission_limiters_reset", "scope", "all")
		httputil.WriteJSON(w, http.StatusOK, &models.ResetResponse{Reset: "all", Status: "ok"})
		return
	}

	h.limiters.ResetClient(req.ClientID)
	h.logAction(ctx, "admission_limiters_reset", "scope", "client")
	httputil.WriteJSON(w, http.StatusOK, &models.ResetResponse{Reset: "client", Status: "ok"})
}

// HandleResetMetrics implements POST /admin/admission/metrics/reset.
func (h *Handler) HandleResetMetrics(w http.ResponseWriter, r *http.Request) {
	h.collector.Reset()
	h.logAction(r.Context(), "admission_metrics_reset")
	httputil.WriteJSON(w, http.StatusOK, &models.ResetResponse{Reset: "all", Status: "ok"})
}

// decodeResetRequest parses the optional JSON body of a reset action.
// An empty body is valid and means "reset everything".
func decodeResetRequest(r *http.Request) (*models.ResetRequest, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, 4*1024)

	var req models.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return &models.ResetRequest{}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid reset request body")
	}
	return &req, nil
}

// logAction records an operator action with the actor and request id for the
// audit trail.
func (h *Handler) logAction(ctx context.Context, event string, attrs ...any) {
	args := append([]any{
		"actor", platformMW.GetOperatorActor(ctx),
		"request_id", requestcontext.RequestID(ctx),
	}, attrs...)
	h.logger.Info(event, args...)
}
