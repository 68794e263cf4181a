package payments

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"devotly/internal/admission/breaker"
	"devotly/internal/admission/models"
	cardmodels "devotly/internal/cards/models"
	"devotly/internal/transport/httputil"
	dErrors "devotly/pkg/domain-errors"
	"devotly/pkg/requestcontext"
	"devotly/pkg/secrets"
)

// WebhookRequest is the processor notification body. Only the event id is
// trusted; payment state is always re-fetched from the processor.
type WebhookRequest struct {
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (r *WebhookRequest) Validate() error {
	if r.Data.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "event id is required")
	}
	return nil
}

// CardService is the slice of the card service the webhook needs.
type CardService interface {
	MarkPaid(ctx context.Context, id string) (*cardmodels.Card, error)
}

// Handler processes payment processor webhooks. The processor lookup runs
// under the payment-events circuit breaker so a degraded processor cannot
// tie up webhook workers.
type Handler struct {
	events     EventSource
	cards      CardService
	gate       *breaker.CircuitBreaker
	secretHash string
	logger     *slog.Logger
}

func New(events EventSource, cards CardService, gate *breaker.CircuitBreaker, secretHash string, logger *slog.Logger) *Handler {
	return &Handler{
		events:     events,
		cards:      cards,
		gate:       gate,
		secretHash: secretHash,
		logger:     logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/payments/webhook", h.HandleWebhook)
}

// HandleWebhook verifies the shared webhook secret, resolves the event at
// the processor under breaker control, and marks the referenced card paid
// when the charge is approved.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := h.authorize(r); err != nil {
		h.logger.WarnContext(ctx, "webhook token rejected", "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndValidate[WebhookRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var event *Event
	err := h.gate.Execute(ctx, "event_fetch", func(ctx context.Context) error {
		fetched, fetchErr := h.events.FetchEvent(ctx, req.Data.ID)
		if fetchErr != nil {
			return fetchErr
		}
		event = fetched
		return nil
	})
	if err != nil {
		var open *breaker.CircuitOpenError
		if errors.As(err, &open) {
			w.Header().Set("Retry-After", strconv.Itoa(open.RetryAfter))
			httputil.WriteJSON(w, http.StatusServiceUnavailable, &models.CircuitOpenResponse{
				Error:      "service_unavailable",
				Message:    "Payment confirmation is temporarily unavailable. The processor will retry.",
				RetryAfter: open.RetryAfter,
				Status:     http.StatusServiceUnavailable,
			})
			return
		}
		h.logger.ErrorContext(ctx, "payment event fetch failed",
			"error", err,
			"event_id", req.Data.ID,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	if !event.Approved() {
		// Pending and rejected events are acknowledged so the processor
		// stops retrying; only approval changes card state.
		h.logger.InfoContext(ctx, "payment event ignored",
			"event_id", event.ID,
			"status", event.Status,
		)
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	card, err := h.cards.MarkPaid(ctx, event.ExternalID)
	if err != nil {
		h.logger.ErrorContext(ctx, "mark paid failed",
			"error", err,
			"card_id", event.ExternalID,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "payment confirmed", "card_id", card.ID, "event_id", event.ID)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "confirmed", "card_id": card.ID})
}

func (h *Handler) authorize(r *http.Request) error {
	token := r.Header.Get("X-Webhook-Token")
	if token == "" || h.secretHash == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "webhook token required")
	}
	return secrets.Verify(token, h.secretHash)
}
