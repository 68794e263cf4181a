package tracking

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devotly/internal/transport/httputil"
	"devotly/pkg/requestcontext"
)

// Handler accepts pixel events from card pages. The route's circuit breaker
// is driven by the admission middleware observing this handler's status
// codes, so forwarding failures surface as 502 here.
type Handler struct {
	forwarder Forwarder
	logger    *slog.Logger
}

func NewHandler(forwarder Forwarder, logger *slog.Logger) *Handler {
	return &Handler{forwarder: forwarder, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/track", h.HandleTrack)
}

// HandleTrack forwards one view event to the analytics backend.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	event, ok := httputil.DecodeAndValidate[ViewEvent](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.forwarder.Forward(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "tracking forward failed",
			"error", err,
			"card_id", event.CardID,
			"request_id", requestID,
		)
		httputil.WriteJSON(w, http.StatusBadGateway, map[string]string{"status": "dropped"})
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
