package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devotly/internal/cards/models"
	"devotly/internal/transport/httputil"
	dErrors "devotly/pkg/domain-errors"
	"devotly/pkg/requestcontext"
)

// Service defines the card operations the handlers need.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	CreateCard(ctx context.Context, req *models.CreateCardRequest) (*models.Card, error)
	GetCard(ctx context.Context, id string) (*models.Card, error)
	GetCardBySlug(ctx context.Context, slug string) (*models.Card, error)
	UpdateCard(ctx context.Context, id string, req *models.UpdateCardRequest) (*models.Card, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/api/cards/{id}", h.HandleGetCard)
	r.Get("/api/cards/slug/{slug}", h.HandleGetCardBySlug)
}

func (h *Handler) RegisterWrite(r chi.Router) {
	r.Post("/api/cards", h.HandleCreateCard)
	r.Put("/api/cards/{id}", h.HandleUpdateCard)
}

// HandleCreateCard creates a draft card.
func (h *Handler) HandleCreateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndValidate[models.CreateCardRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	card, err := h.service.CreateCard(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "create card failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, card)
}

// HandleGetCard returns one card by id.
func (h *Handler) HandleGetCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	card, err := h.service.GetCard(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "get card failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, card)
}

// HandleGetCardBySlug returns one card by its public slug.
func (h *Handler) HandleGetCardBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	card, err := h.service.GetCardBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, card)
}

// HandleUpdateCard applies partial edits to a draft card.
func (h *Handler) HandleUpdateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndValidate[models.UpdateCardRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	card, err := h.service.UpdateCard(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.ErrorContext(ctx, "update card failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, card)
}
