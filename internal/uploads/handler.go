package uploads

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"devotly/internal/transport/httputil"
	dErrors "devotly/pkg/domain-errors"
	"devotly/pkg/requestcontext"
)

// maxUploadBytes bounds card images; anything larger is rejected before the
// storage provider sees a byte.
const maxUploadBytes = 5 << 20

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Handler accepts card image uploads. Failures from the storage provider
// surface as 502/503 and drive the uploads circuit breaker via the
// admission middleware's status feedback.
type Handler struct {
	storage Storage
	logger  *slog.Logger
}

func NewHandler(storage Storage, logger *slog.Logger) *Handler {
	return &Handler{storage: storage, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/uploads", h.HandleUpload)
}

// HandleUpload stores one image and returns its public URL.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	contentType := strings.TrimSpace(strings.Split(r.Header.Get("Content-Type"), ";")[0])
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "unsupported image type"))
		return
	}

	key := uuid.NewString() + ext
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)

	stored, err := h.storage.Put(ctx, key, contentType, body)
	if err != nil {
		h.logger.ErrorContext(ctx, "upload failed",
			"error", err,
			"key", key,
			"request_id", requestID,
		)
		if dErrors.HasCode(err, dErrors.CodeUnavailable) {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "upload failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, stored)
}
