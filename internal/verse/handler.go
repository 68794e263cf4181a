package verse

import (
	"net/http"
	"net/url"
	"sort"

	"github.com/go-chi/chi/v5"

	"devotly/internal/transport/httputil"
	dErrors "devotly/pkg/domain-errors"
)

// Handler serves the public verse catalog.
type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/verses", h.HandleListVerses)
	r.Get("/api/verses/{ref}", h.HandleGetVerse)
}

// HandleListVerses returns the full catalog sorted by reference.
func (h *Handler) HandleListVerses(w http.ResponseWriter, _ *http.Request) {
	verses := h.catalog.All()
	sort.Slice(verses, func(i, j int) bool { return verses[i].Ref < verses[j].Ref })
	httputil.WriteJSON(w, http.StatusOK, verses)
}

// HandleGetVerse returns one catalog entry. The path segment is URL-escaped
// ("John%203:16").
func (h *Handler) HandleGetVerse(w http.ResponseWriter, r *http.Request) {
	ref, err := url.PathUnescape(chi.URLParam(r, "ref"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid verse reference"))
		return
	}

	v, ok := h.catalog.Get(ref)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "verse not found"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, v)
}
