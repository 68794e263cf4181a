// Package health exposes the liveness, readiness, and status probes. The
// status endpoint additionally reports operational detail (breaker summary,
// limiter footprint) supplied by the composition root, so an operator can see
// the admission layer's shape without hitting the authenticated admin API.
package health

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"devotly/internal/transport/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// CheckFunc reports the health of one dependency for the readiness probe.
// Nil means healthy.
type CheckFunc func() error

// DetailFunc supplies one named block of operational detail for the status
// endpoint. The returned value is serialized as-is.
type DetailFunc func() any

// Handler serves the probe endpoints.
type Handler struct {
	startedAt   time.Time
	environment string

	mu      sync.RWMutex
	checks  map[string]CheckFunc
	details map[string]DetailFunc
}

func New(environment string) *Handler {
	return &Handler{
		startedAt:   time.Now(),
		environment: environment,
		checks:      make(map[string]CheckFunc),
		details:     make(map[string]DetailFunc),
	}
}

// RegisterCheck adds a named readiness check.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// RegisterDetail adds a named detail block to the status endpoint.
func (h *Handler) RegisterDetail(name string, detail DetailFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.details[name] = detail
}

// Register mounts the probe routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

// HandleLiveness answers 200 whenever the process is serving requests.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessResponse reports each registered check, sorted by name.
type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckResult is one readiness check's outcome.
type CheckResult struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// HandleReadiness runs every registered check and answers 503 if any fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		names = append(names, name)
		checks[name] = check
	}
	h.mu.RUnlock()
	sort.Strings(names)

	response := ReadinessResponse{Status: "ready"}
	ready := true
	for _, name := range names {
		result := CheckResult{Name: name, State: "up"}
		if err := checks[name](); err != nil {
			result.State = "down"
			result.Error = err.Error()
			ready = false
		}
		response.Checks = append(response.Checks, result)
	}

	if !ready {
		response.Status = "not_ready"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, response)
}

// StatusResponse is the public health summary. Details hold the registered
// operational blocks; raw client identities never appear here.
type StatusResponse struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	Environment   string         `json:"environment"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Timestamp     string         `json:"timestamp"`
	Details       map[string]any `json:"details,omitempty"`
}

// HandleStatus reports version, uptime, and the registered detail blocks.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	details := make(map[string]any, len(h.details))
	for name, detail := range h.details {
		details[name] = detail()
	}
	h.mu.RUnlock()

	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:        "healthy",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Details:       details,
	})
}
