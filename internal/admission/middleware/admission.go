// Package middleware composes the limiter registry, breaker registry, and
// outcome collector into a single per-route admission decision executed
// before any business handler runs.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"devotly/internal/admission/breaker"
	"devotly/internal/admission/collector"
	"devotly/internal/admission/limiter"
	"devotly/internal/admission/metrics"
	"devotly/internal/admission/models"
	"devotly/internal/platform/privacy"
	"devotly/internal/transport/httputil"
	"devotly/pkg/requestcontext"
)

// Admission is the request-pipeline stage guarding every API route. The
// decision path (limiter check, breaker gate) is synchronous and never
// suspends; only the forwarded handler may block on I/O.
type Admission struct {
	limiters  *limiter.Registry
	breakers  *breaker.Registry
	collector *collector.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

type Option func(*Admission)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Admission) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Admission) {
		a.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(a *Admission) {
		if t != nil {
			a.tracer = t
		}
	}
}

func New(limiters *limiter.Registry, breakers *breaker.Registry, col *collector.Collector, opts ...Option) *Admission {
	a := &Admission{
		limiters:  limiters,
		breakers:  breakers,
		collector: col,
		logger:    slog.Default(),
		tracer:    otel.Tracer("devotly/admission"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Guard returns middleware enforcing the admission decision for one route:
// limiter check first, then (when breakerName is non-empty) the circuit gate
// for the route's downstream dependency. The handler's final status code is
// fed back into the breaker and always recorded in the collector.
func (a *Admission) Guard(class models.RouteClass, breakerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientID := requestcontext.ClientIP(ctx)

			ctx, span := a.tracer.Start(ctx, "admission.decide",
				trace.WithAttributes(
					attribute.String("admission.class", class.String()),
					attribute.String("admission.breaker", breakerName),
				))
			decision := a.limiters.Get(class).Admit(clientID)
			var gateErr *breaker.CircuitOpenError
			if decision.Allowed && breakerName != "" {
				if b, ok := a.breakers.Get(breakerName); ok {
					if err := b.Allow(); err != nil {
						var ce *breaker.CircuitOpenError
						if errors.As(err, &ce) {
							gateErr = ce
						}
					}
				} else {
					// Configuration error: log and proceed unprotected.
					a.logger.Warn("unknown breaker, proceeding unprotected",
						"breaker", breakerName,
						"path", r.URL.Path,
					)
				}
			}
			span.SetAttributes(
				attribute.Bool("admission.rate_limited", !decision.Allowed),
				attribute.Bool("admission.circuit_open", gateErr != nil),
			)
			span.End()
			r = r.WithContext(ctx)

			addRateLimitHeaders(w, decision)

			if !decision.Allowed {
				a.rejectRateLimited(w, r, class, clientID, decision)
				return
			}

			if gateErr != nil {
				a.rejectCircuitOpen(w, r, class, clientID, breakerName, gateErr)
				return
			}

			// Forward to the business handler, capturing its final status via
			// an explicit wrapper rather than intercepting writer internals.
			wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			a.feedBack(breakerName, wrapped.statusCode)
			a.record(r, class, clientID, wrapped.statusCode)
			if a.metrics != nil {
				a.metrics.IncrementAdmitted(class.String())
			}
		})
	}
}

// feedBack routes the handler's final status into the breaker: 429 and 5xx
// count as downstream failures, everything else completes successfully.
// Client errors (4xx) do not indicate a failing dependency.
func (a *Admission) feedBack(breakerName string, status int) {
	if breakerName == "" {
		return
	}
	b, ok := a.breakers.Get(breakerName)
	if !ok {
		return
	}
	if status == http.StatusTooManyRequests || status >= 500 {
		b.RecordFailure("http_" + strconv.Itoa(status))
		return
	}
	b.RecordSuccess()
}

func (a *Admission) rejectRateLimited(w http.ResponseWriter, r *http.Request, class models.RouteClass, clientID string, decision models.Decision) {
	a.logger.Info("request rate limited",
		"class", class,
		"path", r.URL.Path,
		"client_prefix", privacy.AnonymizeIP(clientID),
		"retry_after", decision.RetryAfter,
		"request_id", requestcontext.RequestID(r.Context()),
	)

	w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Status:     http.StatusTooManyRequests,
		RetryAfter: decision.RetryAfter,
	})

	a.record(r, class, clientID, http.StatusTooManyRequests)
	if a.metrics != nil {
		a.metrics.IncrementRateLimited(class.String())
	}
}

func (a *Admission) rejectCircuitOpen(w http.ResponseWriter, r *http.Request, class models.RouteClass, clientID, breakerName string, gateErr *breaker.CircuitOpenError) {
	a.logger.Warn("request rejected by open circuit",
		"breaker", breakerName,
		"class", class,
		"path", r.URL.Path,
		"retry_after", gateErr.RetryAfter,
		"request_id", requestcontext.RequestID(r.Context()),
	)

	w.Header().Set("Retry-After", strconv.Itoa(gateErr.RetryAfter))
	httputil.WriteJSON(w, http.StatusServiceUnavailable, &models.CircuitOpenResponse{
		Error:      "service_unavailable",
		Message:    "A dependent service is temporarily unavailable. Please try again later.",
		RetryAfter: gateErr.RetryAfter,
		Status:     http.StatusServiceUnavailable,
	})

	a.record(r, class, clientID, http.StatusServiceUnavailable)
	if a.metrics != nil {
		a.metrics.IncrementBreakerRejected(class.String(), breakerName)
	}
}

// record feeds the final outcome into the collector. Collector failures must
// never affect the request, and the collector itself never errors, so this
// stays a plain call.
func (a *Admission) record(r *http.Request, class models.RouteClass, clientID string, status int) {
	a.collector.RecordOutcome(collector.Outcome{
		Endpoint:   endpointKey(r),
		Method:     r.Method,
		ClientID:   clientID,
		UserAgent:  requestcontext.UserAgent(r.Context()),
		StatusCode: status,
	})
}

// endpointKey prefers the chi route pattern ("/api/cards/{id}") over the raw
// path to keep per-endpoint cardinality bounded.
func endpointKey(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// addRateLimitHeaders adds X-RateLimit-* headers to the response.
func addRateLimitHeaders(w http.ResponseWriter, decision models.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if !decision.ResetAt.IsZero() {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	}
}

// statusWriter wraps http.ResponseWriter to capture the final status code.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}
