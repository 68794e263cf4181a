// Package http assembles the route table: platform middleware first, then
// one admission guard per route group, then the business handlers.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	admissioncfg "devotly/internal/admission/config"
	admissionhandler "devotly/internal/admission/handler"
	admissionmw "devotly/internal/admission/middleware"
	"devotly/internal/admission/models"
	cardhandler "devotly/internal/cards/handler"
	"devotly/internal/payments"
	"devotly/internal/platform/config"
	"devotly/internal/platform/health"
	platformMW "devotly/internal/platform/middleware"
	"devotly/internal/tracking"
	"devotly/internal/uploads"
	"devotly/internal/verse"
)

// Dependencies carries everything the router composes. All fields are
// required; construction happens once in main.
type Dependencies struct {
	Logger *slog.Logger
	Config config.Server

	Admission *admissionmw.Admission
	Admin     *admissionhandler.Handler

	Health   *health.Handler
	Cards    *cardhandler.Handler
	Payments *payments.Handler
	Tracking *tracking.Handler
	Uploads  *uploads.Handler
	Verses   *verse.Handler

	OperatorTokens platformMW.OperatorTokenValidator
}

// NewRouter builds the full route table.
func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	metadata := platformMW.NewMetadata(platformMW.MetadataConfig{
		TrustedProxies: deps.Config.TrustedProxies,
	})

	r.Use(platformMW.Recovery(deps.Logger))
	r.Use(platformMW.RequestID)
	r.Use(metadata.Handler)
	r.Use(platformMW.Logger(deps.Logger))
	r.Use(platformMW.Timeout(deps.Config.RequestTimeout))

	// Probes and scrape endpoint stay outside the admission layer so a
	// saturated limiter can never mark the process unhealthy.
	deps.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	// Reads: general bucket, no downstream dependency.
	r.Group(func(r chi.Router) {
		r.Use(deps.Admission.Guard(models.ClassGeneral, ""))
		deps.Cards.RegisterRead(r)
		deps.Verses.Register(r)
	})

	// Card creation and edits: tighter creation bucket.
	r.Group(func(r chi.Router) {
		r.Use(deps.Admission.Guard(models.ClassCreation, ""))
		deps.Cards.RegisterWrite(r)
	})

	// Image uploads: storage-provider breaker driven by status feedback.
	r.Group(func(r chi.Router) {
		r.Use(deps.Admission.Guard(models.ClassUploads, admissioncfg.BreakerUploads))
		deps.Uploads.Register(r)
	})

	// View tracking: high-volume short-window bucket, analytics breaker.
	r.Group(func(r chi.Router) {
		r.Use(deps.Admission.Guard(models.ClassTracking, admissioncfg.BreakerTracking))
		deps.Tracking.Register(r)
	})

	// Payment webhooks: general bucket; the handler gates the processor
	// lookup through the payment-events breaker itself.
	r.Group(func(r chi.Router) {
		r.Use(deps.Admission.Guard(models.ClassGeneral, ""))
		deps.Payments.Register(r)
	})

	// Operator endpoints: authenticated, outside the admission layer so an
	// operator can always reach reset during an incident.
	r.Group(func(r chi.Router) {
		r.Use(platformMW.RequireOperator(deps.Config.AdminToken, deps.OperatorTokens, deps.Logger))
		deps.Admin.RegisterAdmin(r)
	})

	return r
}

// NewServer wraps the router in an http.Server with sane timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
