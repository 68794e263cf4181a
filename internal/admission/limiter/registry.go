package limiter

import (
	"log/slog"
	"sort"
	"time"

	"devotly/internal/admission/config"
	"devotly/internal/admission/models"
	"devotly/internal/platform/clock"
)

// Registry holds one adaptive limiter per route class. Unknown classes fall
// back to the general bucket with a log line; a misclassified route must
// never crash the request pipeline.
type Registry struct {
	limiters map[models.RouteClass]*AdaptiveLimiter
	logger   *slog.Logger
}

type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger *slog.Logger
	clk    clock.Clock
}

func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithRegistryClock(clk clock.Clock) RegistryOption {
	return func(o *registryOptions) {
		if clk != nil {
			o.clk = clk
		}
	}
}

// NewRegistry builds one limiter per configured bucket.
func NewRegistry(cfgs map[models.RouteClass]config.BucketConfig, opts ...RegistryOption) *Registry {
	o := &registryOptions{
		logger: slog.Default(),
		clk:    clock.NewReal(),
	}
	for _, opt := range opts {
		opt(o)
	}

	limiters := make(map[models.RouteClass]*AdaptiveLimiter, len(cfgs))
	for class, cfg := range cfgs {
		limiters[class] = New(class, cfg, o.clk)
	}
	return &Registry{limiters: limiters, logger: o.logger}
}

// Get returns the limiter for a route class, falling back to the general
// bucket when the class is unknown.
func (r *Registry) Get(class models.RouteClass) *AdaptiveLimiter {
	if l, ok := r.limiters[class]; ok {
		return l
	}
	r.logger.Warn("unknown limiter class, falling back to general", "class", class)
	return r.limiters[models.ClassGeneral]
}

// SweepAll garbage-collects idle client entries across every bucket.
// Returns the total number of entries removed.
func (r *Registry) SweepAll(idleThreshold time.Duration) int {
	removed := 0
	for _, l := range r.limiters {
		removed += l.SweepIdle(idleThreshold)
	}
	return removed
}

// Snapshots summarizes every bucket, sorted by class for stable output.
func (r *Registry) Snapshots() []models.BucketSnapshot {
	snapshots := make([]models.BucketSnapshot, 0, len(r.limiters))
	for _, l := range r.limiters {
		snapshots = append(snapshots, l.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Class < snapshots[j].Class })
	return snapshots
}

// ResetClient deletes one client's entry in every bucket.
func (r *Registry) ResetClient(clientID string) {
	for _, l := range r.limiters {
		l.ResetClient(clientID)
	}
	r.logger.Info("limiter entries reset by operator", "client_present", clientID != "")
}

// ResetAll deletes every client entry in every bucket.
func (r *Registry) ResetAll() {
	for _, l := range r.limiters {
		l.ResetAll()
	}
	r.logger.Info("all limiter entries reset by operator")
}
