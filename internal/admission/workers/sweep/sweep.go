// Package sweep runs the periodic garbage collection of idle limiter entries,
// bounding memory growth under high client churn.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"devotly/internal/admission/config"
	"devotly/internal/admission/metrics"
)

// LimiterRegistry is the sweep target.
type LimiterRegistry interface {
	SweepAll(idleThreshold time.Duration) int
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// Worker deletes idle client entries on a fixed interval.
type Worker struct {
	limiters LimiterRegistry
	cfg      config.SweepConfig
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(limiters LimiterRegistry, cfg config.SweepConfig, opts ...Option) *Worker {
	w := &Worker{
		limiters: limiters,
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the sweep loop until the context is canceled.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			removed := w.RunOnce()
			duration := time.Since(start)

			w.logger.Info("limiter_sweep_completed",
				"entries_removed", removed,
				"duration_ms", duration.Milliseconds(),
			)

			if w.metrics != nil {
				w.metrics.IncrementSweepRuns("success")
				w.metrics.AddSweepEntriesRemoved(removed)
				w.metrics.ObserveSweepDuration(duration.Seconds())
			}

		case <-ctx.Done():
			w.logger.Info("limiter sweep worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single sweep. Logging is handled by the caller (Start).
func (w *Worker) RunOnce() int {
	return w.limiters.SweepAll(w.cfg.IdleThreshold)
}
