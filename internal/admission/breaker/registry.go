package breaker

import (
	"log/slog"
	"sort"

	"devotly/internal/admission/config"
	"devotly/internal/admission/models"
	"devotly/internal/platform/clock"
	dErrors "devotly/pkg/domain-errors"
)

// Registry owns the fixed, named set of circuit breakers, one per logical
// downstream dependency. Breakers are created at startup and live until
// process exit; state resets on restart.
type Registry struct {
	breakers map[string]*CircuitBreaker
	logger   *slog.Logger
}

type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger *slog.Logger
	clk    clock.Clock
	hook   func(name string, from, to models.BreakerState)
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

func WithRegistryStateChangeHook(hook func(name string, from, to models.BreakerState)) RegistryOption {
	return func(o *registryOptions) {
		o.hook = hook
	}
}

// NewRegistry builds one breaker per configured downstream dependency.
func NewRegistry(cfgs map[string]config.BreakerConfig, opts ...RegistryOption) *Registry {
	o := &registryOptions{
		logger: slog.Default(),
		clk:    clock.NewReal(),
	}
	for _, opt := range opts {
		opt(o)
	}

	breakers := make(map[string]*CircuitBreaker, len(cfgs))
	for name, cfg := range cfgs {
		breakers[name] = New(name, cfg,
			WithLogger(o.logger),
			WithClock(o.clk),
			WithStateChangeHook(o.hook),
		)
	}
	return &Registry{breakers: breakers, logger: o.logger}
}

// Get returns the named breaker. A missing name is a configuration error: the
// caller must log it and proceed unprotected, never fail the request pipeline.
func (r *Registry) Get(name string) (*CircuitBreaker, bool) {
	b, ok := r.breakers[name]
	return b, ok
}

// AllHealthy reports whether every breaker is CLOSED.
func (r *Registry) AllHealthy() bool {
	for _, b := range r.breakers {
		if !b.Status().Healthy {
			return false
		}
	}
	return true
}

// Statuses returns a snapshot of every breaker, sorted by name for stable output.
func (r *Registry) Statuses() []models.BreakerStatus {
	statuses := make([]models.BreakerStatus, 0, len(r.breakers))
	for _, b := range r.breakers {
		statuses = append(statuses, b.Status())
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// Reset forces the named breaker CLOSED.
func (r *Registry) Reset(name string) error {
	b, ok := r.breakers[name]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "unknown breaker: "+name)
	}
	b.Reset()
	r.logger.Info("breaker reset by operator", "breaker", name)
	return nil
}

// ResetAll forces every breaker CLOSED.
func (r *Registry) ResetAll() {
	for name, b := range r.breakers {
		b.Reset()
		r.logger.Info("breaker reset by operator", "breaker", name)
	}
}
