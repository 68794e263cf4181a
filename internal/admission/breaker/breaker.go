// Package breaker implements the OPEN/HALF_OPEN/CLOSED circuit breaker that
// guards calls to downstream third-party services (payment processor, storage
// provider, analytics endpoints).
package breaker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"devotly/internal/admission/config"
	"devotly/internal/admission/models"
	"devotly/internal/platform/clock"
)

// CircuitOpenError is returned by Execute without invoking the wrapped
// operation when the breaker is open and the cool-down has not elapsed.
type CircuitOpenError struct {
	Name       string
	RetryAfter int // seconds until the next probe is allowed
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit %q is open, retry in %ds", e.Name, e.RetryAfter)
}

// Operation is the unit of downstream work guarded by a breaker.
type Operation func(ctx context.Context) error

// CircuitBreaker wraps a downstream dependency with fail-fast protection.
// State bookkeeping runs under a mutex and never suspends; the wrapped
// operation itself runs outside the critical section.
type CircuitBreaker struct {
	name string
	cfg  config.BreakerConfig

	mu             sync.Mutex
	state          models.BreakerState
	window         *failureWindow
	nextProbeAt    time.Time // valid only while state is OPEN
	probeInFlight  bool      // at most one probe per HALF_OPEN episode
	probeStartedAt time.Time

	clk           clock.Clock
	logger        *slog.Logger
	onStateChange func(name string, from, to models.BreakerState)
}

type Option func(*CircuitBreaker)

func WithLogger(logger *slog.Logger) Option {
	return func(b *CircuitBreaker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithClock(clk clock.Clock) Option {
	return func(b *CircuitBreaker) {
		if clk != nil {
			b.clk = clk
		}
	}
}

// WithStateChangeHook registers a callback invoked on every state transition.
// Used by the registry to mirror transitions into prometheus.
func WithStateChangeHook(hook func(name string, from, to models.BreakerState)) Option {
	return func(b *CircuitBreaker) {
		b.onStateChange = hook
	}
}

func New(name string, cfg config.BreakerConfig, opts ...Option) *CircuitBreaker {
	b := &CircuitBreaker{
		name:   name,
		cfg:    cfg,
		state:  models.StateClosed,
		window: newFailureWindow(cfg.MonitorWindow),
		clk:    clock.NewReal(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the breaker identifier.
func (b *CircuitBreaker) Name() string {
	return b.name
}

// Execute runs op under breaker control.
//
// While OPEN and before the cool-down elapses it fails fast with
// *CircuitOpenError and never invokes op. Once the cool-down elapses the next
// call transitions to HALF_OPEN and runs op exactly once as a probe; a
// successful probe closes the circuit and clears the failure window, a failed
// probe re-opens it with a fresh cool-down. Downstream errors are always
// re-raised verbatim; the breaker observes failures, it never swallows them.
func (b *CircuitBreaker) Execute(ctx context.Context, reason string, op Operation) error {
	if err := b.admit(); err != nil {
		return err
	}

	// The downstream call happens outside the lock; it may suspend on I/O.
	err := op(ctx)
	if err != nil {
		b.onFailure(reason, err)
		return err
	}

	b.onSuccess()
	return nil
}

// Allow reports whether a call would currently be admitted, transitioning
// OPEN to HALF_OPEN when the cool-down has elapsed. Middleware uses this to
// reject requests before the business handler runs; the handler's final
// status is then fed back via RecordSuccess/RecordFailure.
func (b *CircuitBreaker) Allow() error {
	return b.admit()
}

// RecordSuccess feeds a successful downstream outcome into the breaker.
func (b *CircuitBreaker) RecordSuccess() {
	b.onSuccess()
}

// RecordFailure feeds a failed downstream outcome into the breaker. The
// reason string is diagnostic only; it never influences decisions.
func (b *CircuitBreaker) RecordFailure(reason string) {
	b.onFailure(reason, nil)
}

func (b *CircuitBreaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clk.Now()
	switch b.state {
	case models.StateClosed:
		return nil
	case models.StateOpen:
		if now.Before(b.nextProbeAt) {
			return &CircuitOpenError{Name: b.name, RetryAfter: retryAfterSeconds(now, b.nextProbeAt)}
		}
		// Cool-down elapsed: this caller becomes the probe.
		b.transition(models.StateHalfOpen)
		b.probeInFlight = true
		b.probeStartedAt = now
		return nil
	case models.StateHalfOpen:
		// A probe whose outcome never came back (lost to a panic upstream)
		// may be taken over after one cool-down period.
		if b.probeInFlight && now.Sub(b.probeStartedAt) < b.cfg.OpenDuration {
			return &CircuitOpenError{Name: b.name, RetryAfter: retryAfterSeconds(now, b.probeStartedAt.Add(b.cfg.OpenDuration))}
		}
		b.probeInFlight = true
		b.probeStartedAt = now
		return nil
	}
	return nil
}

func (b *CircuitBreaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == models.StateHalfOpen {
		b.transition(models.StateClosed)
		b.window.clear()
		b.probeInFlight = false
		b.nextProbeAt = time.Time{}
		b.logger.Info("circuit closed after successful probe", "breaker", b.name)
	}
}

func (b *CircuitBreaker) onFailure(reason string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clk.Now()
	b.window.record(now, reason)
	failures := b.window.size(now)

	if b.state == models.StateHalfOpen {
		// A failed probe must not silently return to CLOSED.
		b.trip(now, failures, reason, err)
		b.probeInFlight = false
		return
	}

	if b.state == models.StateClosed && failures >= b.cfg.FailureThreshold {
		b.trip(now, failures, reason, err)
	}
}

// trip forces the breaker OPEN and schedules the next probe. Caller holds the lock.
func (b *CircuitBreaker) trip(now time.Time, failures int, reason string, err error) {
	b.transition(models.StateOpen)
	b.nextProbeAt = now.Add(b.cfg.OpenDuration)
	b.logger.Warn("circuit opened",
		"breaker", b.name,
		"failures_in_window", failures,
		"reason", reason,
		"error", err,
		"next_probe_at", b.nextProbeAt,
	)
}

// transition changes state and fires the hook. Caller holds the lock.
func (b *CircuitBreaker) transition(to models.BreakerState) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.onStateChange != nil {
		b.onStateChange(b.name, from, to)
	}
}

// Status returns a side-effect-free snapshot of the breaker.
func (b *CircuitBreaker) Status() models.BreakerStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	status := models.BreakerStatus{
		Name:         b.name,
		State:        b.state,
		FailureCount: b.window.size(b.clk.Now()),
		Healthy:      b.state == models.StateClosed,
	}
	if last := b.window.last(); !last.IsZero() {
		t := last
		status.LastFailureAt = &t
	}
	if b.state == models.StateOpen {
		t := b.nextProbeAt
		status.NextProbeAt = &t
	}
	return status
}

// Reset forces the breaker CLOSED, clearing the failure window and timers.
// Used for manual operator recovery.
func (b *CircuitBreaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.transition(models.StateClosed)
	b.window.clear()
	b.nextProbeAt = time.Time{}
	b.probeInFlight = false
}

// retryAfterSeconds rounds the remaining cool-down up to whole seconds so a
// client honoring Retry-After never lands inside the cool-down again.
func retryAfterSeconds(now, until time.Time) int {
	remaining := until.Sub(now)
	if remaining <= 0 {
		return 0
	}
	seconds := int((remaining + time.Second - 1) / time.Second)
	return seconds
}
