// Package limiter implements per-client adaptive rate limiting. Each client
// identity (source IP) gets a sliding window of request timestamps and a
// capacity that grows with sustained good behavior and shrinks after
// violations.
package limiter

import (
	"sync"
	"sync/atomic"
	"time"

	"devotly/internal/admission/config"
	"devotly/internal/admission/models"
	"devotly/internal/platform/clock"
)

// recoveryGateFactor scales the window to decide when good-behavior credit
// starts accruing again after a violation. This gate is deliberately
// independent of the punitive window check in dynamicCapacity: credit can
// accrue while the punitive cap still applies, so a recovering client earns
// its way back gradually instead of flipping between extremes.
const recoveryGateFactor = 2

// clientEntry is the per-identity limiter state. Created lazily on first
// request, deleted by the idle sweep.
type clientEntry struct {
	timestamps      []time.Time
	violationCount  int
	lastViolationAt time.Time
	goodStreak      int
}

// prune drops timestamps that have left the rolling window.
func (e *clientEntry) prune(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for ; i < len(e.timestamps); i++ {
		if e.timestamps[i].After(cutoff) {
			break
		}
	}
	e.timestamps = e.timestamps[i:]
}

// idle reports whether the entry carries no live state worth keeping.
func (e *clientEntry) idle(now time.Time, window, threshold time.Duration) bool {
	e.prune(now, window)
	if len(e.timestamps) > 0 {
		return false
	}
	return e.lastViolationAt.IsZero() || now.Sub(e.lastViolationAt) > threshold
}

// AdaptiveLimiter bounds the request rate per client identity for one route
// class. The admission decision is a synchronous critical section per
// limiter: two interleaved requests from the same client can never both
// claim the last slot.
type AdaptiveLimiter struct {
	class models.RouteClass
	cfg   config.BucketConfig
	clk   clock.Clock

	mu      sync.Mutex
	clients map[string]*clientEntry

	totalAdmitted atomic.Int64
	totalRejected atomic.Int64
}

func New(class models.RouteClass, cfg config.BucketConfig, clk clock.Clock) *AdaptiveLimiter {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &AdaptiveLimiter{
		class:   class,
		cfg:     cfg,
		clk:     clk,
		clients: make(map[string]*clientEntry),
	}
}

// Class returns the route class this limiter governs.
func (l *AdaptiveLimiter) Class() models.RouteClass {
	return l.class
}

// Admit decides whether one request from clientID may proceed.
//
// The window is pruned, the dynamic capacity computed, and the decision made
// atomically. On rejection the violation counter increments and the streak
// resets; on admission the request timestamp is recorded and recovery credit
// accrues once the cooling-off period (window*2) since the last violation has
// passed.
func (l *AdaptiveLimiter) Admit(clientID string) models.Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clk.Now()
	entry, ok := l.clients[clientID]
	if !ok {
		entry = &clientEntry{}
		l.clients[clientID] = entry
	}

	entry.prune(now, l.cfg.Window)
	capacity := dynamicCapacity(entry.violationCount, entry.lastViolationAt, entry.goodStreak, now, l.cfg)

	if len(entry.timestamps) >= capacity {
		entry.violationCount++
		entry.lastViolationAt = now
		entry.goodStreak = 0
		l.totalRejected.Add(1)
		return models.Decision{
			Allowed:    false,
			Limit:      capacity,
			Remaining:  0,
			RetryAfter: int(l.cfg.Window / time.Second),
			ResetAt:    now.Add(l.cfg.Window),
		}
	}

	entry.timestamps = append(entry.timestamps, now)
	if entry.lastViolationAt.IsZero() || now.Sub(entry.lastViolationAt) > l.cfg.Window*recoveryGateFactor {
		entry.goodStreak++
	}
	l.totalAdmitted.Add(1)

	resetAt := entry.timestamps[0].Add(l.cfg.Window)
	return models.Decision{
		Allowed:   true,
		Limit:     capacity,
		Remaining: capacity - len(entry.timestamps),
		ResetAt:   resetAt,
	}
}

// SweepIdle deletes entries with an empty window whose last violation is
// older than the threshold, bounding memory under high client churn.
// Returns the number of entries removed.
func (l *AdaptiveLimiter) SweepIdle(threshold time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clk.Now()
	removed := 0
	for clientID, entry := range l.clients {
		if entry.idle(now, l.cfg.Window, threshold) {
			delete(l.clients, clientID)
			removed++
		}
	}
	return removed
}

// ResetClient deletes one client's entry, returning it to a clean slate.
func (l *AdaptiveLimiter) ResetClient(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, clientID)
}

// ResetAll deletes every client entry.
func (l *AdaptiveLimiter) ResetAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clients = make(map[string]*clientEntry)
}

// ClientState returns a copy of one client's state for operator inspection,
// or false if the client has no entry.
func (l *AdaptiveLimiter) ClientState(clientID string) (models.ClientState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.clients[clientID]
	if !ok {
		return models.ClientState{}, false
	}
	entry.prune(l.clk.Now(), l.cfg.Window)

	state := models.ClientState{
		RequestsInWindow: len(entry.timestamps),
		ViolationCount:   entry.violationCount,
		GoodStreak:       entry.goodStreak,
	}
	if !entry.lastViolationAt.IsZero() {
		t := entry.lastViolationAt
		state.LastViolationAt = &t
	}
	return state, true
}

// Snapshot summarizes the bucket for the operator status endpoint.
func (l *AdaptiveLimiter) Snapshot() models.BucketSnapshot {
	l.mu.Lock()
	active := len(l.clients)
	l.mu.Unlock()

	return models.BucketSnapshot{
		Class:         l.class,
		WindowSeconds: int(l.cfg.Window / time.Second),
		MaxBase:       l.cfg.MaxBase,
		ActiveClients: active,
		TotalAdmitted: l.totalAdmitted.Load(),
		TotalRejected: l.totalRejected.Load(),
	}
}
