package models

import "time"

// RouteClass selects which limiter bucket governs a route.
type RouteClass string

const (
	// ClassGeneral: default bucket for reads and miscellaneous routes.
	ClassGeneral RouteClass = "general"
	// ClassCreation: card creation and mutation routes.
	ClassCreation RouteClass = "creation"
	// ClassUploads: image upload routes (storage-provider bound).
	ClassUploads RouteClass = "uploads"
	// ClassTracking: analytics pixel forwarding routes (high volume, short window).
	ClassTracking RouteClass = "tracking"
)

func (c RouteClass) IsValid() bool {
	switch c {
	case ClassGeneral, ClassCreation, ClassUploads, ClassTracking:
		return true
	}
	return false
}

func (c RouteClass) String() string {
	return string(c)
}

// BreakerState is the circuit breaker state machine position.
type BreakerState string

const (
	StateClosed   BreakerState = "CLOSED"
	StateOpen     BreakerState = "OPEN"
	StateHalfOpen BreakerState = "HALF_OPEN"
)

// Decision is the outcome of one limiter admission check.
type Decision struct {
	Allowed    bool
	Limit      int // dynamic capacity applied to this check
	Remaining  int
	RetryAfter int // seconds, only set when not allowed
	ResetAt    time.Time
}

// BreakerStatus is a side-effect-free snapshot of one circuit breaker.
type BreakerStatus struct {
	Name          string       `json:"name"`
	State         BreakerState `json:"state"`
	FailureCount  int          `json:"failure_count"`
	LastFailureAt *time.Time   `json:"last_failure_at,omitempty"`
	NextProbeAt   *time.Time   `json:"next_probe_at,omitempty"`
	Healthy       bool         `json:"healthy"`
}

// BucketSnapshot summarizes one limiter bucket for the operator endpoint.
type BucketSnapshot struct {
	Class         RouteClass `json:"class"`
	WindowSeconds int        `json:"window_seconds"`
	MaxBase       int        `json:"max_base"`
	ActiveClients int        `json:"active_clients"`
	TotalRejected int64      `json:"total_rejected"`
	TotalAdmitted int64      `json:"total_admitted"`
}

// ClientState mirrors one client's limiter entry for operator inspection.
// Identifiers are anonymized before this ever leaves the process.
type ClientState struct {
	RequestsInWindow int        `json:"requests_in_window"`
	ViolationCount   int        `json:"violation_count"`
	GoodStreak       int        `json:"good_streak"`
	LastViolationAt  *time.Time `json:"last_violation_at,omitempty"`
}
