package models

// RateLimitExceededResponse is the JSON body returned with HTTP 429.
type RateLimitExceededResponse struct {
	Error      string `json:"error"` // "rate_limit_exceeded"
	Status     int    `json:"status"`
	RetryAfter int    `json:"retryAfter"` // seconds
}

// CircuitOpenResponse is the JSON body returned with HTTP 503 when the route's
// downstream dependency breaker is open.
type CircuitOpenResponse struct {
	Error      string `json:"error"` // "service_unavailable"
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"` // seconds
	Status     int    `json:"status"`
}

// StatusResponse is the operator view of the whole admission layer.
type StatusResponse struct {
	AllHealthy bool             `json:"all_healthy"`
	Breakers   []BreakerStatus  `json:"breakers"`
	Limiters   []BucketSnapshot `json:"limiters"`
}

// ResetRequest names a single breaker or client to reset; empty means all.
type ResetRequest struct {
	Name     string `json:"name,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

// ResetResponse acknowledges an operator reset.
type ResetResponse struct {
	Reset  string `json:"reset"`  // "all" or the specific name
	Status string `json:"status"` // "ok"
}
