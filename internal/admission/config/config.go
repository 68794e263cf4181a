package config

import (
	"time"

	"devotly/internal/admission/models"
)

// Config holds the tuning for every admission gate. The values are handed to
// the registries at construction; nothing in the hot path reads this directly.
type Config struct {
	// Limiter buckets by route class
	Buckets map[models.RouteClass]BucketConfig

	// Circuit breakers by downstream dependency name
	Breakers map[string]BreakerConfig

	// Sweep controls the idle-entry garbage collection
	Sweep SweepConfig
}

// BucketConfig defines adaptive limiter parameters for one route class.
type BucketConfig struct {
	Window          time.Duration // rolling window for request counting
	MaxBase         int           // baseline capacity per window
	BurstMultiplier float64       // reward multiplier for sustained good behavior
}

// BreakerConfig defines circuit breaker parameters for one downstream dependency.
type BreakerConfig struct {
	FailureThreshold int           // window failures that trip OPEN
	OpenDuration     time.Duration // cool-down before a HALF_OPEN probe
	MonitorWindow    time.Duration // rolling window for failure accounting
}

// SweepConfig defines the idle-entry cleanup worker parameters.
type SweepConfig struct {
	Interval      time.Duration // how often the sweep runs
	IdleThreshold time.Duration // entries idle beyond this are deleted
}

// Downstream dependency names. One breaker per third-party service.
const (
	BreakerPaymentEvents = "payment-events"
	BreakerUploads       = "uploads"
	BreakerTracking      = "tracking"
)

// DefaultConfig returns the production tuning.
func DefaultConfig() *Config {
	return &Config{
		Buckets: map[models.RouteClass]BucketConfig{
			models.ClassGeneral:  {Window: time.Minute, MaxBase: 100, BurstMultiplier: 1.5},
			models.ClassCreation: {Window: time.Minute, MaxBase: 20, BurstMultiplier: 1.5},
			models.ClassUploads:  {Window: time.Minute, MaxBase: 15, BurstMultiplier: 1.2},
			models.ClassTracking: {Window: 10 * time.Second, MaxBase: 50, BurstMultiplier: 2.0},
		},
		Breakers: map[string]BreakerConfig{
			BreakerPaymentEvents: {FailureThreshold: 5, OpenDuration: 30 * time.Second, MonitorWindow: time.Minute},
			BreakerUploads:       {FailureThreshold: 4, OpenDuration: 20 * time.Second, MonitorWindow: time.Minute},
			BreakerTracking:      {FailureThreshold: 6, OpenDuration: 15 * time.Second, MonitorWindow: 30 * time.Second},
		},
		Sweep: SweepConfig{
			Interval:      10 * time.Minute,
			IdleThreshold: 30 * time.Minute,
		},
	}
}

// GetBucket returns the limiter config for a route class, falling back to the
// general bucket when the class is unknown. A missing class is a configuration
// error and must never break request handling.
func (c *Config) GetBucket(class models.RouteClass) (BucketConfig, bool) {
	if cfg, ok := c.Buckets[class]; ok {
		return cfg, true
	}
	return c.Buckets[models.ClassGeneral], false
}
