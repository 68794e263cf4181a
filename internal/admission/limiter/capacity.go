package limiter

import (
	"time"

	"devotly/internal/admission/config"
)

// minimumCapacity is the floor below which capacity never drops, so a
// recovering client is never locked out entirely.
const minimumCapacity = 5

// burstStreakThreshold is the good-behavior streak required before burst
// headroom is granted.
const burstStreakThreshold = 5

// punitiveWindowFactor scales the window to decide how long a past violation
// keeps a client on the reduced cap.
const punitiveWindowFactor = 5

// burstCapFactor caps the burst reward at a multiple of the baseline.
const burstCapFactor = 3

// dynamicCapacity computes the request ceiling for one client at one instant.
// It is a pure function of the client's recent behavior and the bucket config:
//
//   - sustained good behavior (no violations, streak above threshold) earns
//     burst headroom, capped at 3x the baseline;
//   - a recent violation (within window*5) earns a punitive reduced cap,
//     floored at 5;
//   - otherwise the baseline applies.
func dynamicCapacity(violations int, lastViolationAt time.Time, streak int, now time.Time, cfg config.BucketConfig) int {
	if violations == 0 && streak > burstStreakThreshold {
		burst := int(float64(cfg.MaxBase) * cfg.BurstMultiplier)
		return min(burst, cfg.MaxBase*burstCapFactor)
	}

	if violations > 0 && now.Sub(lastViolationAt) < cfg.Window*punitiveWindowFactor {
		return max(cfg.MaxBase/2, minimumCapacity)
	}

	return cfg.MaxBase
}
