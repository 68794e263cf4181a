package breaker

import "time"

// failureEvent is one recorded downstream failure.
type failureEvent struct {
	at     time.Time
	reason string
}

// failureWindow is a sliding window of failure events owned by one breaker.
// Entries are append-only and pruned lazily; after prune, every retained entry
// satisfies now - at < monitorWindow.
type failureWindow struct {
	events  []failureEvent
	monitor time.Duration
}

func newFailureWindow(monitor time.Duration) *failureWindow {
	return &failureWindow{monitor: monitor}
}

// record appends a failure and prunes expired entries.
func (w *failureWindow) record(now time.Time, reason string) {
	w.events = append(w.events, failureEvent{at: now, reason: reason})
	w.prune(now)
}

// prune drops entries older than the monitor window. Pruning is idempotent:
// pruning twice at the same instant yields the same window.
func (w *failureWindow) prune(now time.Time) {
	cutoff := now.Add(-w.monitor)
	i := 0
	for ; i < len(w.events); i++ {
		if w.events[i].at.After(cutoff) {
			break
		}
	}
	w.events = w.events[i:]
}

// size returns the failure count after pruning.
func (w *failureWindow) size(now time.Time) int {
	w.prune(now)
	return len(w.events)
}

// last returns the most recent failure time, or zero if the window is empty.
func (w *failureWindow) last() time.Time {
	if len(w.events) == 0 {
		return time.Time{}
	}
	return w.events[len(w.events)-1].at
}

func (w *failureWindow) clear() {
	w.events = nil
}
