// Package collector aggregates per-request admission outcomes for the
// operator metrics endpoint. It is a pure observer: nothing here influences
// the admission decision.
package collector

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mssola/useragent"

	"devotly/internal/platform/clock"
)

const (
	maxEndpointErrors = 20
	maxGlobalErrors   = 50
	maxUserAgentLen   = 80
)

// Outcome describes one finished request.
type Outcome struct {
	Endpoint   string
	Method     string
	ClientID   string
	UserAgent  string
	StatusCode int
}

// ErrorEntry is one blocked-request record in the bounded error logs.
type ErrorEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Endpoint  string    `json:"endpoint"`
	Method    string    `json:"method"`
	ClientID  string    `json:"client_id"`
	UserAgent string    `json:"user_agent"`
}

// endpointStats is the per-route aggregate. The clients set holds raw
// identities internally; snapshots only ever expose its size.
type endpointStats struct {
	requests int64
	allowed  int64
	blocked  int64
	clients  map[string]struct{}
	errors   []ErrorEntry
}

// Collector tags every inbound request with its outcome and retains bounded
// rolling error logs. Process-wide single instance, resettable at runtime.
type Collector struct {
	mu sync.Mutex

	total   int64
	allowed int64
	blocked int64

	perEndpoint  map[string]*endpointStats
	recentErrors []ErrorEntry

	clk clock.Clock
}

func New(clk clock.Clock) *Collector {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &Collector{
		perEndpoint: make(map[string]*endpointStats),
		clk:         clk,
	}
}

// RecordOutcome ingests one finished request. A 429 status counts as blocked
// and lands in the error logs; everything else counts as allowed.
func (c *Collector) RecordOutcome(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++

	stats, ok := c.perEndpoint[o.Endpoint]
	if !ok {
		stats = &endpointStats{clients: make(map[string]struct{})}
		c.perEndpoint[o.Endpoint] = stats
	}
	stats.requests++
	stats.clients[o.ClientID] = struct{}{}

	if o.StatusCode == 429 {
		c.blocked++
		stats.blocked++

		entry := ErrorEntry{
			Timestamp: c.clk.Now(),
			Endpoint:  o.Endpoint,
			Method:    o.Method,
			ClientID:  o.ClientID,
			UserAgent: normalizeUserAgent(o.UserAgent),
		}
		stats.errors = appendBounded(stats.errors, entry, maxEndpointErrors)
		c.recentErrors = appendBounded(c.recentErrors, entry, maxGlobalErrors)
		return
	}

	c.allowed++
	stats.allowed++
}

// appendBounded appends newest-last, dropping the oldest entry at capacity.
func appendBounded(log []ErrorEntry, entry ErrorEntry, limit int) []ErrorEntry {
	log = append(log, entry)
	if len(log) > limit {
		log = log[len(log)-limit:]
	}
	return log
}

// normalizeUserAgent reduces a raw User-Agent header to a short
// "browser/version (os)" label, truncating unparseable strings.
func normalizeUserAgent(raw string) string {
	if raw == "" {
		return "unknown"
	}

	ua := useragent.New(raw)
	browser, version := ua.Browser()
	if browser != "" {
		label := browser
		if version != "" {
			if major, _, ok := strings.Cut(version, "."); ok {
				version = major
			}
			label += "/" + version
		}
		if os := ua.OS(); os != "" {
			label += " (" + os + ")"
		}
		return truncate(label, maxUserAgentLen)
	}

	return truncate(raw, maxUserAgentLen)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Totals is the process-wide counter triple.
type Totals struct {
	Total   int64 `json:"total"`
	Allowed int64 `json:"allowed"`
	Blocked int64 `json:"blocked"`
}

// EndpointSnapshot is the externally-safe per-route view: the distinct client
// set is reduced to a count and raw identities are never exposed.
type EndpointSnapshot struct {
	Requests        int64        `json:"requests"`
	Allowed         int64        `json:"allowed"`
	Blocked         int64        `json:"blocked"`
	DistinctClients int          `json:"distinct_clients"`
	RecentErrors    []ErrorEntry `json:"recent_errors,omitempty"`
}

// Snapshot is the full materialized view for serialization.
type Snapshot struct {
	Totals       Totals                      `json:"totals"`
	PerEndpoint  map[string]EndpointSnapshot `json:"per_endpoint"`
	RecentErrors []ErrorEntry                `json:"recent_errors"`
}

// Snapshot returns a read-only copy safe for serialization.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Totals:       Totals{Total: c.total, Allowed: c.allowed, Blocked: c.blocked},
		PerEndpoint:  make(map[string]EndpointSnapshot, len(c.perEndpoint)),
		RecentErrors: append([]ErrorEntry(nil), c.recentErrors...),
	}
	for endpoint, stats := range c.perEndpoint {
		snap.PerEndpoint[endpoint] = EndpointSnapshot{
			Requests:        stats.requests,
			Allowed:         stats.allowed,
			Blocked:         stats.blocked,
			DistinctClients: len(stats.clients),
			RecentErrors:    append([]ErrorEntry(nil), stats.errors...),
		}
	}
	return snap
}

// Reset clears all counters and logs, returning the collector to a
// fresh-start state without restarting the process.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total, c.allowed, c.blocked = 0, 0, 0
	c.perEndpoint = make(map[string]*endpointStats)
	c.recentErrors = nil
}
