package breaker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"devotly/internal/admission/config"
	"devotly/internal/admission/models"
	"devotly/internal/platform/clock"
)

// =============================================================================
// CircuitBreaker Test Suite
// =============================================================================
// Justification for unit tests: the breaker is a pure state machine over an
// injected clock; every transition edge (threshold, cool-down elapse, probe
// outcome) must be pinned down deterministically without sleeps.

type BreakerSuite struct {
	suite.Suite
	clk     *clock.Fake
	breaker *CircuitBreaker
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.clk = clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.breaker = New("payment-events",
		config.BreakerConfig{
			FailureThreshold: 3,
			OpenDuration:     20 * time.Second,
			MonitorWindow:    60 * time.Second,
		},
		WithClock(s.clk),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *BreakerSuite) failingOp() Operation {
	return func(context.Context) error { return errors.New("downstream exploded") }
}

func (s *BreakerSuite) execFailure() error {
	return s.breaker.Execute(context.Background(), "test_failure", s.failingOp())
}

func (s *BreakerSuite) execSuccess() error {
	return s.breaker.Execute(context.Background(), "test", func(context.Context) error { return nil })
}

// =============================================================================
// CLOSED behavior
// =============================================================================

func (s *BreakerSuite) TestSuccessesKeepBreakerClosed() {
	for i := 0; i < 50; i++ {
		s.Require().NoError(s.execSuccess())
		s.clk.Advance(time.Second)
	}

	status := s.breaker.Status()
	s.Equal(models.StateClosed, status.State)
	s.Zero(status.FailureCount)
	s.True(status.Healthy)
}

func (s *BreakerSuite) TestThresholdMinusOneFailuresStaysClosed() {
	for i := 0; i < 2; i++ {
		s.Error(s.execFailure())
	}

	status := s.breaker.Status()
	s.Equal(models.StateClosed, status.State)
	s.Equal(2, status.FailureCount)
}

func (s *BreakerSuite) TestThresholdFailuresTripsOpen() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}

	status := s.breaker.Status()
	s.Equal(models.StateOpen, status.State)
	s.False(status.Healthy)
	s.Require().NotNil(status.NextProbeAt)
	s.Equal(s.clk.Now().Add(20*time.Second), *status.NextProbeAt)
}

func (s *BreakerSuite) TestFailuresOutsideMonitorWindowDoNotCount() {
	s.Error(s.execFailure())
	s.Error(s.execFailure())

	// The first two failures age out before the third arrives.
	s.clk.Advance(61 * time.Second)
	s.Error(s.execFailure())

	status := s.breaker.Status()
	s.Equal(models.StateClosed, status.State)
	s.Equal(1, status.FailureCount)
}

func (s *BreakerSuite) TestDownstreamErrorIsReRaisedVerbatim() {
	sentinel := errors.New("very specific failure")
	err := s.breaker.Execute(context.Background(), "test", func(context.Context) error { return sentinel })
	s.ErrorIs(err, sentinel)
}

// =============================================================================
// OPEN behavior (fail-fast)
// =============================================================================

func (s *BreakerSuite) TestOpenBreakerFailsFastWithoutInvokingOperation() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}

	calls := 0
	err := s.breaker.Execute(context.Background(), "test", func(context.Context) error {
		calls++
		return nil
	})

	var open *CircuitOpenError
	s.Require().ErrorAs(err, &open)
	s.Equal("payment-events", open.Name)
	s.Equal(20, open.RetryAfter)
	s.Zero(calls)
}

func (s *BreakerSuite) TestRetryAfterShrinksAsCooldownElapses() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}

	s.clk.Advance(12 * time.Second)

	var open *CircuitOpenError
	s.Require().ErrorAs(s.execSuccess(), &open)
	s.Equal(8, open.RetryAfter)
}

func (s *BreakerSuite) TestRetryAfterRoundsUpToWholeSeconds() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}

	s.clk.Advance(19*time.Second + 500*time.Millisecond)

	var open *CircuitOpenError
	s.Require().ErrorAs(s.execSuccess(), &open)
	s.Equal(1, open.RetryAfter)
}

// =============================================================================
// HALF_OPEN behavior (probe)
// =============================================================================

func (s *BreakerSuite) TestSuccessfulProbeClosesAndClearsWindow() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}
	s.clk.Advance(20 * time.Second)

	s.Require().NoError(s.execSuccess())

	status := s.breaker.Status()
	s.Equal(models.StateClosed, status.State)
	s.Zero(status.FailureCount)
}

func (s *BreakerSuite) TestFailedProbeReopensWithFreshCooldown() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}
	s.clk.Advance(20 * time.Second)

	s.Error(s.execFailure())

	status := s.breaker.Status()
	s.Equal(models.StateOpen, status.State)
	s.Require().NotNil(status.NextProbeAt)
	s.Equal(s.clk.Now().Add(20*time.Second), *status.NextProbeAt)

	var open *CircuitOpenError
	s.Require().ErrorAs(s.execSuccess(), &open)
	s.Equal(20, open.RetryAfter)
}

func (s *BreakerSuite) TestOnlyOneProbeAdmittedPerHalfOpenEpisode() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}
	s.clk.Advance(20 * time.Second)

	// First admission after the cool-down becomes the probe; the second is
	// rejected while the probe's outcome is pending.
	s.Require().NoError(s.breaker.Allow())

	var open *CircuitOpenError
	s.Require().ErrorAs(s.breaker.Allow(), &open)

	// Probe outcome arrives: circuit closes, traffic resumes.
	s.breaker.RecordSuccess()
	s.NoError(s.breaker.Allow())
}

func (s *BreakerSuite) TestAbandonedProbeCanBeTakenOverAfterCooldown() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}
	s.clk.Advance(20 * time.Second)

	s.Require().NoError(s.breaker.Allow())

	// The probe's outcome never comes back. After another full cool-down a
	// new caller may take over the probe instead of wedging the breaker.
	s.clk.Advance(20 * time.Second)
	s.NoError(s.breaker.Allow())
}

// =============================================================================
// Reset and status
// =============================================================================

func (s *BreakerSuite) TestResetForcesClosedAndClearsState() {
	for i := 0; i < 3; i++ {
		s.Error(s.execFailure())
	}
	s.Require().Equal(models.StateOpen, s.breaker.Status().State)

	s.breaker.Reset()

	status := s.breaker.Status()
	s.Equal(models.StateClosed, status.State)
	s.Zero(status.FailureCount)
	s.Nil(status.NextProbeAt)
	s.NoError(s.execSuccess())
}

func (s *BreakerSuite) TestStatusReportsLastFailure() {
	s.Error(s.execFailure())
	failedAt := s.clk.Now()

	status := s.breaker.Status()
	s.Require().NotNil(status.LastFailureAt)
	s.Equal(failedAt, *status.LastFailureAt)
}

func (s *BreakerSuite) TestStateChangeHookFiresOnTransitions() {
	type transition struct{ from, to models.BreakerState }
	var seen []transition

	b := New("uploads",
		config.BreakerConfig{FailureThreshold: 1, OpenDuration: 10 * time.Second, MonitorWindow: time.Minute},
		WithClock(s.clk),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithStateChangeHook(func(_ string, from, to models.BreakerState) {
			seen = append(seen, transition{from, to})
		}),
	)

	s.Error(b.Execute(context.Background(), "test", s.failingOp()))
	s.clk.Advance(10 * time.Second)
	s.NoError(b.Execute(context.Background(), "test", func(context.Context) error { return nil }))

	s.Equal([]transition{
		{models.StateClosed, models.StateOpen},
		{models.StateOpen, models.StateHalfOpen},
		{models.StateHalfOpen, models.StateClosed},
	}, seen)
}

// =============================================================================
// End-to-end recovery scenario
// =============================================================================

func (s *BreakerSuite) TestFailRecoverScenario() {
	// Three failures spread over 10s trip the breaker; an immediate call
	// fails fast with the full cool-down; one success after the cool-down
	// restores service with an empty window.
	s.Error(s.execFailure())
	s.clk.Advance(5 * time.Second)
	s.Error(s.execFailure())
	s.clk.Advance(5 * time.Second)
	s.Error(s.execFailure())
	s.Require().Equal(models.StateOpen, s.breaker.Status().State)

	var open *CircuitOpenError
	s.Require().ErrorAs(s.execSuccess(), &open)
	s.Equal(20, open.RetryAfter)

	s.clk.Advance(20 * time.Second)
	s.Require().NoError(s.execSuccess())

	status := s.breaker.Status()
	s.Equal(models.StateClosed, status.State)
	s.Zero(status.FailureCount)
	s.True(status.Healthy)
}

// =============================================================================
// Failure window
// =============================================================================

func TestFailureWindowPruneIsIdempotent(t *testing.T) {
	w := newFailureWindow(time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w.record(base, "a")
	w.record(base.Add(30*time.Second), "b")
	w.record(base.Add(70*time.Second), "c")

	now := base.Add(75 * time.Second)
	first := w.size(now)
	second := w.size(now)

	if first != 2 || second != 2 {
		t.Fatalf("expected idempotent size of 2, got %d then %d", first, second)
	}
}

func TestFailureWindowClear(t *testing.T) {
	w := newFailureWindow(time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w.record(base, "a")
	w.clear()

	if got := w.size(base); got != 0 {
		t.Fatalf("expected empty window after clear, got %d", got)
	}
	if !w.last().IsZero() {
		t.Fatal("expected zero last-failure time after clear")
	}
}
