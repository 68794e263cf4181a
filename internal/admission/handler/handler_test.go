package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"devotly/internal/admission/collector"
	"devotly/internal/admission/handler"
	"devotly/internal/admission/handler/mocks"
	"devotly/internal/admission/models"
	dErrors "devotly/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	breakers  *mocks.MockBreakerRegistry
	limiters  *mocks.MockLimiterRegistry
	collector *mocks.MockOutcomeCollector
	router    chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.breakers = mocks.NewMockBreakerRegistry(s.ctrl)
	s.limiters = mocks.NewMockLimiterRegistry(s.ctrl)
	s.collector = mocks.NewMockOutcomeCollector(s.ctrl)

	h := handler.New(s.breakers, s.limiters, s.collector, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.RegisterAdmin(s.router)
}

func (s *HandlerSuite) TestStatusReportsBreakersAndLimiters() {
	probeAt := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	s.breakers.EXPECT().AllHealthy().Return(false)
	s.breakers.EXPECT().Statuses().Return([]models.BreakerStatus{
		{Name: "payment-events", State: models.StateOpen, FailureCount: 5, NextProbeAt: &probeAt},
		{Name: "uploads", State: models.StateClosed, Healthy: true},
	})
	s.limiters.EXPECT().Snapshots().Return([]models.BucketSnapshot{
		{Class: models.ClassGeneral, WindowSeconds: 60, MaxBase: 100, ActiveClients: 3},
	})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/admission/status", nil))

	s.Equal(http.StatusOK, rec.Code)

	var resp models.StatusResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.AllHealthy)
	s.Len(resp.Breakers, 2)
	s.Equal(models.StateOpen, resp.Breakers[0].State)
	s.Len(resp.Limiters, 1)
	s.Equal(models.ClassGeneral, resp.Limiters[0].Class)
}

func (s *HandlerSuite) TestMetricsReturnsCollectorSnapshot() {
	s.collector.EXPECT().Snapshot().Return(collector.Snapshot{
		Totals: collector.Totals{Total: 10, Allowed: 8, Blocked: 2},
		PerEndpoint: map[string]collector.EndpointSnapshot{
			"/api/cards": {Requests: 10, Allowed: 8, Blocked: 2, DistinctClients: 4},
		},
	})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/admission/metrics", nil))

	s.Equal(http.StatusOK, rec.Code)

	var resp collector.Snapshot
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(int64(10), resp.Totals.Total)
	s.Equal(int64(2), resp.Totals.Blocked)
	s.Equal(4, resp.PerEndpoint["/api/cards"].DistinctClients)
}

func (s *HandlerSuite) TestResetBreakersAllWithEmptyBody() {
	// No body at all means "reset everything"; operators use this after a
	// downstream incident clears.
	s.breakers.EXPECT().ResetAll()

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/admission/breakers/reset", nil))

	s.Equal(http.StatusOK, rec.Code)

	var resp models.ResetResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("all", resp.Reset)
	s.Equal("ok", resp.Status)
}

func (s *HandlerSuite) TestResetBreakersByName() {
	s.breakers.EXPECT().Reset("payment-events").Return(nil)

	body := bytes.NewBufferString(`{"name":"payment-events"}`)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/admission/breakers/reset", body))

	s.Equal(http.StatusOK, rec.Code)

	var resp models.ResetResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("payment-events", resp.Reset)
}

func (s *HandlerSuite) TestResetBreakersUnknownNameIs404() {
	s.breakers.EXPECT().Reset("no-such-breaker").
		Return(dErrors.New(dErrors.CodeNotFound, "unknown breaker"))

	body := bytes.NewBufferString(`{"name":"no-such-breaker"}`)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/admission/breakers/reset", body))

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestResetBreakersMalformedBodyIs400() {
	body := bytes.NewBufferString(`{"name":`)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/admission/breakers/reset", body))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestResetLimitersAll() {
	s.limiters.EXPECT().ResetAll()

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/admission/limiters/reset", nil))

	s.Equal(http.StatusOK, rec.Code)

	var resp models.ResetResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("all", resp.Reset)
}

func (s *HandlerSuite) TestResetLimitersSingleClient() {
	s.limiters.EXPECT().ResetClient("203.0.113.7")

	body := bytes.NewBufferString(`{"client_id":"203.0.113.7"}`)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/admission/limiters/reset", body))

	s.Equal(http.StatusOK, rec.Code)

	var resp models.ResetResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("client", resp.Reset)
}

func (s *HandlerSuite) TestResetMetrics() {
	s.collector.EXPECT().Reset()

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/admission/metrics/reset", nil))

	s.Equal(http.StatusOK, rec.Code)
}
