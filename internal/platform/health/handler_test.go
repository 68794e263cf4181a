package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthRouter(h *Handler) chi.Router {
	router := chi.NewRouter()
	h.Register(router)
	return router
}

func get(router chi.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLivenessAlwaysOK(t *testing.T) {
	rec := get(newHealthRouter(New("test")), "/health/live")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestReadinessReportsChecksSorted(t *testing.T) {
	h := New("test")
	h.RegisterCheck("storage", func() error { return nil })
	h.RegisterCheck("admission_breakers", func() error { return nil })

	rec := get(newHealthRouter(h), "/health/ready")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	require.Len(t, resp.Checks, 2)
	assert.Equal(t, "admission_breakers", resp.Checks[0].Name)
	assert.Equal(t, "storage", resp.Checks[1].Name)
}

func TestReadinessFailsWhenCheckFails(t *testing.T) {
	h := New("test")
	h.RegisterCheck("admission_breakers", func() error {
		return errors.New("one or more circuit breakers open")
	})

	rec := get(newHealthRouter(h), "/health/ready")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	require.Len(t, resp.Checks, 1)
	assert.Equal(t, "down", resp.Checks[0].State)
	assert.Contains(t, resp.Checks[0].Error, "breakers open")
}

func TestStatusIncludesRegisteredDetails(t *testing.T) {
	h := New("production")
	h.RegisterDetail("admission", func() any {
		return map[string]int{"breakers": 3, "breakers_open": 1}
	})

	rec := get(newHealthRouter(h), "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "production", resp.Environment)

	admission, ok := resp.Details["admission"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, admission["breakers"])
	assert.EqualValues(t, 1, admission["breakers_open"])
}
