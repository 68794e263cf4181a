package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	actor string
	err   error
}

func (v *stubValidator) ValidateToken(string) (string, error) {
	return v.actor, v.err
}

func serveOperator(staticToken string, validator OperatorTokenValidator, headers map[string]string) (*httptest.ResponseRecorder, string) {
	var actor string
	handler := RequireOperator(staticToken, validator, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor = GetOperatorActor(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/admin/admission/status", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, actor
}

func TestStaticAdminTokenGrantsAccess(t *testing.T) {
	rec, actor := serveOperator("secret", nil, map[string]string{
		"X-Admin-Token":    "secret",
		"X-Admin-Actor-ID": "ops@devotly",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@devotly", actor)
}

func TestWrongStaticTokenRejected(t *testing.T) {
	rec, _ := serveOperator("secret", nil, map[string]string{
		"X-Admin-Token": "guess",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEmptyConfiguredTokenNeverMatches(t *testing.T) {
	rec, _ := serveOperator("", nil, map[string]string{
		"X-Admin-Token": "",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerTokenGrantsAccess(t *testing.T) {
	rec, actor := serveOperator("secret", &stubValidator{actor: "jwt-actor"}, map[string]string{
		"Authorization": "Bearer some-token",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jwt-actor", actor)
}

func TestInvalidBearerTokenRejected(t *testing.T) {
	rec, _ := serveOperator("secret", &stubValidator{err: errors.New("expired")}, map[string]string{
		"Authorization": "Bearer some-token",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMissingCredentialsRejected(t *testing.T) {
	rec, _ := serveOperator("secret", &stubValidator{actor: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
