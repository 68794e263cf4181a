package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"devotly/pkg/requestcontext"
)

// Context key for storing the operator actor identifier.
type contextKeyOperatorActor struct{}

// GetOperatorActor retrieves the operator actor identifier from the context.
// Returns empty string if not set or if this is not an operator request.
func GetOperatorActor(ctx context.Context) string {
	if actor, ok := ctx.Value(contextKeyOperatorActor{}).(string); ok {
		return actor
	}
	return ""
}

// OperatorTokenValidator validates operator bearer tokens (JWT).
type OperatorTokenValidator interface {
	ValidateToken(tokenString string) (actor string, err error)
}

// RequireOperator guards the operator endpoints. Two credentials are accepted:
// a static X-Admin-Token (for break-glass access) or a short-lived bearer JWT
// minted by cmd/tokengen. Either grants access; both failures reject with 401.
func RequireOperator(staticToken string, validator OperatorTokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := r.Header.Get("X-Admin-Token"); token != "" && staticToken != "" {
				// Constant-time comparison to prevent timing attacks
				if subtle.ConstantTimeCompare([]byte(token), []byte(staticToken)) == 1 {
					if actor := r.Header.Get("X-Admin-Actor-ID"); actor != "" {
						ctx = context.WithValue(ctx, contextKeyOperatorActor{}, actor)
					}
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if auth := r.Header.Get("Authorization"); validator != nil && strings.HasPrefix(auth, "Bearer ") {
				actor, err := validator.ValidateToken(strings.TrimPrefix(auth, "Bearer "))
				if err == nil {
					ctx = context.WithValue(ctx, contextKeyOperatorActor{}, actor)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				logger.WarnContext(ctx, "operator token rejected",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
			}

			logger.WarnContext(ctx, "operator credentials missing or invalid",
				"request_id", requestcontext.RequestID(ctx),
				"path", r.URL.Path,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"operator credentials required"}`))
		})
	}
}
