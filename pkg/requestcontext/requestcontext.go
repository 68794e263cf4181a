// Package requestcontext carries per-request metadata (request ID, client IP,
// user agent) through context so handlers and services stay free of http.Request.
package requestcontext

import "context"

type requestIDKey struct{}
type clientMetadataKey struct{}

// ClientMetadata holds connection-level facts extracted once at the edge.
type ClientMetadata struct {
	IP        string
	UserAgent string
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID retrieves the request ID from the context, or "" if absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithClientMetadata stores client IP and user agent in the context.
func WithClientMetadata(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, clientMetadataKey{}, ClientMetadata{IP: ip, UserAgent: userAgent})
}

// ClientIP retrieves the client IP from the context, or "unknown" if absent.
func ClientIP(ctx context.Context) string {
	if md, ok := ctx.Value(clientMetadataKey{}).(ClientMetadata); ok && md.IP != "" {
		return md.IP
	}
	return "unknown"
}

// UserAgent retrieves the client user agent from the context, or "" if absent.
func UserAgent(ctx context.Context) string {
	if md, ok := ctx.Value(clientMetadataKey{}).(ClientMetadata); ok {
		return md.UserAgent
	}
	return ""
}
