package config

import (
	"net/netip"
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr               string
	Environment        string
	LogLevel           string
	AdminToken         string
	AdminJWTSigningKey string
	AdminTokenTTL      time.Duration
	WebhookSecretHash  string
	PaymentAPIBaseURL  string
	AnalyticsEndpoint  string
	StorageEndpoint    string
	TrustedProxies     []netip.Prefix
	RequestTimeout     time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:               getEnv("DEVOTLY_ADDR", ":8080"),
		Environment:        getEnv("DEVOTLY_ENV", "development"),
		LogLevel:           getEnv("DEVOTLY_LOG_LEVEL", "info"),
		AdminToken:         os.Getenv("DEVOTLY_ADMIN_TOKEN"),
		AdminJWTSigningKey: os.Getenv("DEVOTLY_ADMIN_JWT_KEY"),
		AdminTokenTTL:      15 * time.Minute,
		WebhookSecretHash:  os.Getenv("DEVOTLY_WEBHOOK_SECRET_HASH"),
		PaymentAPIBaseURL:  getEnv("DEVOTLY_PAYMENT_API_URL", "https://api.mercadopago.com"),
		AnalyticsEndpoint:  getEnv("DEVOTLY_ANALYTICS_URL", "https://graph.facebook.com"),
		StorageEndpoint:    os.Getenv("DEVOTLY_STORAGE_URL"),
		RequestTimeout:     30 * time.Second,
	}

	if ttl := os.Getenv("DEVOTLY_ADMIN_TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			cfg.AdminTokenTTL = d
		}
	}

	// Comma-separated CIDR list, e.g. "10.0.0.0/8,172.16.0.0/12".
	if proxies := os.Getenv("DEVOTLY_TRUSTED_PROXIES"); proxies != "" {
		for _, raw := range strings.Split(proxies, ",") {
			if prefix, err := netip.ParsePrefix(strings.TrimSpace(raw)); err == nil {
				cfg.TrustedProxies = append(cfg.TrustedProxies, prefix)
			}
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
