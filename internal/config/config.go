package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPPort string
	SiteURL  string
	Currency string

	StripeSecretKey     string
	StripeWebhookSecret string
	PrintfulAPIKey      string
	PrintfulBaseURL     string

	ShippingCountries []string

	// Optional: empty disables the local webhook dedupe store / the
	// fulfillment outcome event stream.
	RedisAddr    string
	KafkaBrokers []string

	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

// Load reads configuration from the environment. The three upstream secrets
// are required: a missing secret is a startup failure, never a per-request
// surprise.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		SiteURL:             getEnv("SITE_URL", "http://localhost:8080"),
		Currency:            getEnv("CURRENCY", "usd"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PrintfulAPIKey:      os.Getenv("PRINTFUL_API_KEY"),
		PrintfulBaseURL:     getEnv("PRINTFUL_BASE_URL", ""),
		ShippingCountries:   splitList(getEnv("SHIPPING_COUNTRIES", "US,CA,GB")),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		RequestTimeout:      30 * time.Second,
		ShutdownTimeout:     10 * time.Second,
		MaxRequestBodySize:  1 << 20, // 1MB
	}

	var missing []string
	if cfg.StripeSecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if cfg.StripeWebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if cfg.PrintfulAPIKey == "" {
		missing = append(missing, "PRINTFUL_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
