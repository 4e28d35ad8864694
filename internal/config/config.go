package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	// TTL for the redis-backed product price payload cache.
	PriceCacheTTL time.Duration

	// Display currency used when converting captured base prices.
	CurrencyCode   string
	CurrencySymbol string
	// Exchange rate from base currency to display currency.
	CurrencyRate decimal.Decimal

	// Tax evaluation mode and fallback address.
	TaxInclusive   bool
	DefaultCountry string
	DefaultState   string
	DefaultZip     string

	// Whether products with zero inventory may still be sold.
	AllowBackorders bool

	// Per-client request budget on the public API. Zero disables limiting.
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	rate, err := parseDecimal(k.String("CURRENCY_RATE"), "1")
	if err != nil {
		return nil, fmt.Errorf("parse CURRENCY_RATE: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		PriceCacheTTL:      parseDuration(k.String("PRICE_CACHE_TTL"), "5m"),
		CurrencyCode:       valueOrDefault(k.String("CURRENCY_CODE"), "USD"),
		CurrencySymbol:     valueOrDefault(k.String("CURRENCY_SYMBOL"), "$"),
		CurrencyRate:       rate,
		TaxInclusive:       parseBool(k.String("TAX_INCLUSIVE")),
		DefaultCountry:     valueOrDefault(k.String("TAX_DEFAULT_COUNTRY"), "US"),
		DefaultState:       strings.TrimSpace(k.String("TAX_DEFAULT_STATE")),
		DefaultZip:         strings.TrimSpace(k.String("TAX_DEFAULT_ZIP")),
		AllowBackorders:    parseBool(k.String("INVENTORY_ALLOW_BACKORDERS")),
		RateLimitMax:       parseInt(k.String("RATE_LIMIT_MAX"), 100),
		RateLimitWindow:    parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.CurrencyRate.Sign() <= 0 {
		return nil, errors.New("CURRENCY_RATE must be positive")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseDecimal(value, fallback string) (decimal.Decimal, error) {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	return decimal.NewFromString(base)
}
