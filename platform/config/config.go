// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by the composition root.
const (
	StoreDriverPostgREST = "postgrest"
	StoreDriverPostgres  = "postgres"
)

// =============================================================================
// Consumer-Specific Config Interfaces
// =============================================================================

// StoreConfig provides settings for the remote row store (Supabase REST API).
type StoreConfig interface {
	GetStoreDriver() string
	GetStoreURL() string
	GetStoreKey() string
	GetStoreTimeout() time.Duration
}

// DatabaseConfig provides direct database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
	IsMetricsEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env            string
	HTTPAddr       string
	StoreDriver    string
	StoreURL       string
	StoreKey       string
	StoreTimeout   time.Duration
	DatabaseURL    string
	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsEnabled bool
}

// StoreConfig implementation
func (c *Config) GetStoreDriver() string          { return c.StoreDriver }
func (c *Config) GetStoreURL() string             { return c.StoreURL }
func (c *Config) GetStoreKey() string             { return c.StoreKey }
func (c *Config) GetStoreTimeout() time.Duration { return c.StoreTimeout }

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }
func (c *Config) IsMetricsEnabled() bool   { return c.MetricsEnabled }

// Load reads configuration from environment variables, honoring a local .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))

	storeTimeout, err := parseDuration("STORE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	rateLimitRPS, err := parseFloat("RATE_LIMIT_RPS", 0)
	if err != nil {
		return nil, err
	}
	rateLimitBurst, err := parseInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		StoreDriver:    strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreDriverPostgREST))),
		StoreURL:       strings.TrimRight(strings.TrimSpace(getEnv("SUPABASE_URL", "")), "/"),
		StoreKey:       firstNonEmpty(getEnv("SUPABASE_ANON_KEY", ""), getEnv("SUPABASE_SERVICE_ROLE_KEY", "")),
		StoreTimeout:   storeTimeout,
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		CORSAllowAll:   len(corsOrigins) == 0 || containsWildcard(corsOrigins),
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,
		MetricsEnabled: strings.EqualFold(getEnv("METRICS_ENABLED", "true"), "true"),
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgREST:
		if cfg.StoreURL == "" || cfg.StoreKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY (or SUPABASE_SERVICE_ROLE_KEY) must be set")
		}
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreTimeout <= 0 {
		return nil, fmt.Errorf("STORE_TIMEOUT must be a positive duration")
	}
	if cfg.RateLimitRPS < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Numeric variables fall back to their default when unset or blank.
// A value that does not parse is a configuration error.

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return result, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return result, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
