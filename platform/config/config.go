// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// ViaCEPConfig provides settings for the ViaCEP upstream client.
type ViaCEPConfig interface {
	GetViaCEPBaseURL() string
	// GetViaCEPTimeout returns 0 when the http.Client default should be used.
	GetViaCEPTimeout() time.Duration
}

// CacheConfig provides settings for the address cache.
type CacheConfig interface {
	// GetCacheTTL returns 0 when entries never expire.
	GetCacheTTL() time.Duration
	GetCacheCleanupInterval() time.Duration
	GetRedisURL() string
	GetRedisCachePrefix() string
	IsRedisCacheEnabled() bool
}

// TracingConfig provides settings for OpenTelemetry export.
type TracingConfig interface {
	GetZipkinURL() string
	IsTracingEnabled() bool
	ServiceInfoConfig
}

// ServiceInfoConfig provides the service identity reported by health and traces.
type ServiceInfoConfig interface {
	GetServiceName() string
	GetServiceVersion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	ViaCEPBaseURL        string
	ViaCEPTimeout        time.Duration
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration
	RedisURL             string
	RedisCachePrefix     string
	ZipkinURL            string
	ServiceName          string
	ServiceVersion       string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// ViaCEPConfig implementation
func (c *Config) GetViaCEPBaseURL() string        { return c.ViaCEPBaseURL }
func (c *Config) GetViaCEPTimeout() time.Duration { return c.ViaCEPTimeout }

// CacheConfig implementation
func (c *Config) GetCacheTTL() time.Duration             { return c.CacheTTL }
func (c *Config) GetCacheCleanupInterval() time.Duration { return c.CacheCleanupInterval }
func (c *Config) GetRedisURL() string                    { return c.RedisURL }
func (c *Config) GetRedisCachePrefix() string            { return c.RedisCachePrefix }
func (c *Config) IsRedisCacheEnabled() bool              { return c.RedisURL != "" }

// TracingConfig implementation
func (c *Config) GetZipkinURL() string   { return c.ZipkinURL }
func (c *Config) IsTracingEnabled() bool { return c.ZipkinURL != "" }

// ServiceInfoConfig implementation
func (c *Config) GetServiceName() string    { return c.ServiceName }
func (c *Config) GetServiceVersion() string { return c.ServiceVersion }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		ViaCEPBaseURL:        strings.TrimRight(getEnv("VIACEP_BASE_URL", "https://viacep.com.br"), "/"),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisCachePrefix:     getEnv("REDIS_CACHE_PREFIX", "addresses"),
		ZipkinURL:            getEnv("ZIPKIN_URL", ""),
		ServiceName:          getEnv("SERVICE_NAME", "Address Service"),
		ServiceVersion:       getEnv("SERVICE_VERSION", "1.0.0"),
	}

	var err error
	if cfg.ViaCEPTimeout, err = parseDuration("VIACEP_TIMEOUT", getEnv("VIACEP_TIMEOUT", "0")); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", getEnv("CACHE_TTL", "0")); err != nil {
		return nil, err
	}
	if cfg.CacheCleanupInterval, err = parseDuration("CACHE_CLEANUP_INTERVAL", getEnv("CACHE_CLEANUP_INTERVAL", "10m")); err != nil {
		return nil, err
	}

	if cfg.ViaCEPBaseURL == "" {
		return nil, fmt.Errorf("VIACEP_BASE_URL must not be empty")
	}
	if cfg.ViaCEPTimeout < 0 || cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("VIACEP_TIMEOUT and CACHE_TTL must not be negative")
	}
	if cfg.CacheTTL > 0 && cfg.CacheCleanupInterval <= 0 {
		return nil, fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive when CACHE_TTL is set")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func parseDuration(key, value string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
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
