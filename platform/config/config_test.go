package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VIACEP_BASE_URL", "https://viacep.com.br/")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "")
	t.Setenv("VIACEP_TIMEOUT", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("ZIPKIN_URL", "")
	t.Setenv("CACHE_CLEANUP_INTERVAL", "10m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.GetCacheCleanupInterval())

	assert.Equal(t, "https://viacep.com.br", cfg.GetViaCEPBaseURL())
	assert.Equal(t, time.Duration(0), cfg.GetViaCEPTimeout())
	assert.Equal(t, time.Duration(0), cfg.GetCacheTTL())
	assert.True(t, cfg.GetCORSAllowAll())
	assert.False(t, cfg.IsRedisCacheEnabled())
	assert.False(t, cfg.IsTracingEnabled())
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")
	t.Setenv("VIACEP_TIMEOUT", "3s")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("CACHE_CLEANUP_INTERVAL", "5m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ZIPKIN_URL", "http://zipkin:9411/api/v2/spans")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.GetCORSOrigins())
	assert.False(t, cfg.GetCORSAllowAll())
	assert.Equal(t, 3*time.Second, cfg.GetViaCEPTimeout())
	assert.Equal(t, time.Hour, cfg.GetCacheTTL())
	assert.True(t, cfg.IsRedisCacheEnabled())
	assert.True(t, cfg.IsTracingEnabled())
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("CORS_ALLOW_CREDENTIALS", "")
	t.Setenv("CACHE_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestLoadRejectsInvalidCleanupInterval(t *testing.T) {
	t.Setenv("CORS_ALLOW_CREDENTIALS", "")
	t.Setenv("CACHE_TTL", "1h")

	t.Setenv("CACHE_CLEANUP_INTERVAL", "10 minutes")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_CLEANUP_INTERVAL")

	for _, interval := range []string{"0", "-1m", ""} {
		t.Setenv("CACHE_CLEANUP_INTERVAL", interval)
		_, err = Load()
		assert.Error(t, err, interval)
	}
}

func TestLoadCleanupInterval(t *testing.T) {
	t.Setenv("CORS_ALLOW_CREDENTIALS", "")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("CACHE_CLEANUP_INTERVAL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.GetCacheCleanupInterval())

	// without a TTL nothing expires, so the interval is irrelevant
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_CLEANUP_INTERVAL", "0")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	_, err := Load()
	require.Error(t, err)
}
