package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                  "",
		"REDIS_URL":             "",
		"PRICEBOOK_PATH":        "",
		"QUOTE_CACHE_TTL":       "",
		"RATE_LIMIT_PER_MINUTE": "",
		"OBS_ENABLE_TRACING":    "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Empty(t, cfg.RedisURL)
	require.Empty(t, cfg.PricebookPath)
	require.Equal(t, 10*time.Minute, cfg.QuoteCacheTTL)
	require.Equal(t, 600, cfg.RateLimitPerMinute)
	require.False(t, cfg.TracingEnabled)
	require.True(t, cfg.MetricsEnabled)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                  ":9090",
		"REDIS_URL":             "redis://localhost:6379/0",
		"PRICEBOOK_PATH":        "/etc/pricing/book.json",
		"QUOTE_CACHE_TTL":       "90s",
		"CORS_ALLOWED_ORIGINS":  "https://a.example, https://b.example",
		"OBS_ENABLE_PROMETHEUS": "off",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, "/etc/pricing/book.json", cfg.PricebookPath)
	require.Equal(t, 90*time.Second, cfg.QuoteCacheTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsNegativeRateLimit(t *testing.T) {
	_, err := LoadForTests(map[string]string{"RATE_LIMIT_PER_MINUTE": "-1"})
	require.Error(t, err)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	require.Equal(t, 10*time.Minute, parseDuration("soon", "10m"))
}
