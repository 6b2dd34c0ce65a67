package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL.Quote)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL.ExchangeRate)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Analysis)
	assert.Equal(t, 30, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "USD", cfg.Fx.Base)
	assert.Equal(t, "KRW", cfg.Fx.Quote)
	assert.InDelta(t, 1350.0, cfg.Fx.FallbackRate, 1e-9)
	assert.True(t, cfg.Market.DemoFallback)
	assert.Contains(t, cfg.Market.IndexSymbols, "^GSPC")
	assert.Equal(t, 15, cfg.Providers.Chart.Timeout)
	assert.Equal(t, 60, cfg.Advisor.Timeout)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_TTL_QUOTE", "30s")
	t.Setenv("ADVISOR_API_KEY", "sk-test")
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.Quote)
	assert.Equal(t, "sk-test", cfg.Advisor.APIKey)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero rate limit", "RATE_LIMIT_REQUESTS", "0"},
		{"bad cache backend", "CACHE_BACKEND", "memcached"},
		{"negative fallback rate", "FX_FALLBACK_RATE", "-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			chdir(t, t.TempDir())
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", r.Addr())
}
