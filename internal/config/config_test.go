package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CORS_ALLOWED_ORIGINS", "QUOTA_STRICT", "USAGE_CACHE_TTL_SECONDS", "RAZORPAY_KEY_ID", "GATEWAY_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}
	t.Setenv("CORS_ALLOWED_ORIGINS", "*")

	cfg := Load()
	assert.Equal(t, "*", cfg.App.CorsAllowedOrigins)
	assert.False(t, cfg.Usage.Strict)
	assert.Equal(t, 30*time.Second, cfg.Usage.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.Payment.Timeout)
	assert.Empty(t, cfg.Payment.KeyId)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUOTA_STRICT", "true")
	t.Setenv("USAGE_CACHE_TTL_SECONDS", "5")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test")
	t.Setenv("GO_ENV", "production")

	cfg := Load()
	assert.True(t, cfg.Usage.Strict)
	assert.Equal(t, 5*time.Second, cfg.Usage.CacheTTL)
	assert.Equal(t, "rzp_test", cfg.Payment.KeyId)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("FLAG", "yes")
	assert.True(t, getEnvAsBool("FLAG", false))
	t.Setenv("FLAG", "garbage")
	assert.True(t, getEnvAsBool("FLAG", true))
}
