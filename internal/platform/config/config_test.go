package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults apply when env is empty", func(t *testing.T) {
		cfg := FromEnv()

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 10*time.Second, cfg.SessionCheckTimeout)
		assert.Equal(t, 30*time.Second, cfg.SessionTTL)
		assert.NotEmpty(t, cfg.EmbeddedHostnames)
		assert.NotEmpty(t, cfg.EmbeddedUAMarkers)
		assert.Empty(t, cfg.Redis.URL)
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("AURA_ADDR", ":9999")
		t.Setenv("AURA_SESSION_CHECK_TIMEOUT", "3s")
		t.Setenv("AURA_EMBEDDED_HOSTNAMES", "m.example.com, wrapper.example.com")

		cfg := FromEnv()

		assert.Equal(t, ":9999", cfg.Addr)
		assert.Equal(t, 3*time.Second, cfg.SessionCheckTimeout)
		assert.Equal(t, []string{"m.example.com", "wrapper.example.com"}, cfg.EmbeddedHostnames)
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		t.Setenv("AURA_SESSION_CHECK_TIMEOUT", "not-a-duration")
		t.Setenv("AURA_REDIS_POOL_SIZE", "lots")

		cfg := FromEnv()

		assert.Equal(t, 10*time.Second, cfg.SessionCheckTimeout)
		assert.Equal(t, 10, cfg.Redis.PoolSize)
	})
}
