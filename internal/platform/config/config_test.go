package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"RENEWAL_GATEWAY_ADDR", "DATABASE_URL", "DRIVER_KEY", "OFFICER_KEY", "REQUEST_TIMEOUT", "JWT_SIGNING_KEY"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "DRIVER@#$", cfg.Auth.DriverKey)
	assert.Equal(t, "OFFICER@#$", cfg.Auth.OfficerKey)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.InMemory())
	assert.Empty(t, cfg.Auth.JWTSigningKey)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RENEWAL_GATEWAY_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/licences")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "25")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.InMemory())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
