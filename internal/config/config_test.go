package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost user=cs dbname=cs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:8081", cfg.AgentURL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.SessionSweep)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=db user=cs dbname=cs")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SESSION_TTL_MIN", "30")
	t.Setenv("SESSION_SWEEP_MIN", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweep)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestBadIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=db user=cs dbname=cs")
	t.Setenv("SESSION_TTL_MIN", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}
