package config_test

import (
	"testing"
	"time"

	"github.com/bluclinic/appointment-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/appointments")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("ENV", "")
	t.Setenv("STORAGE", "")
	t.Setenv("MIGRATIONS_DIR", "")
	t.Setenv("SWEEP_INTERVAL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, config.StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("STORAGE", "")
	t.Setenv("SWEEP_INTERVAL", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadMemoryDriverNeedsNoDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("STORAGE", "memory")
	t.Setenv("SWEEP_INTERVAL", "30m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 30*time.Minute, cfg.SweepInterval)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE", "etcd")
	t.Setenv("SWEEP_INTERVAL", "")

	_, err := config.Load()
	assert.Error(t, err)
}
