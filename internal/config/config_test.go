package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PANTRY_DB_DRIVER", "PANTRY_DB_PATH", "PANTRY_DB_DSN", "LOG_LEVEL", "LOG_FORMAT", "LOG_NO_COLOR"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/data/pantry_data.db", cfg.Store.Path)
	assert.True(t, cfg.Store.FileBacked())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.False(t, cfg.Logger.NoColor)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PANTRY_DB_DRIVER", "Postgres")
	t.Setenv("PANTRY_DB_DSN", "postgres://pantry@localhost/pantry?sslmode=disable")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_NO_COLOR", "true")

	cfg := Load()
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.False(t, cfg.Store.FileBacked())
	assert.Equal(t, "postgres://pantry@localhost/pantry?sslmode=disable", cfg.Store.DSN)
	assert.Equal(t, "debug", cfg.Logger.Level, "development defaults to debug logging")
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.NoColor)
}
