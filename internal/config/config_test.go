package config_test

import (
	"testing"

	"course-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 20, cfg.Server.RequestTimeout)
	assert.Equal(t, "./uploads", cfg.Storage.Root)
	assert.Equal(t, int64(32<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_ROOT", "/var/lib/courses")
	t.Setenv("EVENTS_DRIVER", "nats")
	t.Setenv("DB_USER", "course_admin")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/courses", cfg.Storage.Root)
	assert.Equal(t, "nats", cfg.Events.Driver)
	assert.Equal(t, "course_admin", cfg.Database.User)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}
