package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// no .env in the package directory, so only the environment applies
	t.Setenv("APP_PORT", "")
	t.Setenv("LEAVE_ALLOW_OVERDRAW", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.Leave.AllowOverdraw)
	assert.Equal(t, 15*time.Minute, cfg.Attendance.CacheTTL)
	assert.Equal(t, "0 0 0 * * *", cfg.Scheduler.AttendanceReloadSpec)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LEAVE_ALLOW_OVERDRAW", "true")
	t.Setenv("LEAVE_MAX_REQUEST_DAYS", "30")
	t.Setenv("LEAVE_CATALOG_FILE", "/etc/leave/catalog.toml")
	t.Setenv("ATTENDANCE_LOG_FILE", "/var/lib/attendance.json")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.True(t, cfg.Leave.AllowOverdraw)
	assert.Equal(t, 30, cfg.Leave.MaxRequestDays)
	assert.Equal(t, "/etc/leave/catalog.toml", cfg.Leave.CatalogFile)
	assert.Equal(t, "/var/lib/attendance.json", cfg.Attendance.LogFile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"APP_PORT", "eighty"},
		{"APP_PORT", "70000"},
		{"LEAVE_ALLOW_OVERDRAW", "sometimes"},
		{"LEAVE_MAX_REQUEST_DAYS", "-1"},
		{"ATTENDANCE_CACHE_TTL", "soon"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
