package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "SERVER_PORT", "LOG_LEVEL", "AUTO_MIGRATE", "CORS_ALLOW_ORIGINS",
		"REPORT_RATE_LIMIT", "REPORT_RATE_WINDOW_SECONDS",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/league?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 30, cfg.ReportRateLimit)
	assert.Equal(t, time.Minute, cfg.ReportRateWindow)
	assert.False(t, cfg.R2().Complete())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db/league")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("REPORT_RATE_LIMIT", "5")
	t.Setenv("REPORT_RATE_WINDOW_SECONDS", "10")
	t.Setenv("R2_ACCOUNT_ID", "acc")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "bucket")
	t.Setenv("R2_PUBLIC_BASE_URL", "https://cdn.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 5, cfg.ReportRateLimit)
	assert.Equal(t, 10*time.Second, cfg.ReportRateWindow)
	assert.True(t, cfg.R2().Complete())
	assert.Equal(t, "bucket", cfg.R2().BucketName)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing database url", env: map[string]string{}},
		{name: "port not a number", env: map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "http"}},
		{name: "port out of range", env: map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "70000"}},
		{name: "unknown log level", env: map[string]string{"DATABASE_URL": "x", "LOG_LEVEL": "loud"}},
		{name: "negative rate limit", env: map[string]string{"DATABASE_URL": "x", "REPORT_RATE_LIMIT": "-1"}},
		{name: "zero rate window", env: map[string]string{"DATABASE_URL": "x", "REPORT_RATE_WINDOW_SECONDS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
