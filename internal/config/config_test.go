package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.TutorCacheTTL)
	assert.Equal(t, int64(10), cfg.MaxUploadSizeMB)
	assert.True(t, cfg.CompressionEnabled)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("REFRESH_SECRET", "short")

	_, err := fromEnv()
	assert.Error(t, err)
}

func TestFromEnv_ProductionRequiresOrigins(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("REFRESH_SECRET", "fedcba9876543210fedcba9876543210")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	_, err := fromEnv()
	assert.Error(t, err)
}

func TestFromEnv_ParsesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example ,")
	t.Setenv("TUTOR_CACHE_TTL", "2m")
	t.Setenv("COMPRESSION_ENABLED", "false")
	t.Setenv("RATE_LIMIT_LIMIT", "42")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Minute, cfg.TutorCacheTTL)
	assert.False(t, cfg.CompressionEnabled)
	assert.Equal(t, int64(42), cfg.RateLimitLimit)
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := fromEnv()
	assert.Error(t, err)
}

func TestGetDatabaseURL_FromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "pg")
	t.Setenv("POSTGRESQL_USER", "app")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "skills")

	assert.Equal(t, "postgres://app:p%40ss@pg:5432/skills?sslmode=disable", getDatabaseURL())
}
