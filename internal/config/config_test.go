package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, devJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, "pollspark", cfg.JWT.Issuer)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, "change", cfg.Vote.Policy)
	assert.Equal(t, 100, cfg.RateLimit.DefaultLimit)
	assert.Equal(t, 10, cfg.RateLimit.VoteLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Server.AutoMigrate)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("VOTE_POLICY", "REJECT")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("RATE_LIMIT_VOTE", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "reject", cfg.Vote.Policy)
	assert.True(t, cfg.Server.TrustProxy)
	assert.Equal(t, 3, cfg.RateLimit.VoteLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing secret in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown vote policy", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("VOTE_POLICY", "sometimes")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("malformed integer", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("RATE_LIMIT_VOTE", "1O")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RATE_LIMIT_VOTE")
	})

	t.Run("malformed boolean", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("TRUST_PROXY", "yes please")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TRUST_PROXY")
	})

	t.Run("zero rate limit", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("RATE_LIMIT_DEFAULT", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "polls", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/polls?sslmode=disable", db.DSN())

	db.SSLMode = "require"
	assert.Equal(t, "postgres://u:p@db:5432/polls?sslmode=require", db.DSN())

	db.URL = "postgres://override"
	assert.Equal(t, "postgres://override", db.DSN())
}
