package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "pollspark-dev-secret"

// Config holds application configuration loaded from environment.
type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Vote      VoteConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
	TrustProxy         bool
	AutoMigrate        bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig is optional; an empty Addr selects the in-memory rate limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type VoteConfig struct {
	Policy string
}

type RateLimitConfig struct {
	DefaultLimit int
	VoteLimit    int
	Window       time.Duration
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var env envReader
	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        time.Duration(env.integer("READ_TIMEOUT_SECONDS", 15)) * time.Second,
			WriteTimeout:       time.Duration(env.integer("WRITE_TIMEOUT_SECONDS", 15)) * time.Second,
			ShutdownTimeout:    time.Duration(env.integer("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
			CORSAllowedOrigins: splitTrim(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ","),
			TrustProxy:         env.boolean("TRUST_PROXY", false),
			AutoMigrate:        env.boolean("AUTO_MIGRATE", true),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnv("POSTGRES_DB", "pollspark"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       env.integer("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			Issuer:          getEnv("JWT_ISSUER", "pollspark"),
			AccessTokenTTL:  time.Duration(env.integer("JWT_EXPIRE_MINUTES", 60)) * time.Minute,
			RefreshTokenTTL: time.Duration(env.integer("REFRESH_TOKEN_TTL_HOURS", 168)) * time.Hour,
		},
		Vote: VoteConfig{
			Policy: strings.ToLower(getEnv("VOTE_POLICY", "change")),
		},
		RateLimit: RateLimitConfig{
			DefaultLimit: env.integer("RATE_LIMIT_DEFAULT", 100),
			VoteLimit:    env.integer("RATE_LIMIT_VOTE", 10),
			Window:       time.Duration(env.integer("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	if cfg.JWT.Secret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required outside development")
		}
		cfg.JWT.Secret = devJWTSecret
	}

	switch cfg.Vote.Policy {
	case "change", "reject":
	default:
		return nil, fmt.Errorf("VOTE_POLICY must be \"change\" or \"reject\", got %q", cfg.Vote.Policy)
	}

	if cfg.RateLimit.DefaultLimit < 1 || cfg.RateLimit.VoteLimit < 1 || cfg.RateLimit.Window <= 0 {
		return nil, errors.New("rate limits and window must be positive")
	}

	return cfg, nil
}

// envReader parses typed variables and keeps every malformed one it meets.
type envReader struct {
	errs []error
}

func (e *envReader) integer(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return n
}

func (e *envReader) boolean(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be a boolean, got %q", key, v))
		return fallback
	}
	return b
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
