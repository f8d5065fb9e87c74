// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string

	// DBPath is the SQLite database file path. Parent directories are
	// created on startup.
	DBPath string

	// JWTSecret signs session tokens. Required; there is no safe default.
	JWTSecret string

	// TokenTTL is how long issued session tokens stay valid.
	TokenTTL time.Duration
}

// ErrMissingJWTSecret is returned when JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "./data/splitbook.db"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   24 * time.Hour,
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			slog.Warn("invalid TOKEN_TTL, using default", "value", raw, "error", err)
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
