// Package config handles application configuration and environment loading.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the HTTP API and SQLite storage.
type Config struct {
	DBPath     string // path to the SQLite database file (default "issuegate.db")
	ListenAddr string // HTTP listen address (default ":8080")
	JWTSecret  string // HS256 shared secret for bearer tokens
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // environment: "development" (default) or "production"

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// SeedDemoData loads a small demo dataset on startup when the database
	// is empty.
	SeedDemoData bool
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables, applying
// defaults for anything unset.
func LoadFromEnv() *Config {
	cfg := &Config{
		DBPath:       os.Getenv("DB_PATH"),
		ListenAddr:   os.Getenv("LISTEN_ADDR"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		Env:          os.Getenv("ENV"),
		SeedDemoData: parseBoolEnvDefault("SEED_DEMO_DATA", false),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "issuegate.db"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	} else {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	return cfg
}

func parseBoolEnvDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
