// Package config handles environment-based configuration for Terminus.
package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"
)

// Config represents the complete Terminus configuration loaded from
// environment variables.
type Config struct {
	Server   ServerConfig
	Railway  RailwayConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Display  DisplayConfig
	Logs     LogsConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string
	Port string
	Mode string // "debug" or "release"
}

// RailwayConfig contains upstream API settings.
type RailwayConfig struct {
	Endpoint string
	Token    string
}

// AuthConfig contains the shared secret for protected routes.
type AuthConfig struct {
	Secret string
}

// DatabaseConfig contains the request audit log database settings.
type DatabaseConfig struct {
	Path string
}

// DisplayConfig contains presentation settings.
type DisplayConfig struct {
	Timezone        string
	Location        *time.Location
	RefreshInterval time.Duration // websocket push cadence
}

// LogsConfig contains event-log fetch and display settings.
type LogsConfig struct {
	EnvironmentID   string // default logs environment, overridable per request
	Filter          string
	Limit           int
	Algorithm       string // "regex" or "custom"
	ActionRegex     string
	ActionMaxLength int
}

// Load reads configuration from environment variables with sensible
// defaults. All environment variables use the TERMINUS_ prefix.
//
// Configuration variables:
//   - TERMINUS_RAILWAY_TOKEN (required)
//   - TERMINUS_RAILWAY_ENDPOINT (default: Railway public GraphQL API)
//   - TERMINUS_AUTH_SECRET (required for protected routes)
//   - TERMINUS_SERVER_HOST (default: "0.0.0.0")
//   - TERMINUS_SERVER_PORT (default: "3000")
//   - TERMINUS_SERVER_MODE (default: "debug")
//   - TERMINUS_DB_PATH (default: "./terminus.db")
//   - TERMINUS_DISPLAY_TIMEZONE (default: "UTC")
//   - TERMINUS_REFRESH_INTERVAL (default: "30s")
//   - TERMINUS_LOGS_ENVIRONMENT_ID (optional)
//   - TERMINUS_LOG_FILTER (optional upstream filter string)
//   - TERMINUS_LOG_LIMIT (default: "50")
//   - TERMINUS_DISPLAY_ALGORITHM (default: "regex")
//   - TERMINUS_ACTION_REGEX (default: capture the bracketed action prefix)
//   - TERMINUS_ACTION_MAX_LENGTH (default: "50")
//
// Returns an error if the Railway token is absent or validation fails.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("TERMINUS_SERVER_HOST", "0.0.0.0"),
			Port: getEnv("TERMINUS_SERVER_PORT", "3000"),
			Mode: getEnv("TERMINUS_SERVER_MODE", "debug"),
		},
		Railway: RailwayConfig{
			Endpoint: getEnv("TERMINUS_RAILWAY_ENDPOINT", ""),
			Token:    os.Getenv("TERMINUS_RAILWAY_TOKEN"),
		},
		Auth: AuthConfig{
			Secret: os.Getenv("TERMINUS_AUTH_SECRET"),
		},
		Database: DatabaseConfig{
			Path: getEnv("TERMINUS_DB_PATH", "./terminus.db"),
		},
		Display: DisplayConfig{
			Timezone:        getEnv("TERMINUS_DISPLAY_TIMEZONE", "UTC"),
			RefreshInterval: getEnvDuration("TERMINUS_REFRESH_INTERVAL", 30*time.Second),
		},
		Logs: LogsConfig{
			EnvironmentID:   os.Getenv("TERMINUS_LOGS_ENVIRONMENT_ID"),
			Filter:          os.Getenv("TERMINUS_LOG_FILTER"),
			Limit:           getEnvInt("TERMINUS_LOG_LIMIT", 50),
			Algorithm:       getEnv("TERMINUS_DISPLAY_ALGORITHM", "regex"),
			ActionRegex:     getEnv("TERMINUS_ACTION_REGEX", `^\[([^\]]+)\]`),
			ActionMaxLength: getEnvInt("TERMINUS_ACTION_MAX_LENGTH", 50),
		},
	}

	if err := validate(cfg); err != nil {
		log.Printf("Configuration validation failed: %v", err)
		return nil, err
	}

	// The display timezone is validated once at startup; an unknown zone
	// falls back to UTC rather than failing the process.
	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		log.Printf("Warning: invalid display timezone %q, falling back to UTC", cfg.Display.Timezone)
		cfg.Display.Timezone = "UTC"
		loc = time.UTC
	}
	cfg.Display.Location = loc

	if cfg.Auth.Secret == "" {
		log.Println("Warning: TERMINUS_AUTH_SECRET is not set, protected routes will return 500")
	}

	log.Printf("Configuration loaded:")
	log.Printf("  Server: %s:%s (mode: %s)", cfg.Server.Host, cfg.Server.Port, cfg.Server.Mode)
	log.Printf("  Database: %s", cfg.Database.Path)
	log.Printf("  Display: timezone=%s, refresh=%v", cfg.Display.Timezone, cfg.Display.RefreshInterval)
	log.Printf("  Logs: environment=%q, limit=%d, algorithm=%s",
		cfg.Logs.EnvironmentID, cfg.Logs.Limit, cfg.Logs.Algorithm)

	return cfg, nil
}

// validate checks if the configuration is valid.
func validate(cfg *Config) error {
	if cfg.Railway.Token == "" {
		return errors.New("TERMINUS_RAILWAY_TOKEN is required")
	}
	if cfg.Logs.Limit < 1 {
		return errors.New("log limit must be at least 1")
	}
	if cfg.Logs.ActionMaxLength < 1 {
		return errors.New("action max length must be at least 1")
	}
	if cfg.Display.RefreshInterval < time.Second {
		return errors.New("refresh interval must be at least 1 second")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid integer value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns a default value.
// Accepts values like "30s", "5m", "1h"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %v", key, value, defaultValue)
	}
	return defaultValue
}
