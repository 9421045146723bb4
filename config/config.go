/*
Package config loads server settings from the environment.

SOURCES (later wins):
  1. Built-in defaults
  2. .env file in the working directory (optional, via godotenv)
  3. Process environment
  4. Command-line flags (applied by cmd/server)

VARIABLES:
  PORT              HTTP port (default 8080)
  LOG_LEVEL         debug | info | warn | error (default info)
  LOG_FORMAT        text | json (default text)
  SESSION_TTL       idle time before a ledger session is dropped (default 30m)
  REAPER_INTERVAL   how often idle sessions are checked (default 1m)
  UNDO_DEPTH        undo history depth per ledger (default 5)
  CORS_ORIGINS      comma-separated allowed origins
  SHUTDOWN_TIMEOUT  graceful shutdown budget (default 30s)
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	applog "github.com/warp/ledger-engine/internal/log"
)

type Config struct {
	// HTTP Server
	Port            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Sessions
	SessionTTL     time.Duration
	ReaperInterval time.Duration
	UndoDepth      int
}

// LoadEnvFile loads .env for local development. A missing file is not an error.
func LoadEnvFile(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SessionTTL:     getEnvDuration("SESSION_TTL", 30*time.Minute),
		ReaperInterval: getEnvDuration("REAPER_INTERVAL", time.Minute),
		UndoDepth:      getEnvInt("UNDO_DEPTH", 5),
	}
}

// Validate returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.ReaperInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid reaper interval %v: must be at least 1 second", c.ReaperInterval))
	} else if c.ReaperInterval > c.SessionTTL {
		errors = append(errors, fmt.Sprintf("invalid reaper interval %v: must not exceed session TTL %v", c.ReaperInterval, c.SessionTTL))
	}

	if c.UndoDepth < 1 || c.UndoDepth > 100 {
		errors = append(errors, fmt.Sprintf("invalid undo depth %d: must be between 1 and 100", c.UndoDepth))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
