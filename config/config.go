// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Reminders RemindersConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StorageConfig holds the snapshot database location.
type StorageConfig struct {
	// Path is the SQLite database path. ":memory:" keeps the session
	// in memory only.
	Path string
}

// RemindersConfig holds the reminder scheduler settings.
type RemindersConfig struct {
	Enabled bool
	// CronSchedule is a standard 5-field cron expression for the daily
	// reminder scan.
	CronSchedule string
}

// CORSConfig holds allowed browser origins for the dashboard UI.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads environment variables, optionally seeded from envFile.
// A missing env file is not an error; every setting has a default.
func Load(envFile string) Config {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	return Config{
		Server: ServerConfig{
			Port: getenv("FARMBOOK_PORT", "8080"),
		},
		Storage: StorageConfig{
			Path: getenv("FARMBOOK_DB", "farmbook.db"),
		},
		Reminders: RemindersConfig{
			Enabled:      getenv("FARMBOOK_REMINDERS", "true") == "true",
			CronSchedule: getenv("FARMBOOK_REMINDER_CRON", "0 7 * * *"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getenv("FARMBOOK_CORS_ORIGINS",
				"http://localhost:5173,http://localhost:8080")),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
