// Package config reads server settings from the environment. main loads a
// .env file first, so values there behave like real env vars.
package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string // "json" | "console"
	Store          string // "memory" | "sqlite"
	DatabasePath   string
	ClientOrigin   string
	RequestTimeout time.Duration
	ExportEnabled  bool
	ExportFile     string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "5175")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.LogFormat = strings.ToLower(getenv("LOG_FORMAT", "json"))
	c.Store = strings.ToLower(getenv("STORE", "memory"))
	c.DatabasePath = getenv("DATABASE_PATH", "./data/wolf.db")
	c.ClientOrigin = getenv("CLIENT_ORIGIN", "http://localhost:5173")
	c.RequestTimeout = 10 * time.Second
	if d, err := time.ParseDuration(os.Getenv("REQUEST_TIMEOUT")); err == nil && d > 0 {
		c.RequestTimeout = d
	}
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./wolf-scorecards.txt")
	return c
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
