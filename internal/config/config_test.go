package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "STORE", "DATABASE_PATH", "CLIENT_ORIGIN", "REQUEST_TIMEOUT", "EXPORT_ENABLED", "EXPORT_FILE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "5175" || c.Addr() != ":5175" {
		t.Fatalf("expected port 5175, got %q", c.Port)
	}
	if c.Store != "memory" || c.LogFormat != "json" || c.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.RequestTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", c.RequestTimeout)
	}
	if c.ExportEnabled {
		t.Fatal("expected export disabled by default")
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE", "SQLite")
	t.Setenv("DATABASE_PATH", "/tmp/w.db")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("EXPORT_ENABLED", "true")
	t.Setenv("EXPORT_FILE", "/tmp/cards.txt")
	c := FromEnv()
	if c.Port != "9000" || c.Store != "sqlite" || c.DatabasePath != "/tmp/w.db" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.LogFormat != "console" || c.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected config %+v", c)
	}
	if !c.ExportEnabled || c.ExportFile != "/tmp/cards.txt" {
		t.Fatalf("unexpected export config %+v", c)
	}
}

func TestBadTimeoutFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	if got := FromEnv().RequestTimeout; got != 10*time.Second {
		t.Fatalf("expected 10s, got %s", got)
	}
}
