package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_BACKEND", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("REPORTS_ROOT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != BackendPgx {
		t.Fatalf("expected pgx backend, got %q", cfg.Store.Backend)
	}
	if cfg.App.Addr() != "0.0.0.0:3000" {
		t.Fatalf("unexpected addr %q", cfg.App.Addr())
	}
	if cfg.Reports.Root != "." {
		t.Fatalf("unexpected reports root %q", cfg.Reports.Root)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_BACKEND", "GORM")
	t.Setenv("DB_DIALECT", "sqlite")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("REPORTS_SCHEDULE", "@every 1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != BackendGorm || cfg.Store.Dialect != DialectSQLite {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if !cfg.Auth.Enabled || cfg.Auth.AccessTokenTTL() != 15*time.Minute {
		t.Fatalf("unexpected auth config %+v", cfg.Auth)
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("invalid int should fall back to default, got %v", cfg.App.RequestTimeout())
	}
	if cfg.Reports.Schedule != "@every 1h" {
		t.Fatalf("unexpected schedule %q", cfg.Reports.Schedule)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("DB_BACKEND", "mongo")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("DB_BACKEND", "")
	t.Setenv("REDIS_DB", "x")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid REDIS_DB")
	}
}
