package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "jobtrack")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8000")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadReportsAllMissingVariables(t *testing.T) {
	for _, key := range []string{"APP_NAME", "APP_ENV", "HTTP_PORT", "JWT_SECRET"} {
		t.Setenv(key, "")
	}

	_, err := Load()
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
	for _, key := range []string{"APP_NAME", "APP_ENV", "HTTP_PORT", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error should name %s, got %q", key, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{
		"FRONTEND_URL", "BACKEND_ORIGIN", "MIGRATIONS_DIR",
		"DB_HOST", "DB_PORT", "DB_NAME", "JWT_EXPIRES_IN",
		"REDIS_TTL", "FETCH_TIMEOUT", "FETCH_HEADLESS_ENABLED", "ADMIN_EMAILS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.FrontendURL != "http://localhost:3000" {
		t.Fatalf("unexpected frontend default %q", cfg.App.FrontendURL)
	}
	if cfg.App.MigrationsDir != "migrations" {
		t.Fatalf("unexpected migrations default %q", cfg.App.MigrationsDir)
	}
	if cfg.Database.DBHost != "localhost" || cfg.Database.DBPort != "5432" {
		t.Fatalf("unexpected database defaults %+v", cfg.Database)
	}
	if cfg.JWT.ExpiresIn != 7*24*time.Hour {
		t.Fatalf("unexpected jwt expiry default %v", cfg.JWT.ExpiresIn)
	}
	if cfg.Redis.TTL != 10*time.Minute {
		t.Fatalf("unexpected redis ttl default %v", cfg.Redis.TTL)
	}
	if cfg.Fetch.Timeout != 20*time.Second {
		t.Fatalf("unexpected fetch timeout default %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.HeadlessEnabled {
		t.Fatalf("headless mode defaults to off")
	}
	if len(cfg.Admin.Emails) != 0 {
		t.Fatalf("expected empty allowlist, got %v", cfg.Admin.Emails)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRES_IN", "1h")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("FETCH_HEADLESS_ENABLED", "true")
	t.Setenv("DB_POOL_MAX_CONNS", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWT.ExpiresIn != time.Hour {
		t.Fatalf("unexpected jwt expiry %v", cfg.JWT.ExpiresIn)
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Fatalf("unexpected fetch timeout %v", cfg.Fetch.Timeout)
	}
	if !cfg.Fetch.HeadlessEnabled {
		t.Fatalf("expected headless enabled")
	}
	if cfg.Database.PoolMaxConns != 12 {
		t.Fatalf("unexpected pool size %d", cfg.Database.PoolMaxConns)
	}
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRES_IN", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWT.ExpiresIn != 7*24*time.Hour {
		t.Fatalf("bad duration must fall back to the default, got %v", cfg.JWT.ExpiresIn)
	}
}

func TestIsAdminEmail(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_EMAILS", " Admin@Example.com , second@example.com ,, ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Admin.Emails) != 2 {
		t.Fatalf("expected 2 allowlisted emails, got %v", cfg.Admin.Emails)
	}
	if !cfg.Admin.IsAdminEmail("admin@example.com") {
		t.Fatalf("allowlist lookup must be case-insensitive")
	}
	if !cfg.Admin.IsAdminEmail("  SECOND@example.com ") {
		t.Fatalf("allowlist lookup must trim input")
	}
	if cfg.Admin.IsAdminEmail("other@example.com") {
		t.Fatalf("unlisted email must not be admin")
	}
	if cfg.Admin.IsAdminEmail("") {
		t.Fatalf("empty email must not be admin")
	}
}
