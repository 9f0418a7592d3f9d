package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig_ReadsEnvVars(t *testing.T) {
	env := map[string]string{
		"DB_HOST":           "localhost",
		"DB_PORT":           "5432",
		"DB_USER":           "user1",
		"DB_PASSWORD":       "pass1",
		"DB_NAME":           "db1",
		"JWT_SECRET":        "secret",
		"FRONTEND_URL":      "https://data.example.org",
		"ALLOWED_HOSTS":     "https://a.example.org, https://b.example.org",
		"MEDIA_ROOT":        "/var/lib/electrochem/media",
		"CACHE_TTL_SECONDS": "120",
	}

	for k, v := range env {
		os.Setenv(k, v)
		t.Cleanup(func(key string) func() {
			return func() { os.Unsetenv(key) }
		}(k))
	}

	cfg := LoadConfig()

	if cfg.DBHost != env["DB_HOST"] {
		t.Fatalf("DBHost=%q want %q", cfg.DBHost, env["DB_HOST"])
	}
	if cfg.DBPort != env["DB_PORT"] {
		t.Fatalf("DBPort=%q want %q", cfg.DBPort, env["DB_PORT"])
	}
	if cfg.DBUser != env["DB_USER"] {
		t.Fatalf("DBUser=%q want %q", cfg.DBUser, env["DB_USER"])
	}
	if cfg.DBPassword != env["DB_PASSWORD"] {
		t.Fatalf("DBPassword=%q want %q", cfg.DBPassword, env["DB_PASSWORD"])
	}
	if cfg.DBName != env["DB_NAME"] {
		t.Fatalf("DBName=%q want %q", cfg.DBName, env["DB_NAME"])
	}
	if cfg.JWTSecret != env["JWT_SECRET"] {
		t.Fatalf("JWTSecret=%q want %q", cfg.JWTSecret, env["JWT_SECRET"])
	}
	if cfg.FrontendURL != env["FRONTEND_URL"] {
		t.Fatalf("FrontendURL=%q want %q", cfg.FrontendURL, env["FRONTEND_URL"])
	}
	if cfg.MediaRoot != env["MEDIA_ROOT"] {
		t.Fatalf("MediaRoot=%q want %q", cfg.MediaRoot, env["MEDIA_ROOT"])
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[0] != "https://a.example.org" || cfg.AllowedHosts[1] != "https://b.example.org" {
		t.Fatalf("AllowedHosts=%v", cfg.AllowedHosts)
	}
	if cfg.CacheTTL != 120*time.Second {
		t.Fatalf("CacheTTL=%v want 120s", cfg.CacheTTL)
	}
}

func TestLoadConfig_MissingVars_Defaults(t *testing.T) {
	keys := []string{
		"DB_HOST",
		"DB_PORT",
		"DB_USER",
		"DB_PASSWORD",
		"DB_NAME",
		"JWT_SECRET",
		"FRONTEND_URL",
		"ALLOWED_HOSTS",
		"MEDIA_ROOT",
		"CACHE_TTL_SECONDS",
	}

	for _, k := range keys {
		os.Unsetenv(k)
	}

	cfg := LoadConfig()

	if cfg.DBHost != "" || cfg.DBPort != "" || cfg.DBUser != "" || cfg.DBPassword != "" || cfg.DBName != "" || cfg.JWTSecret != "" {
		t.Fatalf("expected empty DB/JWT settings, got: %+v", cfg)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Fatalf("FrontendURL default=%q", cfg.FrontendURL)
	}
	if cfg.MediaRoot != "media" {
		t.Fatalf("MediaRoot default=%q", cfg.MediaRoot)
	}
	if len(cfg.AllowedHosts) != 0 {
		t.Fatalf("AllowedHosts default=%v", cfg.AllowedHosts)
	}
	if cfg.CacheTTL != 300*time.Second {
		t.Fatalf("CacheTTL default=%v", cfg.CacheTTL)
	}
}

func TestLoadConfig_InvalidCacheTTL_FallsBack(t *testing.T) {
	os.Setenv("CACHE_TTL_SECONDS", "not-a-number")
	t.Cleanup(func() { os.Unsetenv("CACHE_TTL_SECONDS") })

	cfg := LoadConfig()
	if cfg.CacheTTL != 300*time.Second {
		t.Fatalf("CacheTTL=%v want fallback 300s", cfg.CacheTTL)
	}
}
