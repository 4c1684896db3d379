package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/db
auth:
  jwt_secret: s3cret
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Auth.AccessTTL != 15*time.Minute {
		t.Errorf("access ttl = %s", cfg.Auth.AccessTTL)
	}
	if cfg.Auth.RefreshTTL != 30*24*time.Hour {
		t.Errorf("refresh ttl = %s", cfg.Auth.RefreshTTL)
	}
	if cfg.Realtime.SendBuffer != 256 || cfg.Realtime.RateBurst != 10 {
		t.Errorf("realtime defaults not applied: %+v", cfg.Realtime)
	}
}

func TestLoadConfigDurationsAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: SQLite
  url: file.db
auth:
  jwt_secret: from-file
  access_ttl: 5m
  refresh_ttl: 48h
`)
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_PORT", "9100")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("jwt secret = %q, want env override", cfg.Auth.JWTSecret)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Auth.AccessTTL != 5*time.Minute || cfg.Auth.RefreshTTL != 48*time.Hour {
		t.Errorf("ttl = %s/%s", cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing secret", "database:\n  url: x\n"},
		{"unknown driver", "database:\n  driver: mssql\n  url: x\nauth:\n  jwt_secret: s\n"},
		{"missing dsn", "auth:\n  jwt_secret: s\n"},
		{"email without host", "database:\n  url: x\nauth:\n  jwt_secret: s\nemail:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "env-only")
	t.Setenv("APP_DATABASE_URL", "postgres://env/db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.DSN != "postgres://env/db" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
}

func TestLoadConfigBadPort(t *testing.T) {
	t.Setenv("APP_PORT", "eighty")
	path := writeConfig(t, "database:\n  url: x\nauth:\n  jwt_secret: s\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for non-numeric APP_PORT")
	}
}
