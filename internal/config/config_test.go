package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaultsAndFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	t.Setenv("SESSION_SECRET", "test-session-secret")

	path := writeConfigFile(t, `
server:
  port: "9090"
database:
  dbname: "records_test"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Database.DBName != "records_test" {
		t.Errorf("Database.DBName = %q", cfg.Database.DBName)
	}
	// Unset values keep their defaults.
	if cfg.Database.Host != "localhost" || cfg.JWT.AccessTokenExpiration != "1h" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("SERVER_PORT", "7070")

	path := writeConfigFile(t, `
server:
  port: "9090"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, want env override 7070", cfg.Server.Port)
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_SECRET", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig accepted empty secrets")
	}
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db.local"
	cfg.Database.Port = "5433"
	cfg.Database.User = "records"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "schoolrecords"
	cfg.Database.SSLMode = "disable"

	want := "postgres://records:pw@db.local:5433/schoolrecords?sslmode=disable"
	if got := cfg.GetPostgresConnectionString(); got != want {
		t.Errorf("GetPostgresConnectionString() = %q, want %q", got, want)
	}
}

func TestPublicBaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	if got := cfg.PublicBaseURL(); got != "http://localhost:8080" {
		t.Errorf("PublicBaseURL() = %q", got)
	}

	cfg.Server.BaseURL = "https://records.example.com"
	if got := cfg.PublicBaseURL(); got != "https://records.example.com" {
		t.Errorf("PublicBaseURL() with base url = %q", got)
	}
}
