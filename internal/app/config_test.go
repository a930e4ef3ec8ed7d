package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api_base_url: https://api.example.com\ntoken: file-token\nlog_mode: production\nrequest_timeout_seconds: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ROADMAP_CONFIG", path)

	cfg := LoadConfig(mustTestLogger(t))
	if cfg.APIBaseURL != "https://api.example.com" || cfg.Token != "file-token" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.LogMode != "production" || cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	// Environment overrides the file.
	t.Setenv("ROADMAP_TOKEN", "env-token")
	t.Setenv("ROADMAP_REQUEST_TIMEOUT", "7")
	cfg = LoadConfig(mustTestLogger(t))
	if cfg.Token != "env-token" || cfg.RequestTimeout != 7*time.Second {
		t.Fatalf("env override not applied: %+v", cfg)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ROADMAP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	cfg := LoadConfig(mustTestLogger(t))
	if cfg.APIBaseURL != "http://localhost:8080" || cfg.Token != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LogMode != "development" || cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigIgnoresMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ROADMAP_CONFIG", path)

	cfg := LoadConfig(mustTestLogger(t))
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Fatalf("malformed file should fall back to defaults: %+v", cfg)
	}
}
