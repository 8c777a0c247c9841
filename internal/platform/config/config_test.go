package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{"API_FIRESTORE_PROJECT_ID": "demo-project"}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != defaultPort {
		t.Fatalf("expected default port %q, got %q", defaultPort, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Fatalf("expected default read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.DefaultLimit != defaultPageLimit || cfg.Catalog.MaxLimit != defaultMaxPageLimit {
		t.Fatalf("unexpected catalog defaults: %+v", cfg.Catalog)
	}
}

func TestLoadRequiresProjectID(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatalf("expected validation error without project id")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := validation.Fields()
	if len(fields) == 0 || fields[0] != "Firestore.ProjectID" {
		t.Fatalf("expected Firestore.ProjectID flagged, got %v", fields)
	}
}

func TestLoadEnvMapOverrides(t *testing.T) {
	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"API_FIRESTORE_PROJECT_ID":    "demo-project",
			"API_SERVER_PORT":             "9090",
			"API_SERVER_READ_TIMEOUT":     "5s",
			"API_CATALOG_DEFAULT_LIMIT":   "24",
			"API_CATALOG_MAX_LIMIT":       "50",
			"API_FIRESTORE_EMULATOR_HOST": "localhost:8200",
		}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("env overrides not applied: %+v", cfg.Server)
	}
	if cfg.Catalog.DefaultLimit != 24 || cfg.Catalog.MaxLimit != 50 {
		t.Fatalf("catalog overrides not applied: %+v", cfg.Catalog)
	}
	if cfg.Firestore.EmulatorHost != "localhost:8200" {
		t.Fatalf("emulator host not applied: %+v", cfg.Firestore)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport API_SERVER_PORT=7070\nAPI_FIRESTORE_PROJECT_ID=\"file-project\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected port from .env, got %q", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "file-project" {
		t.Fatalf("expected quoted value unwrapped, got %q", cfg.Firestore.ProjectID)
	}
}

func TestLoadRejectsInvalidLimits(t *testing.T) {
	_, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"API_FIRESTORE_PROJECT_ID":  "demo-project",
			"API_CATALOG_DEFAULT_LIMIT": "50",
			"API_CATALOG_MAX_LIMIT":     "10",
		}),
	)
	if err == nil {
		t.Fatalf("expected validation error when max limit below default limit")
	}
}
