package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets all TORII_* variables for the duration of a test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "TORII_") {
			key := strings.SplitN(kv, "=", 2)[0]
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TORII_AUTH_PROJECT_ID", "my-project")
	t.Setenv("TORII_STORE_PROJECT_ID", "my-project")
	t.Setenv("TORII_API_ADDR", ":9090")
	t.Setenv("TORII_ENV", "production")
	t.Setenv("TORII_AUTH_SESSION_TTL", "24h")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if cfg.Auth.ProjectID != "my-project" {
		t.Errorf("Auth.ProjectID = %q, want my-project", cfg.Auth.ProjectID)
	}
	if cfg.API.Addr != ":9090" {
		t.Errorf("API.Addr = %q, want :9090", cfg.API.Addr)
	}
	if cfg.Auth.SessionTTL.Std() != 24*time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 24h", cfg.Auth.SessionTTL.Std())
	}
	if !cfg.Production() {
		t.Error("Production() = false, want true")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TORII_AUTH_PROJECT_ID", "my-project")
	t.Setenv("TORII_STORE_PROJECT_ID", "my-project")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if cfg.API.Addr != ":8080" {
		t.Errorf("API.Addr = %q, want :8080", cfg.API.Addr)
	}
	if cfg.Auth.SessionTTL.Std() != 14*24*time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 336h", cfg.Auth.SessionTTL.Std())
	}
	if cfg.Auth.FreshWindow.Std() != 5*time.Minute {
		t.Errorf("Auth.FreshWindow = %v, want 5m", cfg.Auth.FreshWindow.Std())
	}
	if cfg.Production() {
		t.Error("Production() = true, want false by default")
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing auth project",
			env:  map[string]string{"TORII_STORE_PROJECT_ID": "p"},
		},
		{
			name: "missing store project",
			env:  map[string]string{"TORII_AUTH_PROJECT_ID": "p"},
		},
		{
			name: "session ttl too short",
			env: map[string]string{
				"TORII_AUTH_PROJECT_ID":  "p",
				"TORII_STORE_PROJECT_ID": "p",
				"TORII_AUTH_SESSION_TTL": "1m",
			},
		},
		{
			name: "session ttl too long",
			env: map[string]string{
				"TORII_AUTH_PROJECT_ID":  "p",
				"TORII_STORE_PROJECT_ID": "p",
				"TORII_AUTH_SESSION_TTL": "720h",
			},
		},
		{
			name: "unknown environment",
			env: map[string]string{
				"TORII_AUTH_PROJECT_ID":  "p",
				"TORII_STORE_PROJECT_ID": "p",
				"TORII_ENV":              "staging",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := LoadFromEnv(); err == nil {
				t.Error("LoadFromEnv() error = nil, want error")
			}
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	content := `
auth:
  project_id: file-project
  session_ttl: 48h
store:
  project_id: file-project
  database: torii
api:
  addr: ":7070"
  environment: production
  cors_origins:
    - https://app.example.com
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Auth.ProjectID != "file-project" {
		t.Errorf("Auth.ProjectID = %q, want file-project", cfg.Auth.ProjectID)
	}
	if cfg.Auth.SessionTTL.Std() != 48*time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 48h", cfg.Auth.SessionTTL.Std())
	}
	if cfg.Store.Database != "torii" {
		t.Errorf("Store.Database = %q, want torii", cfg.Store.Database)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "https://app.example.com" {
		t.Errorf("API.CORSOrigins = %v, want [https://app.example.com]", cfg.API.CORSOrigins)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TORII_AUTH_PROJECT_ID", "env-project")

	content := `
auth:
  project_id: file-project
store:
  project_id: file-project
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Auth.ProjectID != "env-project" {
		t.Errorf("Auth.ProjectID = %q, want env-project (env override)", cfg.Auth.ProjectID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() error = nil, want error for missing file")
	}
}

func TestLoad_EmptyPathDelegatesToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TORII_AUTH_PROJECT_ID", "p")
	t.Setenv("TORII_STORE_PROJECT_ID", "p")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v, want nil", err)
	}
	if cfg.Auth.ProjectID != "p" {
		t.Errorf("Auth.ProjectID = %q, want p", cfg.Auth.ProjectID)
	}
}
