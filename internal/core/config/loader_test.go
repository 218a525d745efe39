package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EnvSubstitution(t *testing.T) {
	// Setup env var
	os.Setenv("TEST_REGISTRY_URL", "http://localhost:4873")
	defer os.Unsetenv("TEST_REGISTRY_URL")

	configContent := `
registry:
  url: ${TEST_REGISTRY_URL}
publish:
  budget: 30s
`
	path := filepath.Join(t.TempDir(), "npmship.yaml")
	if err := os.WriteFile(path, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Registry.URL != "http://localhost:4873" {
		t.Errorf("expected substituted registry URL, got %q", cfg.Registry.URL)
	}
	if cfg.Publish.Budget != 30*time.Second {
		t.Errorf("expected budget 30s, got %v", cfg.Publish.Budget)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Registry.URL != DefaultRegistryURL {
		t.Errorf("expected default registry, got %q", cfg.Registry.URL)
	}
	if cfg.Publish.InitialDelay != 5*time.Second {
		t.Errorf("expected initial delay 5s, got %v", cfg.Publish.InitialDelay)
	}
	if cfg.Publish.MaxDelay != 60*time.Second {
		t.Errorf("expected max delay 60s, got %v", cfg.Publish.MaxDelay)
	}
	if cfg.Publish.MaxJitter != 3*time.Second {
		t.Errorf("expected max jitter 3s, got %v", cfg.Publish.MaxJitter)
	}
	if cfg.Publish.AttemptTimeout != 0 {
		t.Errorf("expected attempt timeout off by default, got %v", cfg.Publish.AttemptTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info level, got %q", cfg.Logging.Level)
	}
}

func TestLoad_RegistryFromEnv(t *testing.T) {
	os.Setenv("NPM_REGISTRY", "http://registry.internal:8080")
	defer os.Unsetenv("NPM_REGISTRY")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Registry.URL != "http://registry.internal:8080" {
		t.Errorf("expected registry from env, got %q", cfg.Registry.URL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	os.Setenv("NPM_REGISTRY", "http://registry.internal:8080")
	defer os.Unsetenv("NPM_REGISTRY")

	configContent := `
registry:
  url: http://from-file:4873
`
	path := filepath.Join(t.TempDir(), "npmship.yaml")
	if err := os.WriteFile(path, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Registry.URL != "http://registry.internal:8080" {
		t.Errorf("expected env to beat config file, got %q", cfg.Registry.URL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
