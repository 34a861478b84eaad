package config

import (
	"testing"
	"time"
)

func TestReadContentConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := readContentConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BaseURL != DefaultContentBaseURL {
			t.Errorf("expected default base url, got %q", cfg.BaseURL)
		}
		if cfg.Timeout != DefaultContentTimeoutSeconds*time.Second {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("CONTENT_BASE_URL", "http://content:8080")
		t.Setenv("CONTENT_API_KEY", "secret")
		t.Setenv("CONTENT_TIMEOUT_SECONDS", "3")
		cfg, err := readContentConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BaseURL != "http://content:8080" {
			t.Errorf("unexpected base url: %q", cfg.BaseURL)
		}
		if cfg.APIKey != "secret" {
			t.Errorf("unexpected api key: %q", cfg.APIKey)
		}
		if cfg.Timeout != 3*time.Second {
			t.Errorf("unexpected timeout: %v", cfg.Timeout)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("CONTENT_TIMEOUT_SECONDS", "abc")
		_, err := readContentConfig()
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("expected default server port, got %d", cfg.Server.Port)
	}
	if cfg.Postgres.Name != "studyarena" {
		t.Errorf("unexpected db name: %q", cfg.Postgres.Name)
	}
	if cfg.Telemetry.ServiceName != "studyarena" {
		t.Errorf("unexpected telemetry service name: %q", cfg.Telemetry.ServiceName)
	}
}
