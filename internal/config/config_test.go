package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"contra/internal/types"
)

func TestDefaultsMirrorBackend(t *testing.T) {
	cfg := Default()
	if cfg.Content.DefaultTone != types.ToneInformative {
		t.Errorf("default tone = %q", cfg.Content.DefaultTone)
	}
	if cfg.Content.DefaultTemperature != 0.7 {
		t.Errorf("default temperature = %v", cfg.Content.DefaultTemperature)
	}
	if cfg.Backend.Timeout != 120*time.Second {
		t.Errorf("default timeout = %v", cfg.Backend.Timeout)
	}
}

func TestLoadYAMLAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contra.yaml")
	data := []byte("backend:\n  base_url: http://file:5000\n  timeout: 30s\ncontent:\n  default_tone: poetic\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONTRA_BASE_URL", "http://env:5000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://env:5000" {
		t.Errorf("env should override file, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Backend.Timeout)
	}
	if cfg.Content.DefaultTone != types.TonePoetic {
		t.Errorf("tone = %q, want poetic", cfg.Content.DefaultTone)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing explicit config file should fail")
	}
}

func TestDefaultRequestCarriesDefaults(t *testing.T) {
	cfg := Default()
	req := cfg.DefaultRequest("volcanoes")
	if req.Topic != "volcanoes" || req.Tone != cfg.Content.DefaultTone || req.Variants != 1 {
		t.Errorf("unexpected request: %+v", req)
	}
}
