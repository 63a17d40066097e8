package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
	if cfg.ReadyTimeout() != 500*time.Millisecond {
		t.Errorf("Expected 500ms ready timeout, got %v", cfg.ReadyTimeout())
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.toml")
	content := `
bind_addr = "127.0.0.1:9999"
segment_size = 128
default_drive_speed = 0.3
mdns = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindAddr != "127.0.0.1:9999" {
		t.Errorf("Expected overridden bind_addr, got %q", cfg.BindAddr)
	}
	if cfg.SegmentSize != 128 {
		t.Errorf("Expected segment_size 128, got %d", cfg.SegmentSize)
	}
	if cfg.DefaultDriveSpeed != 0.3 {
		t.Errorf("Expected default_drive_speed 0.3, got %v", cfg.DefaultDriveSpeed)
	}
	if cfg.MDNS {
		t.Error("Expected mdns disabled")
	}
	// Untouched fields keep their defaults.
	if cfg.BitRate != 400000 {
		t.Errorf("Expected default bit_rate, got %d", cfg.BitRate)
	}
	if cfg.RotateAction != "/rotate_angle" {
		t.Errorf("Expected default rotate_action, got %q", cfg.RotateAction)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.toml")
	if err := os.WriteFile(path, []byte("segment_size = -1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for negative segment_size")
	}

	if err := os.WriteFile(path, []byte("not toml at all ["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error for malformed file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/bridge.toml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
