// Package config loads the bridge configuration from a TOML file and fills
// in defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	BindAddr    string `toml:"bind_addr"`
	SegmentSize int    `toml:"segment_size"`
	BitRate     int    `toml:"bit_rate"` // sender pacing, bits per second

	DefaultDriveSpeed  float64 `toml:"default_drive_speed"`  // m/s
	DefaultRotateSpeed float64 `toml:"default_rotate_speed"` // rad/s
	ReadyTimeoutMs     int     `toml:"ready_timeout_ms"`

	DriveAction  string `toml:"drive_action"`
	RotateAction string `toml:"rotate_action"`

	WebAddr    string `toml:"web_addr"` // empty disables the web surface
	MDNS       bool   `toml:"mdns"`
	MCP        bool   `toml:"mcp"`
	ReportSecs int    `toml:"report_secs"`

	LogLevel string `toml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		BindAddr:           "0.0.0.0:10001",
		SegmentSize:        800,
		BitRate:            400000,
		DefaultDriveSpeed:  0.25,
		DefaultRotateSpeed: 0.8,
		ReadyTimeoutMs:     500,
		DriveAction:        "/drive_distance",
		RotateAction:       "/rotate_angle",
		WebAddr:            "0.0.0.0:8080",
		MDNS:               true,
		ReportSecs:         0,
		LogLevel:           "info",
	}
}

// Load reads path and overlays it on the defaults. An empty path yields the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.BindAddr == "" {
		return fmt.Errorf("bind_addr must be set")
	}
	if c.SegmentSize <= 0 {
		return fmt.Errorf("segment_size must be positive, got %d", c.SegmentSize)
	}
	if c.BitRate < 0 {
		return fmt.Errorf("bit_rate must not be negative, got %d", c.BitRate)
	}
	if c.DefaultDriveSpeed <= 0 {
		return fmt.Errorf("default_drive_speed must be positive, got %v", c.DefaultDriveSpeed)
	}
	if c.DefaultRotateSpeed <= 0 {
		return fmt.Errorf("default_rotate_speed must be positive, got %v", c.DefaultRotateSpeed)
	}
	if c.ReadyTimeoutMs <= 0 {
		return fmt.Errorf("ready_timeout_ms must be positive, got %d", c.ReadyTimeoutMs)
	}
	return nil
}

// ReadyTimeout returns the action readiness wait as a duration.
func (c Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutMs) * time.Millisecond
}
