package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.AutoRepair {
		t.Error("AutoRepair should default to false")
	}
	if cfg.RepairInitial != 500*time.Millisecond {
		t.Errorf("RepairInitial = %v, want 500ms", cfg.RepairInitial)
	}
	if cfg.RepairMax != 10*time.Second {
		t.Errorf("RepairMax = %v, want 10s", cfg.RepairMax)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.Dir = "/tmp/watched"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing dir", func(c *Config) { c.Dir = "" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"zero repair initial", func(c *Config) { c.RepairInitial = 0 }, true},
		{"max below initial", func(c *Config) {
			c.RepairInitial = time.Second
			c.RepairMax = time.Millisecond
		}, true},
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
