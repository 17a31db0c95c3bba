package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeTempConfig(t, `
dir = "/srv/watched"
log_level = "debug"
auto_repair = true
repair_initial = "250ms"
repair_max = "30s"
strict_restart = true
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() = %v", err)
	}

	if fc.Dir != "/srv/watched" {
		t.Errorf("Dir = %s, want /srv/watched", fc.Dir)
	}
	if fc.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", fc.LogLevel)
	}
	if fc.AutoRepair == nil || !*fc.AutoRepair {
		t.Error("AutoRepair = nil/false, want true")
	}
	if fc.RepairInitial != "250ms" {
		t.Errorf("RepairInitial = %s, want 250ms", fc.RepairInitial)
	}
	if fc.StrictRestart == nil || !*fc.StrictRestart {
		t.Error("StrictRestart = nil/false, want true")
	}
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	path := writeTempConfig(t, `dir = [not toml`)

	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadFileConfig() expected error for missing file")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := DefaultConfig()
	on := true
	fc := FileConfig{
		Dir:           "/srv/watched",
		LogLevel:      "warn",
		AutoRepair:    &on,
		RepairInitial: "1s",
	}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() = %v", err)
	}

	if cfg.Dir != "/srv/watched" {
		t.Errorf("Dir = %s, want /srv/watched", cfg.Dir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, want warn", cfg.LogLevel)
	}
	if !cfg.AutoRepair {
		t.Error("AutoRepair = false, want true")
	}
	if cfg.RepairInitial != time.Second {
		t.Errorf("RepairInitial = %v, want 1s", cfg.RepairInitial)
	}
	if cfg.RepairMax != 10*time.Second {
		t.Errorf("RepairMax = %v, file without it must keep the default", cfg.RepairMax)
	}
}

func TestApplyFileConfig_RespectsChangedFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = "/from/flag"
	fc := FileConfig{Dir: "/from/file", LogLevel: "error"}

	changed := map[string]bool{"dir": true}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig() = %v", err)
	}

	if cfg.Dir != "/from/flag" {
		t.Errorf("Dir = %s, flag value must win", cfg.Dir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error", cfg.LogLevel)
	}
}

func TestApplyFileConfig_BadDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := FileConfig{RepairInitial: "soon"}

	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Error("ApplyFileConfig() expected error for bad duration")
	}
}

func TestFileExists(t *testing.T) {
	path := writeTempConfig(t, "")

	if !FileExists(path) {
		t.Error("FileExists() = false for existing file")
	}
	if FileExists(filepath.Join(t.TempDir(), "absent")) {
		t.Error("FileExists() = true for missing file")
	}
}
