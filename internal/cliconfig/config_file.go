package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Dir           string `toml:"dir"`
	LogLevel      string `toml:"log_level"`
	AutoRepair    *bool  `toml:"auto_repair"`
	RepairInitial string `toml:"repair_initial"`
	RepairMax     string `toml:"repair_max"`
	StrictRestart *bool  `toml:"strict_restart"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.phasectl/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".phasectl", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dir", fc.Dir, &cfg.Dir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setBool("auto-repair", fc.AutoRepair, &cfg.AutoRepair)
	s.setBool("strict-restart", fc.StrictRestart, &cfg.StrictRestart)

	if err := s.setDuration("repair-initial", fc.RepairInitial, &cfg.RepairInitial); err != nil {
		return err
	}
	if err := s.setDuration("repair-max", fc.RepairMax, &cfg.RepairMax); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
