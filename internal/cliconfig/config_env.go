package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (PHASECTL_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("dir", os.Getenv("PHASECTL_DIR"), &cfg.Dir)
	s.setString("log-level", os.Getenv("PHASECTL_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("repair-initial", os.Getenv("PHASECTL_REPAIR_INITIAL"), &cfg.RepairInitial); err != nil {
		return err
	}
	if err := s.setDuration("repair-max", os.Getenv("PHASECTL_REPAIR_MAX"), &cfg.RepairMax); err != nil {
		return err
	}

	s.setBoolFromString("auto-repair", os.Getenv("PHASECTL_AUTO_REPAIR"), &cfg.AutoRepair)
	s.setBoolFromString("strict-restart", os.Getenv("PHASECTL_STRICT_RESTART"), &cfg.StrictRestart)

	return nil
}
