package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"PHASECTL_DIR":            "/env/watched",
				"PHASECTL_LOG_LEVEL":      "debug",
				"PHASECTL_AUTO_REPAIR":    "true",
				"PHASECTL_REPAIR_INITIAL": "2s",
				"PHASECTL_REPAIR_MAX":     "1m",
				"PHASECTL_STRICT_RESTART": "1",
			},
			changed: map[string]bool{},
			expected: Config{
				Dir:           "/env/watched",
				LogLevel:      "debug",
				AutoRepair:    true,
				RepairInitial: 2 * time.Second,
				RepairMax:     time.Minute,
				StrictRestart: true,
			},
		},
		{
			name: "changed flags win over env",
			envVars: map[string]string{
				"PHASECTL_DIR":       "/env/watched",
				"PHASECTL_LOG_LEVEL": "debug",
			},
			changed: map[string]bool{"dir": true},
			expected: Config{
				LogLevel: "debug",
			},
		},
		{
			name: "invalid duration errors",
			envVars: map[string]string{
				"PHASECTL_REPAIR_INITIAL": "later",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			var cfg Config
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"bogus", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in).String(); got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
