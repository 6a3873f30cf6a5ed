package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutputPath == "" {
		t.Error("default output path should be set")
	}
	if cfg.ProbeTimeout != 2*time.Second {
		t.Errorf("probe timeout = %v", cfg.ProbeTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if len(cfg.Exclusions) == 0 {
		t.Error("default exclusion set should not be empty")
	}
	if len(cfg.Hosts) != 0 {
		t.Errorf("default hosts should be empty (local host only), got %v", cfg.Hosts)
	}
}
