package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all scanner configuration
type Config struct {
	// Hosts to inventory, in scan order. Empty means local host only.
	Hosts []string `mapstructure:"hosts"`

	// Output
	OutputPath string `mapstructure:"output_path"`

	// Task names containing any of these substrings are dropped from
	// the results (known vendor scheduled tasks).
	Exclusions []string `mapstructure:"exclusions"`

	// Probing
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OutputPath: "service-accounts.csv",
		Exclusions: []string{
			"User_Feed_Synchronization",
			"Optimize Start Menu Cache Files",
		},
		ProbeTimeout: 2 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Set config file locations
	viper.SetConfigName("serviceaccounts")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(getConfigDir())
	viper.AddConfigPath(".")

	// Environment variable support
	viper.SetEnvPrefix("SVCACCT")
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	// Unmarshal into struct
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// getConfigDir returns the platform-specific config directory
func getConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "ServiceAccounts")
	case "darwin":
		return "/Library/Application Support/ServiceAccounts"
	default: // Linux and others
		return "/etc/serviceaccounts"
	}
}
