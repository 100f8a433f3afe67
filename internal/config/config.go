// Package config provides configuration management for userboard.
// Configuration can be loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Storage Storage `mapstructure:"storage"`
	Logging Logging `mapstructure:"logging"`
	Metrics Metrics `mapstructure:"metrics"`
}

// Storage holds durable key/value store settings.
type Storage struct {
	// Driver selects the durable store backend: "sqlite" or "memory".
	// "memory" loses state on exit and exists for tests and dry runs.
	Driver string `mapstructure:"driver"`

	// Path is the SQLite database file (used when Driver is "sqlite").
	// ":memory:" is accepted for an ephemeral database.
	Path string `mapstructure:"path"`

	// JournalMode sets the SQLite journal mode (WAL recommended).
	JournalMode string `mapstructure:"journal_mode"`

	// BusyTimeout sets the SQLite busy timeout in milliseconds.
	BusyTimeout int `mapstructure:"busy_timeout"`
}

// Logging holds logging settings.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Metrics holds Prometheus metrics settings.
type Metrics struct {
	// Enabled determines if the metrics listener is started.
	Enabled bool `mapstructure:"enabled"`

	// Addr is the listen address for the metrics HTTP server.
	Addr string `mapstructure:"addr"`

	// Path is the URL path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// Load reads configuration from the specified file and environment variables.
// Environment variables take precedence over file values and are prefixed
// with USERBOARD_ using _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("USERBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// Config file is optional - defaults and env vars can carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "./data/userboard.db")
	v.SetDefault("storage.journal_mode", "WAL")
	v.SetDefault("storage.busy_timeout", 5000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9091")
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging format: %q", c.Logging.Format)
	}

	return nil
}
