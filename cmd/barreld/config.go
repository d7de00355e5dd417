package main

import (
	"os"
	"path/filepath"

	"github.com/iov-one/barrel/errors"
	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// Config is the node configuration kept in the home directory.
type Config struct {
	// LogLevel is one of debug, info, error or none.
	LogLevel string `yaml:"log_level"`
	// DBDir is the database directory. Relative paths are resolved
	// against the home directory.
	DBDir string `yaml:"db_dir"`
	// MetricsAddr is the listen address of the prometheus endpoint used
	// by the run command. Metrics are not served when empty.
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns the configuration written by the init command.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		DBDir:    "data",
	}
}

func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "error", "none":
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "unknown log level %q", c.LogLevel)
	}
	if c.DBDir == "" {
		return errors.Wrap(errors.ErrEmpty, "db_dir")
	}
	return nil
}

// dbPath returns the absolute database location.
func (c Config) dbPath(home string) string {
	if filepath.IsAbs(c.DBDir) {
		return c.DBDir
	}
	return filepath.Join(home, c.DBDir)
}

// LoadConfig reads the configuration from the home directory.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	raw, err := os.ReadFile(filepath.Join(home, configFile))
	if err != nil {
		return conf, errors.Wrapf(errors.ErrNotFound, "read config: %s", err)
	}
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInvalidInput, "parse config: %s", err)
	}
	if err := conf.Validate(); err != nil {
		return conf, errors.Wrap(err, "config")
	}
	return conf, nil
}

// SaveConfig writes the configuration to the home directory.
func SaveConfig(home string, conf Config) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "config")
	}
	raw, err := yaml.Marshal(conf)
	if err != nil {
		return errors.Wrap(err, "serialize config")
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return errors.Wrap(err, "create home")
	}
	return os.WriteFile(filepath.Join(home, configFile), raw, 0o644)
}
