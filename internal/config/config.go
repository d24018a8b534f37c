// ABOUTME: Configuration management for daily with YAML config and DAILY_* env overrides.
// ABOUTME: Handles backend selection, storage paths, editor choice, and ~ expansion.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultBackend      = "file"
	DefaultEntriesDir   = "~/Work/daily"
	DefaultDatabasePath = "~/Work/daily/daily.db"
	DefaultExtension    = "txt"
	DefaultLogLevel     = "warn"
)

// EnvPrefix prefixes environment overrides, e.g. DAILY_BACKEND.
const EnvPrefix = "DAILY"

// Config stores daily configuration loaded from ~/.config/daily/config.yaml.
type Config struct {
	Backend      string `yaml:"backend" mapstructure:"backend"`
	EntriesDir   string `yaml:"entries_dir" mapstructure:"entries_dir"`
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"`
	Editor       string `yaml:"editor,omitempty" mapstructure:"editor"`
	Extension    string `yaml:"extension" mapstructure:"extension"`
	LogLevel     string `yaml:"log_level" mapstructure:"log_level"`
}

// Default returns a config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Backend:      DefaultBackend,
		EntriesDir:   DefaultEntriesDir,
		DatabasePath: DefaultDatabasePath,
		Extension:    DefaultExtension,
		LogLevel:     DefaultLogLevel,
	}
}

// GetEntriesDir returns the expanded entries directory for the file backend.
func (c *Config) GetEntriesDir() (string, error) {
	return ExpandPath(c.EntriesDir)
}

// GetDatabasePath returns the expanded database path for the sqlite backend.
func (c *Config) GetDatabasePath() (string, error) {
	return ExpandPath(c.DatabasePath)
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "daily", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := Default()
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("entries_dir", defaults.EntriesDir)
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("editor", "")
	v.SetDefault("extension", defaults.Extension)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads config from disk, then applies DAILY_* environment overrides.
// Returns defaults (plus overrides) if the file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown backend kinds.
func (c *Config) Validate() error {
	switch c.Backend {
	case "file", "sqlite":
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want file or sqlite)", c.Backend)
	}
}

// Save writes config to disk atomically.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return atomicWrite(path, data, 0600)
}

// atomicWrite writes data to a sibling temp file and renames it over path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
