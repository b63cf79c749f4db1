package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvDatabase  = "TASKBOARD_DB"
	EnvActor     = "TASKBOARD_ACTOR"
	EnvLogLevel  = "TASKBOARD_LOG_LEVEL"
	EnvSocket    = "TASKBOARD_SOCKET"
	EnvThemeFile = "TASKBOARD_THEME_FILE"
)

// Config represents the application configuration
type Config struct {
	Database     DatabaseConfig `yaml:"database"`
	Log          LogConfig      `yaml:"log"`
	Events       EventsConfig   `yaml:"events"`
	DefaultActor string         `yaml:"default_actor"`
	Labels       Labels         `yaml:"labels"`
	ColorScheme  ColorScheme    `yaml:"theme"`
}

// DatabaseConfig locates the SQLite file
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`
}

// EventsConfig controls change notifications
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Socket  string `yaml:"socket"`
}

// Labels holds display text for activity messages.
// Status is keyed by status code (BACKLOG, TODO, ...).
type Labels struct {
	Status map[string]string `yaml:"status"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads config from the user's config directory.
// A .env file in the working directory is read first; TASKBOARD_* variables
// then override whatever the file says. Returns defaults if no file exists.
func Load() (*Config, error) {
	loadDotEnv(".env")

	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the config at path. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	loadThemeFile(&cfg)
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the config as YAML to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings that cannot work
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be: debug, info, warn, error)", c.Log.Level)
	}
	return nil
}

// loadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is fine.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// loadThemeFile loads and merges theme from TASKBOARD_THEME_FILE environment variable
func loadThemeFile(config *Config) {
	themeFile := os.Getenv(EnvThemeFile)
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme ColorScheme `yaml:"theme"`
	}
	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		config.ColorScheme.MergeFrom(themeConfig.Theme, true)
	}
}

// applyEnv overrides settings from TASKBOARD_* variables
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvActor); v != "" {
		c.DefaultActor = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvSocket); v != "" {
		c.Events.Socket = v
		c.Events.Enabled = true
	}
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "taskboard", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "taskboard", "config.yaml"), nil
}

// DataDir returns ~/.taskboard, where the database, logs and socket live
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".taskboard"
	}
	return filepath.Join(homeDir, ".taskboard")
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(DataDir(), "taskboard.db")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(DataDir(), "logs", "taskboard.log")
	}
	if c.Events.Socket == "" {
		c.Events.Socket = filepath.Join(DataDir(), "taskboard.sock")
	}
	if c.Labels.Status == nil {
		c.Labels.Status = map[string]string{}
	}
	c.ColorScheme.ApplyDefaults()
}
