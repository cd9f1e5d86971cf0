package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidDuration = errors.New("invalid duration in configuration")
	ErrInvalidAddr     = errors.New("server address must not be empty")
)

// Defaults
const (
	DefaultServerAddr    = ":10001"
	DefaultCacheTTL      = "1h"
	DefaultWingetTimeout = "10m"
)

// Config represents the application configuration
type Config struct {
	Winget  WingetConfig  `yaml:"winget"`
	Updates UpdatesConfig `yaml:"updates"`
	Export  ExportConfig  `yaml:"export"`
	Server  ServerConfig  `yaml:"server"`
}

// WingetConfig holds settings for the winget binary
type WingetConfig struct {
	// Binary is the winget executable name or path (default "winget")
	Binary string `yaml:"binary,omitempty"`
	// Timeout bounds a single winget invocation, as a duration string
	Timeout string `yaml:"timeout,omitempty"`
}

// UpdatesConfig holds update-check settings
type UpdatesConfig struct {
	// CacheTTL is how long a cached upgrade report stays valid
	CacheTTL string `yaml:"cache_ttl,omitempty"`
	// Silent makes installations non-interactive by default
	Silent bool `yaml:"silent,omitempty"`
	// Rules is the path to the per-package rules TOML file
	Rules string `yaml:"rules,omitempty"`
}

// ExportConfig holds manifest export settings
type ExportConfig struct {
	// Dir is the directory export manifests are written to
	Dir string `yaml:"dir,omitempty"`
}

// ServerConfig holds settings for the HTTP service
type ServerConfig struct {
	// Addr is the listen address (default ":10001")
	Addr string `yaml:"addr,omitempty"`
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	return &Config{
		Winget: WingetConfig{
			Binary:  "winget",
			Timeout: DefaultWingetTimeout,
		},
		Updates: UpdatesConfig{
			CacheTTL: DefaultCacheTTL,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// ConfigPaths returns all possible config file paths in priority order
// 1. $XDG_CONFIG_HOME/wingetupdates/config.yaml (XDG standard - priority)
// 2. ~/.wingetupdates/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "wingetupdates", "config.yaml"),
		filepath.Join(home, ".wingetupdates", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path
// Returns the default path if no config file exists yet
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file.
// A missing file yields the defaults; a malformed one is an error.
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills empty fields after unmarshalling
func (c *Config) applyDefaults() {
	if c.Winget.Binary == "" {
		c.Winget.Binary = "winget"
	}
	if c.Winget.Timeout == "" {
		c.Winget.Timeout = DefaultWingetTimeout
	}
	if c.Updates.CacheTTL == "" {
		c.Updates.CacheTTL = DefaultCacheTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Winget.Timeout); err != nil {
		return fmt.Errorf("%w: winget.timeout %q", ErrInvalidDuration, c.Winget.Timeout)
	}
	if _, err := time.ParseDuration(c.Updates.CacheTTL); err != nil {
		return fmt.Errorf("%w: updates.cache_ttl %q", ErrInvalidDuration, c.Updates.CacheTTL)
	}
	if c.Server.Addr == "" {
		return ErrInvalidAddr
	}
	return nil
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// WingetTimeout returns the parsed winget command timeout.
// Validate must have passed for the value to be meaningful.
func (c *Config) WingetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Winget.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultWingetTimeout)
	}
	return d
}

// CacheTTL returns the parsed cache TTL.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Updates.CacheTTL)
	if err != nil {
		d, _ = time.ParseDuration(DefaultCacheTTL)
	}
	return d
}

// ExportDir returns the export directory, defaulting to a directory
// under the user's state dir when unset.
func (c *Config) ExportDir() (string, error) {
	if c.Export.Dir != "" {
		return expandHome(c.Export.Dir)
	}

	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "wingetupdates", "exports"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "wingetupdates", "exports"), nil
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
