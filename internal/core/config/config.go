// Package config handles configuration loading and validation for vaultflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultVaultPath is used when neither the config file, the VAULT_PATH
// environment variable, nor a flag selects a vault root.
const DefaultVaultPath = "./AI_Employee_Vault"

// Config holds the application configuration.
type Config struct {
	// VaultPath is the root directory holding the category directories
	// and the Logs directory.
	VaultPath string `yaml:"vault_path"`

	// Actor is recorded as the user on every audit record.
	Actor string `yaml:"actor"`

	// DocumentGlob filters which filenames count as work items.
	DocumentGlob string `yaml:"document_glob"`

	Web     WebConfig     `yaml:"web"`
	Watcher WatcherConfig `yaml:"watcher"`
}

// WebConfig holds the dashboard server settings.
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address for the dashboard server.
func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// WatcherConfig controls the inbox watcher. Enabled uses a *bool so an
// absent key means "on" while an explicit false disables it.
type WatcherConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled reports whether the watcher should run.
func (w WatcherConfig) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		VaultPath:    DefaultVaultPath,
		Actor:        "local_user",
		DocumentGlob: "*.md",
		Web: WebConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
	}
}

// Load reads configuration from the given path. A missing file is not an
// error; defaults apply. vaultOverride, when non-empty, wins over both the
// file and the default (it carries the VAULT_PATH env/flag value).
func Load(configPath, vaultOverride string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if vaultOverride != "" {
		cfg.VaultPath = vaultOverride
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.VaultPath == "" {
		c.VaultPath = def.VaultPath
	}
	if c.Actor == "" {
		c.Actor = def.Actor
	}
	if c.DocumentGlob == "" {
		c.DocumentGlob = def.DocumentGlob
	}
	if c.Web.Host == "" {
		c.Web.Host = def.Web.Host
	}
	if c.Web.Port == 0 {
		c.Web.Port = def.Web.Port
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.VaultPath == "" {
		return fmt.Errorf("vault_path must not be empty")
	}
	if !doublestar.ValidatePattern(c.DocumentGlob) {
		return fmt.Errorf("document_glob %q is not a valid glob pattern", c.DocumentGlob)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port %d is out of range", c.Web.Port)
	}
	return nil
}

// LogsDir returns the directory holding the daily audit log files.
func (c *Config) LogsDir() string {
	return filepath.Join(c.VaultPath, "Logs")
}

// DashboardFile returns the path of the optional free-form overview
// document rendered on the dashboard.
func (c *Config) DashboardFile() string {
	return filepath.Join(c.VaultPath, "Dashboard.md")
}
