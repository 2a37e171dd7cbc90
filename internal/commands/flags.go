package commands

import (
	"os"
	"path/filepath"
)

// Flags holds the global flag values shared by all commands. The App is
// populated in the root command's Before hook.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	VaultPath  string
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "vaultflow", "config.yaml")
}
