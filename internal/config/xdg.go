package config

import (
	"os"
	"path/filepath"
)

const appName = "learncricket"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultPath returns the config file path: LEARNCRICKET_CONFIG if set,
// otherwise $XDG_CONFIG_HOME/learncricket/config.toml.
func DefaultPath() string {
	if v := os.Getenv("LEARNCRICKET_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultLogPath returns $XDG_DATA_HOME/learncricket/learncricket.log.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".log")
}
