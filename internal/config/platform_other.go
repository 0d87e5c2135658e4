//go:build !darwin

package config

import (
	"os"
	"path/filepath"

	"github.com/kalambet/prefs/internal/legacy"
)

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "prefs-data"
		}
	}
	return filepath.Join(dir, "prefs")
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/prefs, falling back to
// ~/.config/prefs.
func DefaultConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "prefs")
}

// defaultLegacy points at the flat JSON prefs file older releases kept
// beside the config.
func defaultLegacy() (backend, location string) {
	return legacy.BackendJSON, filepath.Join(DefaultConfigDir(), "prefs.json")
}
