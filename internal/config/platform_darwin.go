//go:build darwin

package config

import (
	"os"
	"path/filepath"

	"github.com/kalambet/prefs/internal/legacy"
)

// defaultsDomain is the UserDefaults domain settings lived in before the
// settings file.
const defaultsDomain = "com.prefs.app"

func appSupportDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, "Library", "Application Support", "prefs")
	}
	return "prefs-data"
}

func defaultDataDir() string {
	return appSupportDir()
}

// DefaultConfigDir returns ~/Library/Application Support/prefs.
func DefaultConfigDir() string {
	return appSupportDir()
}

func defaultLegacy() (backend, location string) {
	return legacy.BackendDefaults, defaultsDomain
}
