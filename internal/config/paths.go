// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global EchoMind directory.
	GlobalDirName = ".echomind"

	// LogsDirName is the name of the session logs directory.
	LogsDirName = "logs"

	// SessionLogFileName is the name of the actively written session log.
	SessionLogFileName = "terminal.log"

	// SettingsFileName is the name of the settings file.
	SettingsFileName = "settings.yaml"
)

// GlobalDir returns the path to the global EchoMind directory (~/.echomind/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalLogsDir returns the path to the session logs directory.
func GlobalLogsDir() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogsDirName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// EnsureLogsDir creates a log directory with owner-only permissions.
// Captured sessions may contain secrets typed at the prompt, so the
// directory is never group- or world-readable.
func EnsureLogsDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	// MkdirAll leaves an existing directory's mode alone; tighten it.
	return os.Chmod(dir, 0o700)
}
