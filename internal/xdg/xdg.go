// Package xdg resolves XDG Base Directory paths for ballot.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "ballot"

// ConfigDir returns the XDG config directory for ballot.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	return filepath.Join(baseDir("XDG_CONFIG_HOME", ".config"), appName)
}

// StateDir returns the XDG state directory for ballot.
// Checks XDG_STATE_HOME first, falls back to ~/.local/state.
func StateDir() string {
	return filepath.Join(baseDir("XDG_STATE_HOME", ".local", "state"), appName)
}

// CredentialFile is the default location of the persisted session.
func CredentialFile() string {
	return filepath.Join(StateDir(), "credential.json")
}

// ConfigFile is the default location of the optional YAML config.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

func baseDir(env string, fallback ...string) string {
	if base := os.Getenv(env); base != "" {
		return base
	}
	home := os.Getenv("HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}
