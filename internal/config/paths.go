// Package config manages user preferences stored as JSON5/JSON files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the datlink config directory.
// Respects XDG_CONFIG_HOME; defaults to $HOME/.config/datlink.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "datlink"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, ".config", "datlink"), nil
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}
