package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the config directory.
const EnvHome = "CELLSCOPE_HOME"

// ConfigDir returns $CELLSCOPE_HOME, or ~/.cellscope.
func ConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName), nil
}

// ConfigPath returns the user config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// EnsureConfigDir creates the config directory and its cache subdirectory.
func EnsureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, "cache"), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory %q: %w", dir, err)
	}
	return dir, nil
}
