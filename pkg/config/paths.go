package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "simwatch.yaml"

// ConfigDir returns the path to the simwatch config directory (~/.simwatch).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".simwatch"), nil
}

// DefaultPath resolves the configuration file to use.
// An explicit path is returned as-is. Otherwise ./simwatch.yaml wins over
// ~/.simwatch/simwatch.yaml; if neither exists the home location is returned
// so error messages point at the expected place.
func DefaultPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, nil
	}

	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultFileName), nil
}
