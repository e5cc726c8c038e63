// Package config provides the optional user configuration file for jcat.
package config

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the default file name for the config file
const DefaultFileName = "config.yaml"

// EnvConfig names a config file to use instead of the default location.
const EnvConfig = "JCAT_CONFIG"

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/jcat/config.yaml (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jcat", DefaultFileName), nil
}
