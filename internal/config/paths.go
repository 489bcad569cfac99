package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for atlasgen.
type Paths struct {
	// ConfigFile is the path to the config file (~/.atlasgen/config.yaml).
	ConfigFile string

	// HomeDir is the atlasgen home directory (~/.atlasgen).
	HomeDir string
}

// DefaultPaths returns the default paths for atlasgen.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".atlasgen")

	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		HomeDir:    home,
	}, nil
}

// GetConfigFile returns the config file path.
// If ATLASGEN_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("ATLASGEN_CONFIG"); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, path[1:]), nil
}
