package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths are the locations studydash uses before a config file has been read.
type Paths struct {
	ConfigFile string
	BaseDir    string
	LogDir     string
}

// DefaultPaths resolves Paths from the environment, falling back to the XDG layout
// under the user's home directory:
//   - STUDYDASH_CONFIG_PATH: config file (default ~/.config/studydash.toml)
//   - STUDYDASH_HOME: data directory (default ~/.local/share/studydash)
func DefaultPaths() (Paths, error) {
	configFile, err := envOrHome("STUDYDASH_CONFIG_PATH", ".config", "studydash.toml")
	if err != nil {
		return Paths{}, err
	}
	base, err := envOrHome("STUDYDASH_HOME", ".local", "share", "studydash")
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		ConfigFile: configFile,
		BaseDir:    base,
		LogDir:     filepath.Join(base, "log"),
	}, nil
}

func envOrHome(key string, rel ...string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%s unset and no home directory: %w", key, err)
	}
	return filepath.Join(append([]string{home}, rel...)...), nil
}
