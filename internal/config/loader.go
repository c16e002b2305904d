package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath returns the expected configuration file location,
// ~/.config/mcs/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mcs", "config.yaml"), nil
}

// Load reads and parses the configuration file at path. A missing file is
// not an error: the zero Config is returned so built-in defaults apply.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Scan.ServiceTimeoutSeconds < 0 {
		return nil, fmt.Errorf("config %s: service_timeout_seconds must not be negative", path)
	}
	return &cfg, nil
}
