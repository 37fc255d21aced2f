package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names an environment variable holding a config path. It is
// consulted when no -config flag is given.
const EnvConfig = "MIDGARD_RASTER_CONFIG"

// Load builds the configuration from defaults, then the config file, then
// command line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := configFile(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFile picks the file to load: the flag, the environment, then the
// first existing standard location.
func configFile() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	return findConfigFile()
}

// findConfigFile returns the first existing standard location, or "".
func findConfigFile() string {
	for _, path := range []string{
		"config.yaml",
		"midgard-raster.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MidgardRaster")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardRaster")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-raster")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-raster")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected so that typos do not silently fall back to
// defaults. An empty file leaves cfg unchanged.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
