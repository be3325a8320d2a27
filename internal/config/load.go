package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the per-project config file looked up next to a stage.
const ProjectFile = "xformsync.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	return LoadFor("")
}

// LoadFor loads configuration for the stage at stagePath. Without an
// explicit -config, an xformsync.yaml beside the stage wins over the working
// directory and the user config directory.
func LoadFor(stagePath string) (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile(stagePath)
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// CLI flags have the last word
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// searchPaths lists config candidates in lookup order.
func searchPaths(stagePath string) []string {
	var paths []string
	if stagePath != "" {
		paths = append(paths, filepath.Join(filepath.Dir(stagePath), ProjectFile))
	}
	return append(paths,
		ProjectFile,
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	)
}

func findConfigFile(stagePath string) string {
	for _, path := range searchPaths(stagePath) {
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
		return filepath.Join(home, "Library", "Application Support", "xformsync")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "xformsync")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "xformsync")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "xformsync")
	}
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so a
// misspelled engine option does not silently fall back to its default.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
