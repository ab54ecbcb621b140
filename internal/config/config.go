package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the optional on-disk configuration. Flags always win over
// it; a missing file just yields the defaults.
type Config struct {
	BackupDir string              `json:"backup_dir,omitempty"`
	Presets   map[string][]string `json:"presets,omitempty"`
}

const DefaultBackupDir = "backups"

// Path returns the config file location under the user config dir.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "focus", "config.json"), nil
}

// Load reads the config file, returning defaults when it is absent.
func Load() (*Config, error) {
	cfg := &Config{BackupDir: DefaultBackupDir}

	path, err := Path()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config file corrupted: %w", err)
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = DefaultBackupDir
	}
	return cfg, nil
}

// Preset resolves a named domain list from the config file.
func (c *Config) Preset(name string) ([]string, error) {
	domains, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found in config", name)
	}
	return domains, nil
}

// Save writes the config file, creating its directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
