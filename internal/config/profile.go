package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfig represents ~/.vidgram/config.yaml
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile is a named set of per-user defaults
type Profile struct {
	Host     string `yaml:"host,omitempty"`
	Output   string `yaml:"output,omitempty"`
	Store    string `yaml:"store,omitempty"`
	PageSize int    `yaml:"page-size,omitempty"`
}

// ActiveProfile returns the profile named by override, or the current one
func (c *UserConfig) ActiveProfile(override string) Profile {
	name := c.CurrentProfile
	if override != "" {
		name = override
	}
	if p, ok := c.Profiles[name]; ok {
		return p
	}
	return Profile{}
}

// UserConfigDir returns ~/.vidgram, or VIDGRAM_HOME when set
func UserConfigDir() string {
	if dir := os.Getenv("VIDGRAM_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vidgram")
}

// UserConfigPath returns the path of the user config file
func UserConfigPath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// LoadUserConfig reads the user config at path. A missing file is an
// empty config.
func LoadUserConfig(path string) (*UserConfig, error) {
	cfg := &UserConfig{Profiles: map[string]Profile{}}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return cfg, nil
}

// SaveUserConfig writes cfg to path, creating the directory if needed
func SaveUserConfig(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
