package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfig represents ~/.lakeload/config.yaml.
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile is a named set of workflow settings. Every field maps onto the
// environment variable of the same concern; values set in the environment
// or as flags win over the profile.
type Profile struct {
	Catalog     string `yaml:"catalog,omitempty"`
	Schema      string `yaml:"schema,omitempty"`
	Volume      string `yaml:"volume,omitempty"`
	DataDir     string `yaml:"data-dir,omitempty"`
	FilePattern string `yaml:"file-pattern,omitempty"`
	DDLFile     string `yaml:"ddl-file,omitempty"`
	Store       string `yaml:"store,omitempty"`
	Output      string `yaml:"output,omitempty"`
}

// ActiveProfile returns the profile to use based on the override or current-profile.
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

// envMapping pairs a profile value with the environment variable it backs.
func (p Profile) envMapping() map[string]string {
	return map[string]string{
		"CATALOG":       p.Catalog,
		"TARGET_SCHEMA": p.Schema,
		"VOLUME":        p.Volume,
		"DATA_DIR":      p.DataDir,
		"FILE_PATTERN":  p.FilePattern,
		"DDL_FILE":      p.DDLFile,
		"STORE":         p.Store,
	}
}

// ApplyToEnv exports profile values into the environment for keys that are
// not already set, preserving env-over-profile precedence.
func (p Profile) ApplyToEnv() {
	for key, val := range p.envMapping() {
		if val == "" {
			continue
		}
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		_ = os.Setenv(key, val)
	}
}

// ConfigDir returns the path to ~/.lakeload/.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lakeload")
}

// ConfigPath returns the path to ~/.lakeload/config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadUserConfig reads ~/.lakeload/config.yaml.
func LoadUserConfig() (*UserConfig, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return &cfg, nil
}

// SaveUserConfig writes ~/.lakeload/config.yaml.
func SaveUserConfig(cfg *UserConfig) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o600)
}
