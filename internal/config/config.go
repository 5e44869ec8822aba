// Package config implements ChronoTree's global and repository-local
// configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents ChronoTree configuration.
type Config struct {
	User  UserConfig  `json:"user"`
	Core  CoreConfig  `json:"core"`
	Color ColorConfig `json:"color"`
}

// UserConfig holds the identity recorded on Content payloads the CLI
// authors on the user's behalf.
type UserConfig struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CoreConfig holds core ChronoTree settings.
type CoreConfig struct {
	// Backend selects the default cas.CAS implementation: "memory",
	// "file", or "bolt".
	Backend string `json:"backend"`
}

// ColorConfig holds color settings.
type ColorConfig struct {
	UI bool `json:"ui"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		User: UserConfig{
			Name:  "",
			Email: "",
		},
		Core: CoreConfig{
			Backend: "memory",
		},
		Color: ColorConfig{
			UI: true,
		},
	}
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".chronotreeconfig"), nil
}

func repoConfigPath() string {
	return filepath.Join(".chronotree", "config")
}

// LoadConfig loads configuration from both global and repository config
// files. Repository config takes precedence over global config.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if globalPath, err := globalConfigPath(); err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			var globalCfg Config
			if err := json.Unmarshal(data, &globalCfg); err == nil {
				mergeConfig(cfg, &globalCfg)
			}
		}
	}

	if data, err := os.ReadFile(repoConfigPath()); err == nil {
		var repoCfg Config
		if err := json.Unmarshal(data, &repoCfg); err == nil {
			mergeConfig(cfg, &repoCfg)
		}
	}

	return cfg, nil
}

// SaveGlobalConfig saves configuration to the global config file.
func SaveGlobalConfig(cfg *Config) error {
	globalPath, err := globalConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(globalPath, data, 0644)
}

// SaveRepoConfig saves configuration to the repository config file.
func SaveRepoConfig(cfg *Config) error {
	repoPath := repoConfigPath()

	if err := os.MkdirAll(filepath.Dir(repoPath), 0755); err != nil {
		return fmt.Errorf("failed to create .chronotree directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(repoPath, data, 0644)
}

// GetValue retrieves a configuration value by key (e.g. "user.name").
func GetValue(key string) (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}

	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "user":
		switch field {
		case "name":
			return cfg.User.Name, nil
		case "email":
			return cfg.User.Email, nil
		}
	case "core":
		if field == "backend" {
			return cfg.Core.Backend, nil
		}
	case "color":
		if field == "ui" {
			return fmt.Sprintf("%t", cfg.Color.UI), nil
		}
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// SetValue sets a configuration value by key (e.g. "user.name", "Ada").
func SetValue(key, value string, global bool) error {
	var cfg *Config

	if global {
		globalPath, _ := globalConfigPath()
		cfg = loadOrDefault(globalPath)
	} else {
		cfg = loadOrDefault(repoConfigPath())
	}

	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "user":
		switch field {
		case "name":
			cfg.User.Name = value
		case "email":
			cfg.User.Email = value
		default:
			return fmt.Errorf("unknown user config field: %s", field)
		}
	case "core":
		if field != "backend" {
			return fmt.Errorf("unknown core config field: %s", field)
		}
		cfg.Core.Backend = value
	case "color":
		if field != "ui" {
			return fmt.Errorf("unknown color config field: %s", field)
		}
		cfg.Color.UI = value == "true"
	default:
		return fmt.Errorf("unknown config section: %s", section)
	}

	if global {
		return SaveGlobalConfig(cfg)
	}
	return SaveRepoConfig(cfg)
}

// GetAuthor returns the formatted author string "Name <email>".
func GetAuthor() (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}

	if cfg.User.Name == "" || cfg.User.Email == "" {
		return "", fmt.Errorf("user.name and user.email not configured; run: chronotree config set user.name \"Your Name\" && chronotree config set user.email \"you@example.com\"")
	}

	return fmt.Sprintf("%s <%s>", cfg.User.Name, cfg.User.Email), nil
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid config key: %s (expected format: section.key)", key)
	}
	return parts[0], parts[1], nil
}

func loadOrDefault(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig()
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}
	return cfg
}

// mergeConfig merges source config into destination config. Only
// non-empty string values from source override destination; Color.UI
// is always taken from source.
func mergeConfig(dst, src *Config) {
	if src.User.Name != "" {
		dst.User.Name = src.User.Name
	}
	if src.User.Email != "" {
		dst.User.Email = src.User.Email
	}
	if src.Core.Backend != "" {
		dst.Core.Backend = src.Core.Backend
	}
	dst.Color.UI = src.Color.UI
}
