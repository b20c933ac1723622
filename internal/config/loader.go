package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadWhack loads the classic variant configuration.
// Search order: customPath -> ~/.whack/configs/whack.yaml -> ./configs/whack.yaml -> embedded default
func LoadWhack(customPath string) (WhackConfig, error) {
	return load("whack", customPath, DefaultWhackConfig)
}

// LoadWhackXL loads the 4x4 variant configuration.
// Search order: customPath -> ~/.whack/configs/whack_xl.yaml -> ./configs/whack_xl.yaml -> embedded default
func LoadWhackXL(customPath string) (WhackConfig, error) {
	return load("whack_xl", customPath, DefaultWhackXLConfig)
}

// Load loads the configuration for a variant ID.
func Load(variant, customPath string) (WhackConfig, error) {
	switch variant {
	case "whack":
		return LoadWhack(customPath)
	case "whack_xl":
		return LoadWhackXL(customPath)
	default:
		return WhackConfig{}, fmt.Errorf("config: unknown variant %q", variant)
	}
}

func load(variant, customPath string, fallback func() WhackConfig) (WhackConfig, error) {
	filename := variant + ".yaml"

	// Custom path must exist and parse; everything after it is best-effort.
	if customPath != "" {
		cfg, err := parseFile(customPath, fallback())
		if err != nil {
			return cfg, err
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if cfg, err := parseFile(userCfgPath, fallback()); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	if cfg, err := parseFile(filepath.Join("configs", filename), fallback()); err == nil && cfg.Validate() == nil {
		return cfg, nil
	}

	cfg := fallback()
	if err := yaml.Unmarshal(GetDefaultYAML(variant), &cfg); err != nil {
		return fallback(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseFile reads a YAML file on top of base, so omitted keys keep their defaults.
func parseFile(path string, base WhackConfig) (WhackConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".whack", "configs", filename)
}
