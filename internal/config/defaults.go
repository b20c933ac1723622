package config

import (
	_ "embed"
)

//go:embed defaults/whack.yaml
var defaultWhackYAML []byte

//go:embed defaults/whack_xl.yaml
var defaultWhackXLYAML []byte

// DefaultWhackConfig returns the default classic 3x3 configuration.
func DefaultWhackConfig() WhackConfig {
	return WhackConfig{
		Session: SessionConfig{
			DurationSecs: 30,
			GridSize:     3,
		},
		Scoring: ScoringConfig{
			BasePoints:      10,
			GoldenPoints:    25,
			FriendlyPenalty: -15,
			ComboMultiplier: 1.5,
		},
		Spawn: SpawnConfig{
			InitialDelayMs: 2000,
			MinDelayMs:     800,
			RampMsPerSec:   50,
			Weights: WeightsConfig{
				Bug:      0.7,
				Friendly: 0.2,
				Golden:   0.1,
			},
		},
		Targets: TargetConfig{
			InitialLifetimeMs: 2500,
			MinLifetimeMs:     1000,
			RampMsPerSec:      20,
			FadeMs:            300,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
		},
	}
}

// DefaultWhackXLConfig returns the default 4x4 configuration.
func DefaultWhackXLConfig() WhackConfig {
	cfg := DefaultWhackConfig()
	cfg.Session = SessionConfig{DurationSecs: 45, GridSize: 4}
	cfg.Spawn.InitialDelayMs = 1500
	cfg.Spawn.MinDelayMs = 500
	cfg.Spawn.RampMsPerSec = 30
	cfg.Spawn.Weights = WeightsConfig{Bug: 0.65, Friendly: 0.25, Golden: 0.1}
	cfg.Targets.MinLifetimeMs = 900
	cfg.Targets.RampMsPerSec = 25
	return cfg
}

// GetDefaultYAML returns the embedded default YAML for a variant.
func GetDefaultYAML(variant string) []byte {
	switch variant {
	case "whack":
		return defaultWhackYAML
	case "whack_xl":
		return defaultWhackXLYAML
	default:
		return nil
	}
}
