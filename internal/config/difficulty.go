package config

import (
	"fmt"
	"math"
)

// ParsePreset converts a flag value to a preset. Empty means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyWhackPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config untouched.
func ApplyWhackPreset(cfg *WhackConfig, preset DifficultyPreset) {
	switch {
	case preset == "":
		return
	case IsFixedPreset(preset):
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// HeadStartSecs converts the initial level into seconds already "elapsed" on
// the difficulty ramp when a round starts.
func (c WhackConfig) HeadStartSecs() int {
	if !c.Difficulty.Enabled {
		return 0
	}
	level := clampF(c.Difficulty.InitialLevel, 0, 1)
	return int(math.Round(level * float64(c.Session.DurationSecs)))
}

func clampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
