// Package config provides YAML-based game configuration loading and
// difficulty presets for the whack platform.
package config

// WhackConfig contains all configuration for a Bug Whack variant.
type WhackConfig struct {
	Session    SessionConfig    `yaml:"session"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Targets    TargetConfig     `yaml:"targets"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// SessionConfig defines the round length and board size.
type SessionConfig struct {
	DurationSecs int `yaml:"duration_secs"`
	GridSize     int `yaml:"grid_size"` // N for an NxN board
}

// ScoringConfig defines point values and the combo multiplier.
type ScoringConfig struct {
	BasePoints      int     `yaml:"base_points"`
	GoldenPoints    int     `yaml:"golden_points"`
	FriendlyPenalty int     `yaml:"friendly_penalty"` // Negative
	ComboMultiplier float64 `yaml:"combo_multiplier"`
}

// SpawnConfig defines how often targets appear and which kinds.
type SpawnConfig struct {
	InitialDelayMs int           `yaml:"initial_delay_ms"`
	MinDelayMs     int           `yaml:"min_delay_ms"`
	RampMsPerSec   int           `yaml:"ramp_ms_per_sec"` // Delay reduction per elapsed second
	Weights        WeightsConfig `yaml:"weights"`
}

// WeightsConfig defines the relative spawn chance of each target kind.
type WeightsConfig struct {
	Bug      float64 `yaml:"bug"`
	Friendly float64 `yaml:"friendly"`
	Golden   float64 `yaml:"golden"`
}

// TargetConfig defines how long targets stay up.
type TargetConfig struct {
	InitialLifetimeMs int `yaml:"initial_lifetime_ms"`
	MinLifetimeMs     int `yaml:"min_lifetime_ms"`
	RampMsPerSec      int `yaml:"ramp_ms_per_sec"` // Lifetime reduction per elapsed second
	FadeMs            int `yaml:"fade_ms"`         // Hide animation before the slot frees up
}

// DifficultyConfig defines the difficulty progression.
type DifficultyConfig struct {
	Enabled      bool    `yaml:"enabled"`       // false freezes the curve at its initial values
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = easy, 1.0 = start at the end of the ramp
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)
