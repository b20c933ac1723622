package whack

import (
	"time"

	"github.com/vovakirdan/tui-whack/internal/config"
)

// Settings are the fixed rules of a round.
type Settings struct {
	Duration int // Round length in seconds
	GridSize int // N for an NxN board
	Scoring  Scoring
	Curve    Curve
	Weights  KindWeights
	Fade     time.Duration // Hide delay between expiry and freeing the slot
}

// Slots returns the number of slots on the board.
func (s Settings) Slots() int {
	return s.GridSize * s.GridSize
}

// DefaultSettings returns the classic 30 second 3x3 rules.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.DefaultWhackConfig())
}

// SettingsFromConfig converts a loaded configuration into round rules.
// A disabled difficulty freezes the curve at its initial values.
func SettingsFromConfig(cfg config.WhackConfig) Settings {
	s := Settings{
		Duration: cfg.Session.DurationSecs,
		GridSize: cfg.Session.GridSize,
		Scoring: Scoring{
			BasePoints:      cfg.Scoring.BasePoints,
			GoldenPoints:    cfg.Scoring.GoldenPoints,
			FriendlyPenalty: cfg.Scoring.FriendlyPenalty,
			ComboMultiplier: cfg.Scoring.ComboMultiplier,
		},
		Curve: Curve{
			InitialSpawnDelay: ms(cfg.Spawn.InitialDelayMs),
			MinSpawnDelay:     ms(cfg.Spawn.MinDelayMs),
			SpawnRamp:         ms(cfg.Spawn.RampMsPerSec),
			InitialLifetime:   ms(cfg.Targets.InitialLifetimeMs),
			MinLifetime:       ms(cfg.Targets.MinLifetimeMs),
			LifetimeRamp:      ms(cfg.Targets.RampMsPerSec),
			HeadStart:         cfg.HeadStartSecs(),
		},
		Weights: KindWeights{
			Bug:      cfg.Spawn.Weights.Bug,
			Friendly: cfg.Spawn.Weights.Friendly,
			Golden:   cfg.Spawn.Weights.Golden,
		},
		Fade: ms(cfg.Targets.FadeMs),
	}
	if !cfg.Difficulty.Enabled {
		s.Curve.SpawnRamp = 0
		s.Curve.LifetimeRamp = 0
	}
	return s
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
