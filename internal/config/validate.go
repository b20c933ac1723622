package config

import (
	"errors"
	"fmt"
)

// MaxGridSize is the largest supported board edge.
const MaxGridSize = 6

// Validate reports every problem with the config at once.
func (c WhackConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Session.DurationSecs <= 0 {
		add("session.duration_secs must be positive, got %d", c.Session.DurationSecs)
	}
	if c.Session.GridSize < 1 || c.Session.GridSize > MaxGridSize {
		add("session.grid_size must be in [1, %d], got %d", MaxGridSize, c.Session.GridSize)
	}

	if c.Scoring.ComboMultiplier < 1 {
		add("scoring.combo_multiplier must be >= 1, got %g", c.Scoring.ComboMultiplier)
	}
	if c.Scoring.FriendlyPenalty > 0 {
		add("scoring.friendly_penalty must not be positive, got %d", c.Scoring.FriendlyPenalty)
	}

	if c.Spawn.MinDelayMs <= 0 {
		add("spawn.min_delay_ms must be positive, got %d", c.Spawn.MinDelayMs)
	}
	if c.Spawn.InitialDelayMs < c.Spawn.MinDelayMs {
		add("spawn.initial_delay_ms (%d) is below spawn.min_delay_ms (%d)", c.Spawn.InitialDelayMs, c.Spawn.MinDelayMs)
	}
	if c.Spawn.RampMsPerSec < 0 {
		add("spawn.ramp_ms_per_sec must not be negative, got %d", c.Spawn.RampMsPerSec)
	}

	w := c.Spawn.Weights
	if w.Bug < 0 || w.Friendly < 0 || w.Golden < 0 {
		add("spawn.weights must not be negative")
	} else if w.Bug+w.Friendly+w.Golden <= 0 {
		add("spawn.weights must have a positive sum")
	}

	if c.Targets.MinLifetimeMs <= 0 {
		add("targets.min_lifetime_ms must be positive, got %d", c.Targets.MinLifetimeMs)
	}
	if c.Targets.InitialLifetimeMs < c.Targets.MinLifetimeMs {
		add("targets.initial_lifetime_ms (%d) is below targets.min_lifetime_ms (%d)", c.Targets.InitialLifetimeMs, c.Targets.MinLifetimeMs)
	}
	if c.Targets.RampMsPerSec < 0 {
		add("targets.ramp_ms_per_sec must not be negative, got %d", c.Targets.RampMsPerSec)
	}
	if c.Targets.FadeMs < 0 {
		add("targets.fade_ms must not be negative, got %d", c.Targets.FadeMs)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid whack config: %w", errors.Join(errs...))
}
