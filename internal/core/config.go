package core

import "time"

// DefaultTickRate is the host simulation rate when none is configured.
const DefaultTickRate = 60

// RuntimeConfig is what the host tells a game at Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 lets the host pick one from the wall clock
}

// DefaultConfig returns an 80x24 screen at the default tick rate.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
	}
}

// TickInterval is the simulated time covered by one Step. Non-positive tick
// rates fall back to DefaultTickRate.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return time.Second / time.Duration(rate)
}

// GameState is what a game reports to the host after each Step.
type GameState struct {
	Score     int    // Points in the current round
	GameOver  bool   // The round ended; the host may save the score
	Paused    bool   // The simulation is frozen
	SessionID string // Current round, empty before the first start
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
