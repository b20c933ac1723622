package whack

import "time"

// Params are the difficulty-dependent spawn parameters at one moment of a round.
type Params struct {
	SpawnDelay     time.Duration // Wait before the next spawn attempt
	TargetLifetime time.Duration // How long a new target stays up
}

// Curve ramps spawn delay and target lifetime down linearly with elapsed time,
// each clamped at its floor.
type Curve struct {
	InitialSpawnDelay time.Duration
	MinSpawnDelay     time.Duration
	SpawnRamp         time.Duration // Delay reduction per elapsed second

	InitialLifetime time.Duration
	MinLifetime     time.Duration
	LifetimeRamp    time.Duration // Lifetime reduction per elapsed second

	HeadStart int // Seconds added to elapsed, from the difficulty preset
}

// At returns the parameters after elapsed seconds of a round.
func (c Curve) At(elapsed int) Params {
	e := elapsed + c.HeadStart
	if e < 0 {
		e = 0
	}
	return Params{
		SpawnDelay:     ramp(c.InitialSpawnDelay, c.MinSpawnDelay, c.SpawnRamp, e),
		TargetLifetime: ramp(c.InitialLifetime, c.MinLifetime, c.LifetimeRamp, e),
	}
}

func ramp(initial, floor, rate time.Duration, elapsed int) time.Duration {
	v := initial - time.Duration(elapsed)*rate
	if v < floor {
		return floor
	}
	return v
}
