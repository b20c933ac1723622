package whack

import (
	"math"
	"math/rand/v2"
)

// KindWeights are the relative spawn chances of each kind.
type KindWeights struct {
	Bug      float64
	Friendly float64
	Golden   float64
}

func (w KindWeights) of(k Kind) float64 {
	switch k {
	case KindBug:
		return w.Bug
	case KindFriendly:
		return w.Friendly
	case KindGolden:
		return w.Golden
	default:
		return 0
	}
}

// Draw maps a uniform value u in [0, 1) to a kind using cumulative thresholds.
// With weights 0.7/0.2/0.1: u < 0.7 is Bug, u < 0.9 is Friendly, otherwise Golden.
func (w KindWeights) Draw(u float64) Kind {
	total := w.Bug + w.Friendly + w.Golden
	if math.Abs(total-1) < 1e-9 {
		total = 1
	}
	x := u * total

	fallback := KindBug
	cum := 0.0
	for _, k := range Kinds {
		weight := w.of(k)
		if weight <= 0 {
			continue
		}
		fallback = k
		cum += weight
		if x < cum {
			return k
		}
	}
	return fallback
}

// Spawner chooses where targets appear and what they are.
type Spawner struct {
	weights KindWeights
	rng     *rand.Rand
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(weights KindWeights, rng *rand.Rand) *Spawner {
	return &Spawner{weights: weights, rng: rng}
}

// Pick selects a free slot uniformly and a kind by weight.
// ok is false when no slot is free.
func (sp *Spawner) Pick(free []int) (slot int, kind Kind, ok bool) {
	if len(free) == 0 {
		return 0, KindBug, false
	}
	slot = free[sp.rng.IntN(len(free))]
	return slot, sp.weights.Draw(sp.rng.Float64()), true
}

// scheduleSpawn arms the next spawn attempt with the current spawn delay.
// There is only ever one pending spawn task per session.
func (s *Session) scheduleSpawn() {
	s.spawnTask = s.sched.After(s.params.SpawnDelay, s.spawnAttempt)
}

func (s *Session) spawnAttempt() {
	if s.phase != PhaseRunning {
		return
	}

	if slot, kind, ok := s.spawner.Pick(s.freeSlots()); ok {
		s.place(slot, kind)
	} else {
		s.logger.Debug("board full, skipping spawn")
	}

	s.scheduleSpawn()
}

// freeSlots returns the slots without a live target, in ascending order.
func (s *Session) freeSlots() []int {
	free := make([]int, 0, len(s.targets))
	for slot, t := range s.targets {
		if !t.Live() {
			free = append(free, slot)
		}
	}
	return free
}

// place puts a new target of kind in slot and arms its expiry with the
// lifetime current at this moment.
func (s *Session) place(slot int, kind Kind) *Target {
	now := s.sched.Now()
	lifetime := s.params.TargetLifetime

	s.nextID++
	t := &Target{
		ID:         s.nextID,
		Kind:       kind,
		BasePoints: s.settings.Scoring.Base(kind),
		Slot:       slot,
		SpawnedAt:  now,
		ExpiresAt:  now.Add(lifetime),
		State:      TargetUp,
	}
	s.targets[slot] = t
	s.expiry[slot] = s.sched.After(lifetime, func() { s.expire(t) })

	s.logger.Debug("target spawned", "slot", slot, "kind", kind, "lifetime", lifetime)
	s.render(func(r Renderer) { r.TargetCreated(slot, kind) })
	s.play(SoundPop)
	return t
}

// expire starts hiding t once its lifetime is over. A target that was hit in
// the meantime is no longer owned by its slot and is left alone.
func (s *Session) expire(t *Target) {
	if !s.owns(t) || t.State != TargetUp {
		return
	}

	if s.settings.Fade <= 0 {
		s.logger.Debug("target expired", "slot", t.Slot, "kind", t.Kind)
		s.remove(t)
		return
	}

	t.State = TargetHiding
	s.render(func(r Renderer) { r.TargetHiding(t.Slot) })
	s.expiry[t.Slot] = s.sched.After(s.settings.Fade, func() { s.release(t) })
}

// release frees the slot of a target that finished hiding.
func (s *Session) release(t *Target) {
	if !s.owns(t) {
		return
	}
	s.logger.Debug("target expired", "slot", t.Slot, "kind", t.Kind)
	s.remove(t)
}

// owns reports whether t is still the live target of its slot.
func (s *Session) owns(t *Target) bool {
	return t.Live() && t.Slot >= 0 && t.Slot < len(s.targets) && s.targets[t.Slot] == t
}

// remove takes t off the board, cancelling whatever expiry step is pending.
func (s *Session) remove(t *Target) {
	slot := t.Slot
	t.State = TargetGone
	s.targets[slot] = nil
	if task := s.expiry[slot]; task != nil {
		task.Cancel()
		s.expiry[slot] = nil
	}
	s.render(func(r Renderer) { r.TargetRemoved(slot) })
}
