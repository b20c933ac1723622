package whack

import "sync"

// Renderer is notified of every visible change to a session.
// Implementations must not call back into the session.
type Renderer interface {
	TargetCreated(slot int, kind Kind)
	TargetHiding(slot int)
	TargetRemoved(slot int)
	ScoreChanged(score int)
	ComboChanged(combo int)
	TimeChanged(remaining int)
	SessionEnded(final, best int)
}

// Sound identifies a sound effect.
type Sound int

const (
	SoundPop    Sound = iota // Target spawned
	SoundSplat               // Bug hit
	SoundGolden              // Golden hit
	SoundOops                // Friendly hit
)

// String returns the name of the sound.
func (s Sound) String() string {
	switch s {
	case SoundPop:
		return "pop"
	case SoundSplat:
		return "splat"
	case SoundGolden:
		return "golden"
	case SoundOops:
		return "oops"
	default:
		return "unknown"
	}
}

// hitSound returns the effect played when a target of kind k is hit.
func hitSound(k Kind) Sound {
	switch k {
	case KindGolden:
		return SoundGolden
	case KindFriendly:
		return SoundOops
	default:
		return SoundSplat
	}
}

// Audio plays sound effects. Errors are logged and otherwise ignored.
type Audio interface {
	Play(s Sound) error
}

// BestScoreStore is a durable cell holding the best score ever reached.
type BestScoreStore interface {
	// BestScore returns the stored best score, or 0 if none was stored yet.
	BestScore() (int, error)
	SetBestScore(score int) error
}

// NopRenderer ignores every notification.
type NopRenderer struct{}

func (NopRenderer) TargetCreated(int, Kind) {}
func (NopRenderer) TargetHiding(int)        {}
func (NopRenderer) TargetRemoved(int)       {}
func (NopRenderer) ScoreChanged(int)        {}
func (NopRenderer) ComboChanged(int)        {}
func (NopRenderer) TimeChanged(int)         {}
func (NopRenderer) SessionEnded(int, int)   {}

// NopAudio plays nothing.
type NopAudio struct{}

func (NopAudio) Play(Sound) error { return nil }

// MemoryBestScore keeps the best score in memory.
type MemoryBestScore struct {
	mu     sync.Mutex
	score  int
	writes int
}

// NewMemoryBestScore creates a store seeded with an initial best score.
func NewMemoryBestScore(initial int) *MemoryBestScore {
	return &MemoryBestScore{score: initial}
}

// BestScore returns the stored best score.
func (m *MemoryBestScore) BestScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

// SetBestScore replaces the stored best score.
func (m *MemoryBestScore) SetBestScore(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.score = score
	m.writes++
	return nil
}

// Writes returns how many times SetBestScore was called.
func (m *MemoryBestScore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
