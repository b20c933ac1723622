// Package audio plays the game's synthesized sound effects through the
// system speaker.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-whack/internal/whack"
)

const sampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by Play before Initialize succeeded.
var ErrNotInitialized = errors.New("audio: speaker not initialized")

// SoundManager mixes sound effects onto the speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64 // Log2 gain, 0 is unchanged
	initialized bool
}

// NewSoundManager creates a sound manager. Nothing plays until Initialize.
func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}, volume: -1}
}

// Initialize opens the speaker. Calling it twice is a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything still playing.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	sm.initialized = false
}

// Play implements whack.Audio. It returns immediately; the effect is mixed in
// the speaker's goroutine.
func (sm *SoundManager) Play(snd whack.Sound) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return ErrNotInitialized
	}
	s, err := effect(snd)
	if err != nil {
		return err
	}

	speaker.Lock()
	sm.mixer.Add(&effects.Volume{Streamer: s, Base: 2, Volume: sm.volume})
	speaker.Unlock()
	return nil
}

var _ whack.Audio = (*SoundManager)(nil)

// effect builds a fresh, finite streamer for a sound.
func effect(snd whack.Sound) (beep.Streamer, error) {
	switch snd {
	case whack.SoundPop:
		return newChirp(sampleRate, 500, 900, 60*time.Millisecond), nil
	case whack.SoundSplat:
		return newSplat(sampleRate, 140*time.Millisecond), nil
	case whack.SoundGolden:
		return arpeggio(sampleRate, 70*time.Millisecond, 880, 1109, 1319)
	case whack.SoundOops:
		return beep.Take(sampleRate.N(180*time.Millisecond), newBuzz(sampleRate, 110)), nil
	default:
		return nil, fmt.Errorf("audio: unknown sound %v", snd)
	}
}

// arpeggio plays the given notes one after another.
func arpeggio(sr beep.SampleRate, each time.Duration, freqs ...float64) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		tone, err := generators.SineTone(sr, f)
		if err != nil {
			return nil, fmt.Errorf("audio: %w", err)
		}
		notes = append(notes, &effects.Volume{Streamer: beep.Take(sr.N(each), tone), Base: 2, Volume: -2})
	}
	return beep.Seq(notes...), nil
}

// chirp is a short rising sine sweep with a linear fade-out.
type chirp struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

func newChirp(sr beep.SampleRate, from, to float64, d time.Duration) *chirp {
	return &chirp{sr: sr, from: from, to: to, total: sr.N(d)}
}

func (c *chirp) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.pos >= c.total {
			return i, i > 0
		}
		p := float64(c.pos) / float64(c.total)
		freq := c.from + (c.to-c.from)*p
		v := 0.3 * (1 - p) * math.Sin(2*math.Pi*c.phase)

		samples[i][0] = v
		samples[i][1] = v
		c.phase += freq / float64(c.sr)
		c.phase -= math.Floor(c.phase)
		c.pos++
	}
	return len(samples), true
}

func (c *chirp) Err() error { return nil }

// splat is filtered noise over a low thump, decaying fast.
type splat struct {
	sr    beep.SampleRate
	total int
	pos   int
	seed  uint32
	last  float64
}

func newSplat(sr beep.SampleRate, d time.Duration) *splat {
	return &splat{sr: sr, total: sr.N(d), seed: 0x2545f491}
}

func (s *splat) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		t := float64(s.pos) / float64(s.sr)

		s.seed ^= s.seed << 13
		s.seed ^= s.seed >> 17
		s.seed ^= s.seed << 5
		noise := float64(s.seed)/math.MaxUint32*2 - 1
		s.last = 0.7*s.last + 0.3*noise // One-pole low-pass

		thump := math.Sin(2 * math.Pi * 70 * t)
		v := math.Exp(-t*25) * (0.35*s.last + 0.25*thump)

		samples[i][0] = v
		samples[i][1] = v
		s.pos++
	}
	return len(samples), true
}

func (s *splat) Err() error { return nil }

// buzz is an endless low square-ish tone; callers bound it with beep.Take.
type buzz struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newBuzz(sr beep.SampleRate, freq float64) *buzz {
	return &buzz{sr: sr, freq: freq}
}

func (b *buzz) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(b.pos) / float64(b.sr)
		v := 0.3*math.Sin(2*math.Pi*b.freq*t) +
			0.15*math.Sin(2*math.Pi*b.freq*2*t) +
			0.075*math.Sin(2*math.Pi*b.freq*3*t)
		attack := math.Min(t/0.01, 1)
		v *= 0.4 * attack

		samples[i][0] = v
		samples[i][1] = v
		b.pos++
	}
	return len(samples), true
}

func (b *buzz) Err() error { return nil }
