// Package whack implements Bug Whack, a timed reaction game: targets pop up in
// a grid of slots and the player scores by hitting bugs before they hide.
//
// The engine is a Session driven by a clock.Scheduler. All state changes happen
// inside scheduler callbacks or direct calls from the host, on one goroutine.
package whack

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-whack/internal/clock"
)

// ErrInvalidSlot is returned when a selection names a slot outside the board.
var ErrInvalidSlot = errors.New("whack: invalid slot")

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseEnded
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Outcome describes the effect of a selection. Hit is false for no-ops.
type Outcome struct {
	Hit   bool
	Kind  Kind
	Delta int
	Combo int
	Score int
}

// Result is the summary of an ended session.
type Result struct {
	Score   int
	Best    int
	NewBest bool
}

// Snapshot is a point-in-time copy of session state, for debugging and tests.
type Snapshot struct {
	ID            string
	Phase         Phase
	Score         int
	Combo         int
	TimeRemaining int
	Best          int
	Occupied      []int
	Params        Params
}

// Session is one board and the rounds played on it.
type Session struct {
	settings Settings
	sched    clock.Scheduler
	spawner  *Spawner
	rng      *rand.Rand

	renderer Renderer
	audio    Audio
	store    BestScoreStore
	logger   *log.Logger

	id            uuid.UUID
	phase         Phase
	score         int
	combo         int
	timeRemaining int
	best          int
	params        Params

	targets []*Target    // Indexed by slot, nil when free
	expiry  []clock.Task // Pending expiry step per slot
	nextID  uint64

	tickTask  clock.Task
	spawnTask clock.Task
}

// Option configures a Session.
type Option func(*Session)

// WithRenderer sets the render collaborator.
func WithRenderer(r Renderer) Option {
	return func(s *Session) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithAudio sets the audio collaborator.
func WithAudio(a Audio) Option {
	return func(s *Session) {
		if a != nil {
			s.audio = a
		}
	}
}

// WithBestScoreStore sets where the best score is kept.
func WithBestScoreStore(b BestScoreStore) Option {
	return func(s *Session) {
		if b != nil {
			s.store = b
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRand sets the random source for slot and kind draws.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		if r != nil {
			s.rng = r
		}
	}
}

// New creates an idle session. The best score is read from the store once here
// so hosts can show it before the first round.
func New(settings Settings, sched clock.Scheduler, opts ...Option) (*Session, error) {
	if sched == nil {
		return nil, errors.New("whack: nil scheduler")
	}
	if settings.GridSize < 1 {
		return nil, fmt.Errorf("whack: grid size must be positive, got %d", settings.GridSize)
	}
	if settings.Duration < 1 {
		return nil, fmt.Errorf("whack: duration must be positive, got %d", settings.Duration)
	}

	s := &Session{
		settings: settings,
		sched:    sched,
		renderer: NopRenderer{},
		audio:    NopAudio{},
		store:    NewMemoryBestScore(0),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(sched.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	s.spawner = NewSpawner(settings.Weights, s.rng)
	s.targets = make([]*Target, settings.Slots())
	s.expiry = make([]clock.Task, settings.Slots())
	s.combo = 1
	s.timeRemaining = settings.Duration
	s.params = settings.Curve.At(0)

	var best int
	if s.persist("read best score", func() (err error) {
		best, err = s.store.BestScore()
		return err
	}) {
		s.best = best
	}

	return s, nil
}

// Start begins a new round from any phase. Leftover targets and timers from a
// previous round are discarded first.
func (s *Session) Start() {
	s.stopTasks()
	s.clearTargets()

	s.id = uuid.New()
	s.score = 0
	s.combo = 1
	s.timeRemaining = s.settings.Duration
	s.params = s.settings.Curve.At(0)
	s.phase = PhaseRunning

	s.logger.Debug("session started", "session", s.id, "duration", s.settings.Duration, "slots", len(s.targets))
	s.render(func(r Renderer) {
		r.ScoreChanged(s.score)
		r.ComboChanged(s.combo)
		r.TimeChanged(s.timeRemaining)
	})

	s.tickTask = s.sched.Every(time.Second, s.Tick)
	s.scheduleSpawn()
}

// Tick counts one second down and recomputes the difficulty parameters.
// It runs from the session's countdown task; calling it directly speeds up the
// round. It ends the round when time runs out.
func (s *Session) Tick() {
	if s.phase != PhaseRunning {
		return
	}

	s.timeRemaining--
	if s.timeRemaining < 0 {
		s.timeRemaining = 0
	}
	s.params = s.settings.Curve.At(s.Elapsed())
	s.render(func(r Renderer) { r.TimeChanged(s.timeRemaining) })

	if s.timeRemaining == 0 {
		s.End()
	}
}

// End stops a running round: every pending timer is cancelled, the board is
// cleared and max(best, score) is written to the best-score store. It reports
// false if the session was not running.
func (s *Session) End() (Result, bool) {
	if s.phase != PhaseRunning {
		return Result{}, false
	}
	s.phase = PhaseEnded

	s.stopTasks()
	s.clearTargets()

	previous := s.best
	var stored int
	if s.persist("read best score", func() (err error) {
		stored, err = s.store.BestScore()
		return err
	}) {
		previous = stored
	}

	best := max(previous, s.score)
	s.persist("write best score", func() error { return s.store.SetBestScore(best) })
	s.best = best

	result := Result{Score: s.score, Best: best, NewBest: s.score > previous}
	s.logger.Debug("session ended", "session", s.id, "score", s.score, "best", best)
	s.render(func(r Renderer) { r.SessionEnded(result.Score, result.Best) })
	return result, true
}

// Select resolves the player hitting slot. Hitting an empty slot, or any slot
// while the round is not running, does nothing. Out-of-range slots return
// ErrInvalidSlot.
func (s *Session) Select(slot int) (Outcome, error) {
	if slot < 0 || slot >= len(s.targets) {
		return Outcome{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidSlot, slot, len(s.targets))
	}
	if s.phase != PhaseRunning {
		return Outcome{}, nil
	}

	t := s.targets[slot]
	if !t.Live() {
		return Outcome{}, nil
	}

	delta, combo := s.settings.Scoring.Resolve(t.Kind, s.combo)
	s.score += delta
	s.combo = combo
	s.remove(t)

	s.logger.Debug("target hit", "slot", slot, "kind", t.Kind, "delta", delta, "combo", combo, "score", s.score)
	s.render(func(r Renderer) {
		r.ScoreChanged(s.score)
		r.ComboChanged(s.combo)
	})
	s.play(hitSound(t.Kind))

	return Outcome{Hit: true, Kind: t.Kind, Delta: delta, Combo: combo, Score: s.score}, nil
}

// ID returns the identifier of the current round, empty before the first Start.
func (s *Session) ID() string {
	if s.id == uuid.Nil {
		return ""
	}
	return s.id.String()
}

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// Combo returns the current combo, always at least 1.
func (s *Session) Combo() int { return s.combo }

// TimeRemaining returns the seconds left in the round.
func (s *Session) TimeRemaining() int { return s.timeRemaining }

// Elapsed returns the seconds played in the round.
func (s *Session) Elapsed() int { return s.settings.Duration - s.timeRemaining }

// Best returns the best score known to the session.
func (s *Session) Best() int { return s.best }

// Params returns the difficulty parameters currently in effect.
func (s *Session) Params() Params { return s.params }

// Settings returns the rules of the session.
func (s *Session) Settings() Settings { return s.settings }

// Slots returns the number of slots on the board.
func (s *Session) Slots() int { return len(s.targets) }

// Occupied returns the slots holding a live target, in ascending order.
func (s *Session) Occupied() []int {
	var slots []int
	for slot, t := range s.targets {
		if t.Live() {
			slots = append(slots, slot)
		}
	}
	return slots
}

// TargetAt returns a copy of the live target in slot.
func (s *Session) TargetAt(slot int) (Target, bool) {
	if slot < 0 || slot >= len(s.targets) || !s.targets[slot].Live() {
		return Target{}, false
	}
	return *s.targets[slot], true
}

// Snapshot copies the observable state of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:            s.ID(),
		Phase:         s.phase,
		Score:         s.score,
		Combo:         s.combo,
		TimeRemaining: s.timeRemaining,
		Best:          s.best,
		Occupied:      s.Occupied(),
		Params:        s.params,
	}
}

func (s *Session) stopTasks() {
	clock.Stop(s.tickTask, s.spawnTask)
	clock.Stop(s.expiry...)
	s.tickTask = nil
	s.spawnTask = nil
	for i := range s.expiry {
		s.expiry[i] = nil
	}
}

func (s *Session) clearTargets() {
	for _, t := range s.targets {
		if t.Live() {
			s.remove(t)
		}
	}
}

// render delivers a notification to the renderer. A panicking renderer is
// logged and otherwise ignored so it cannot corrupt session state.
func (s *Session) render(fn func(Renderer)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("renderer panicked", "panic", r)
		}
	}()
	fn(s.renderer)
}

// persist runs one best-score store call. Errors and panics are logged and
// reported as false; the session falls back to its cached best.
func (s *Session) persist(op string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("best-score store panicked", "op", op, "panic", r, "cached", s.best)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		s.logger.Warn("best-score store failed", "op", op, "error", err, "cached", s.best)
		return false
	}
	return true
}

func (s *Session) play(snd Sound) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("audio panicked", "sound", snd, "panic", r)
		}
	}()
	if err := s.audio.Play(snd); err != nil {
		s.logger.Debug("sound failed", "sound", snd, "error", err)
	}
}
