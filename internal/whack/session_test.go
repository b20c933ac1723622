package whack

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/tui-whack/internal/clock"
)

// recorder is a Renderer and Audio that records every call.
type recorder struct {
	events []string
	sounds []Sound
	ended  int
}

func (r *recorder) TargetCreated(slot int, kind Kind) {
	r.events = append(r.events, fmt.Sprintf("created %d %v", slot, kind))
}

func (r *recorder) TargetHiding(slot int) {
	r.events = append(r.events, fmt.Sprintf("hiding %d", slot))
}

func (r *recorder) TargetRemoved(slot int) {
	r.events = append(r.events, fmt.Sprintf("removed %d", slot))
}

func (r *recorder) ScoreChanged(v int) {
	r.events = append(r.events, fmt.Sprintf("score %d", v))
}

func (r *recorder) ComboChanged(v int) {
	r.events = append(r.events, fmt.Sprintf("combo %d", v))
}

func (r *recorder) TimeChanged(v int) {
	r.events = append(r.events, fmt.Sprintf("time %d", v))
}

func (r *recorder) SessionEnded(final, best int) {
	r.ended++
	r.events = append(r.events, fmt.Sprintf("ended %d %d", final, best))
}

func (r *recorder) Play(s Sound) error {
	r.sounds = append(r.sounds, s)
	return nil
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

// panicker fails every collaborator call.
type panicker struct{ NopRenderer }

func (panicker) ScoreChanged(int)      { panic("renderer down") }
func (panicker) SessionEnded(int, int) { panic("renderer down") }
func (panicker) Play(Sound) error      { return errors.New("no audio device") }

// crashingStore panics on every call, like a driver that blows up.
type crashingStore struct{ calls int }

func (c *crashingStore) BestScore() (int, error) {
	c.calls++
	panic("storage driver crashed")
}

func (c *crashingStore) SetBestScore(int) error {
	c.calls++
	panic("storage driver crashed")
}

type brokenStore struct{ writes int }

func (b *brokenStore) BestScore() (int, error) { return 0, errors.New("disk gone") }
func (b *brokenStore) SetBestScore(int) error {
	b.writes++
	return errors.New("disk gone")
}

// quietSettings never spawns on its own so tests control the board.
func quietSettings() Settings {
	s := DefaultSettings()
	s.Curve.InitialSpawnDelay = time.Hour
	s.Curve.MinSpawnDelay = time.Hour
	return s
}

func newTestSession(t *testing.T, settings Settings, opts ...Option) (*Session, *clock.Virtual) {
	t.Helper()
	v := clock.NewVirtual()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(3, 4)))}, opts...)
	s, err := New(settings, v, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, v
}

func TestNewRejectsBadSettings(t *testing.T) {
	v := clock.NewVirtual()
	bad := DefaultSettings()
	bad.GridSize = 0
	if _, err := New(bad, v); err == nil {
		t.Error("expected error for zero grid size")
	}
	bad = DefaultSettings()
	bad.Duration = 0
	if _, err := New(bad, v); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := New(DefaultSettings(), nil); err == nil {
		t.Error("expected error for nil scheduler")
	}
}

func TestNewReadsBestScore(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings(), WithBestScoreStore(NewMemoryBestScore(120)))
	if s.Phase() != PhaseIdle {
		t.Errorf("Phase = %v, expected idle", s.Phase())
	}
	if s.Best() != 120 {
		t.Errorf("Best = %d, expected 120", s.Best())
	}
}

func TestScoringScenario(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestSession(t, quietSettings(), WithRenderer(rec), WithAudio(rec))
	s.Start()

	s.place(0, KindBug)
	s.place(1, KindFriendly)
	s.place(2, KindGolden)

	steps := []struct {
		slot  int
		score int
		combo int
	}{
		{0, 15, 2},
		{1, 0, 1},
		{2, 38, 2},
	}
	for _, st := range steps {
		out, err := s.Select(st.slot)
		if err != nil {
			t.Fatalf("Select(%d): %v", st.slot, err)
		}
		if !out.Hit || out.Score != st.score || s.Score() != st.score || s.Combo() != st.combo {
			t.Fatalf("after slot %d: outcome %+v score %d combo %d, expected score %d combo %d",
				st.slot, out, s.Score(), s.Combo(), st.score, st.combo)
		}
	}

	if len(s.Occupied()) != 0 {
		t.Errorf("Occupied = %v, expected empty", s.Occupied())
	}
	wantSounds := []Sound{SoundPop, SoundPop, SoundPop, SoundSplat, SoundOops, SoundGolden}
	if !slices.Equal(rec.sounds, wantSounds) {
		t.Errorf("sounds = %v, expected %v", rec.sounds, wantSounds)
	}
}

func TestSelectEmptySlotIsNoop(t *testing.T) {
	s, _ := newTestSession(t, quietSettings())
	s.Start()
	s.place(3, KindBug)
	if _, err := s.Select(3); err != nil {
		t.Fatal(err)
	}
	s.place(5, KindBug)

	score, combo, occupied := s.Score(), s.Combo(), s.Occupied()
	for _, slot := range []int{0, 3, 8} {
		out, err := s.Select(slot)
		if err != nil {
			t.Fatalf("Select(%d): %v", slot, err)
		}
		if out.Hit {
			t.Errorf("Select(%d) on empty slot reported a hit", slot)
		}
	}
	if s.Score() != score || s.Combo() != combo || !slices.Equal(s.Occupied(), occupied) {
		t.Errorf("state changed: score %d combo %d occupied %v", s.Score(), s.Combo(), s.Occupied())
	}
}

func TestSelectInvalidSlot(t *testing.T) {
	s, _ := newTestSession(t, DefaultSettings())
	for _, slot := range []int{-1, 9, 100} {
		if _, err := s.Select(slot); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("Select(%d) error = %v, expected ErrInvalidSlot", slot, err)
		}
	}
}

func TestSelectOutsideRunningIsNoop(t *testing.T) {
	s, _ := newTestSession(t, quietSettings())
	if out, err := s.Select(0); err != nil || out.Hit {
		t.Errorf("idle Select = %+v, %v", out, err)
	}

	s.Start()
	s.place(0, KindBug)
	s.End()
	if out, err := s.Select(0); err != nil || out.Hit {
		t.Errorf("ended Select = %+v, %v", out, err)
	}
	if s.Score() != 0 {
		t.Errorf("Score = %d, expected 0", s.Score())
	}
}

func TestCountdownEndsOnce(t *testing.T) {
	rec := &recorder{}
	store := NewMemoryBestScore(0)
	s, v := newTestSession(t, DefaultSettings(), WithRenderer(rec), WithBestScoreStore(store))
	s.Start()

	v.Advance(29 * time.Second)
	if s.Phase() != PhaseRunning || s.TimeRemaining() != 1 {
		t.Fatalf("at 29s: phase %v remaining %d", s.Phase(), s.TimeRemaining())
	}

	v.Advance(time.Second)
	if s.Phase() != PhaseEnded {
		t.Fatalf("Phase = %v, expected ended", s.Phase())
	}

	v.Advance(time.Minute)
	s.Tick()
	if _, ok := s.End(); ok {
		t.Error("End on an ended session should report false")
	}

	if rec.ended != 1 {
		t.Errorf("SessionEnded notified %d times, expected 1", rec.ended)
	}
	if store.Writes() != 1 {
		t.Errorf("best score written %d times, expected 1", store.Writes())
	}
	if s.TimeRemaining() != 0 {
		t.Errorf("TimeRemaining = %d, expected 0", s.TimeRemaining())
	}
}

func TestEndCancelsEverything(t *testing.T) {
	rec := &recorder{}
	s, v := newTestSession(t, DefaultSettings(), WithRenderer(rec))
	s.Start()
	v.Advance(5 * time.Second)
	if len(s.Occupied()) == 0 {
		t.Fatal("expected targets on the board after 5s")
	}

	s.End()
	if v.Pending() != 0 {
		t.Errorf("Pending = %d after End, expected 0", v.Pending())
	}
	if len(s.Occupied()) != 0 {
		t.Errorf("Occupied = %v after End", s.Occupied())
	}

	before := len(rec.events)
	v.Advance(time.Minute)
	if len(rec.events) != before {
		t.Errorf("stale callbacks fired after End: %v", rec.events[before:])
	}
}

func TestBestScoreIsMax(t *testing.T) {
	tests := []struct {
		name     string
		previous int
		hits     int
		wantBest int
		newBest  bool
	}{
		{"beats previous", 10, 3, 45, true},
		{"keeps previous", 100, 1, 100, false},
		{"zero round", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryBestScore(tt.previous)
			s, _ := newTestSession(t, quietSettings(), WithBestScoreStore(store))
			s.Start()
			for i := range tt.hits {
				s.place(i, KindBug)
				if _, err := s.Select(i); err != nil {
					t.Fatal(err)
				}
			}

			res, ok := s.End()
			if !ok {
				t.Fatal("End reported not running")
			}
			stored, _ := store.BestScore()
			if res.Best != tt.wantBest || stored != tt.wantBest || s.Best() != tt.wantBest {
				t.Errorf("best = %d, stored %d, session %d, expected %d", res.Best, stored, s.Best(), tt.wantBest)
			}
			if res.NewBest != tt.newBest {
				t.Errorf("NewBest = %v, expected %v", res.NewBest, tt.newBest)
			}
		})
	}
}

func TestStartResetsAfterEnd(t *testing.T) {
	s, v := newTestSession(t, DefaultSettings())
	s.Start()
	firstID := s.ID()
	v.Advance(10 * time.Second)
	slot := s.freeSlots()[0]
	s.place(slot, KindBug)
	if _, err := s.Select(slot); err != nil {
		t.Fatal(err)
	}
	s.End()

	s.Start()
	if s.Phase() != PhaseRunning || s.Score() != 0 || s.Combo() != 1 || s.TimeRemaining() != 30 {
		t.Errorf("after restart: phase %v score %d combo %d remaining %d", s.Phase(), s.Score(), s.Combo(), s.TimeRemaining())
	}
	if len(s.Occupied()) != 0 {
		t.Errorf("Occupied = %v after restart", s.Occupied())
	}
	if s.ID() == "" || s.ID() == firstID {
		t.Errorf("restart should assign a new round id, got %q (was %q)", s.ID(), firstID)
	}
	if s.Params() != s.Settings().Curve.At(0) {
		t.Errorf("Params = %+v, expected initial curve values", s.Params())
	}
}

func TestStartWhileRunningDropsTargets(t *testing.T) {
	rec := &recorder{}
	s, v := newTestSession(t, quietSettings(), WithRenderer(rec))
	s.Start()
	s.place(4, KindGolden)

	s.Start()
	if len(s.Occupied()) != 0 {
		t.Fatalf("Occupied = %v after second Start", s.Occupied())
	}
	v.Advance(10 * time.Second)
	if rec.count("hiding 4") != 0 {
		t.Error("expiry of a discarded target fired")
	}
}

func TestExpiryTwoPhase(t *testing.T) {
	rec := &recorder{}
	s, v := newTestSession(t, quietSettings(), WithRenderer(rec))
	s.Start()
	s.place(4, KindBug)

	v.Advance(2499 * time.Millisecond)
	if tg, ok := s.TargetAt(4); !ok || tg.State != TargetUp {
		t.Fatalf("target should be up before its lifetime, got %+v %v", tg, ok)
	}

	v.Advance(time.Millisecond)
	tg, ok := s.TargetAt(4)
	if !ok || tg.State != TargetHiding {
		t.Fatalf("target should be hiding at its lifetime, got %+v %v", tg, ok)
	}
	if !slices.Equal(s.Occupied(), []int{4}) {
		t.Errorf("hiding target should still occupy its slot: %v", s.Occupied())
	}

	v.Advance(300 * time.Millisecond)
	if _, ok := s.TargetAt(4); ok {
		t.Error("target should be gone after the fade")
	}
	if rec.count("hiding 4") != 1 || rec.count("removed 4") != 1 {
		t.Errorf("events = %v", rec.events)
	}
}

func TestExpiryWithoutFade(t *testing.T) {
	settings := quietSettings()
	settings.Fade = 0
	rec := &recorder{}
	s, v := newTestSession(t, settings, WithRenderer(rec))
	s.Start()
	s.place(2, KindFriendly)

	v.Advance(2500 * time.Millisecond)
	if _, ok := s.TargetAt(2); ok {
		t.Error("target should be removed at its lifetime when fade is 0")
	}
	if rec.count("hiding 2") != 0 {
		t.Error("no hiding phase expected without a fade")
	}
}

func TestSelectionBeatsExpiry(t *testing.T) {
	rec := &recorder{}
	s, v := newTestSession(t, quietSettings(), WithRenderer(rec))
	s.Start()
	s.place(1, KindBug)

	v.Advance(time.Second)
	if out, _ := s.Select(1); !out.Hit {
		t.Fatal("expected a hit")
	}
	v.Advance(5 * time.Second)

	if rec.count("hiding 1") != 0 || rec.count("removed 1") != 1 {
		t.Errorf("expiry acted on a hit target: %v", rec.events)
	}
	if s.Score() != 15 {
		t.Errorf("Score = %d, expected 15", s.Score())
	}
}

func TestHidingTargetIsSelectable(t *testing.T) {
	s, v := newTestSession(t, quietSettings())
	s.Start()
	s.place(0, KindGolden)

	v.Advance(2600 * time.Millisecond)
	out, err := s.Select(0)
	if err != nil || !out.Hit || out.Delta != 38 {
		t.Fatalf("Select on hiding target = %+v, %v", out, err)
	}

	// The pending release must not remove a target that respawned in the slot.
	s.place(0, KindBug)
	v.Advance(300 * time.Millisecond)
	if tg, ok := s.TargetAt(0); !ok || tg.Kind != KindBug {
		t.Errorf("new target was removed by a stale release: %+v %v", tg, ok)
	}
}

func TestExpiredTargetIsNoop(t *testing.T) {
	s, v := newTestSession(t, quietSettings())
	s.Start()
	s.place(6, KindBug)
	v.Advance(3 * time.Second)

	out, err := s.Select(6)
	if err != nil || out.Hit {
		t.Errorf("Select on expired slot = %+v, %v", out, err)
	}
	if s.Score() != 0 || s.Combo() != 1 {
		t.Errorf("score %d combo %d, expected 0 and 1", s.Score(), s.Combo())
	}
}

func TestTickRecomputesParams(t *testing.T) {
	s, v := newTestSession(t, DefaultSettings())
	s.Start()
	v.Advance(10 * time.Second)

	want := s.Settings().Curve.At(10)
	if s.Params() != want {
		t.Errorf("Params = %+v, expected %+v", s.Params(), want)
	}
	if s.Elapsed() != 10 {
		t.Errorf("Elapsed = %d, expected 10", s.Elapsed())
	}
}

func TestSpawnerFillsBoardWithoutOverlap(t *testing.T) {
	settings := DefaultSettings()
	settings.Duration = 120
	settings.Curve = Curve{
		InitialSpawnDelay: 100 * time.Millisecond,
		MinSpawnDelay:     100 * time.Millisecond,
		InitialLifetime:   time.Minute,
		MinLifetime:       time.Minute,
	}
	rec := &recorder{}
	s, v := newTestSession(t, settings, WithRenderer(rec))
	s.Start()

	for range 30 {
		v.Advance(100 * time.Millisecond)
		occ := s.Occupied()
		if len(occ) > s.Slots() {
			t.Fatalf("Occupied has %d slots, board has %d", len(occ), s.Slots())
		}
		if len(slices.Compact(slices.Clone(occ))) != len(occ) {
			t.Fatalf("duplicate slot in %v", occ)
		}
	}

	if len(s.Occupied()) != s.Slots() {
		t.Errorf("board should be full, got %v", s.Occupied())
	}
	created := 0
	for slot := range s.Slots() {
		for _, k := range Kinds {
			created += rec.count(fmt.Sprintf("created %d %v", slot, k))
		}
	}
	if created != s.Slots() {
		t.Errorf("created %d targets on a full board, expected %d", created, s.Slots())
	}
	if !s.spawnTask.Active() {
		t.Error("spawn loop should keep rescheduling on a full board")
	}
}

func TestFirstSpawnAfterInitialDelay(t *testing.T) {
	s, v := newTestSession(t, DefaultSettings())
	s.Start()

	v.Advance(1999 * time.Millisecond)
	if len(s.Occupied()) != 0 {
		t.Fatalf("spawned before the initial delay: %v", s.Occupied())
	}
	v.Advance(time.Millisecond)
	if len(s.Occupied()) != 1 {
		t.Fatalf("expected one target at 2s, got %v", s.Occupied())
	}
}

func TestCollaboratorFailuresAreContained(t *testing.T) {
	p := panicker{}
	store := &brokenStore{}
	s, v := newTestSession(t, quietSettings(), WithRenderer(p), WithAudio(p), WithBestScoreStore(store))
	s.Start()
	s.place(0, KindBug)

	out, err := s.Select(0)
	if err != nil || !out.Hit || s.Score() != 15 {
		t.Fatalf("Select with failing collaborators = %+v, %v, score %d", out, err, s.Score())
	}

	v.Advance(30 * time.Second)
	if s.Phase() != PhaseEnded {
		t.Fatalf("Phase = %v, expected ended", s.Phase())
	}
	if store.writes != 1 {
		t.Errorf("store written %d times, expected 1", store.writes)
	}
	if s.Best() != 15 {
		t.Errorf("Best = %d, expected the round score", s.Best())
	}
}

func TestPanickingStoreIsContained(t *testing.T) {
	store := &crashingStore{}
	rec := &recorder{}
	s, v := newTestSession(t, quietSettings(), WithRenderer(rec), WithBestScoreStore(store))
	s.Start()
	s.place(s.freeSlots()[0], KindBug)
	if _, err := s.Select(s.Occupied()[0]); err != nil {
		t.Fatalf("Select: %v", err)
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("store panic escaped the session: %v", r)
			}
		}()
		v.Advance(30 * time.Second)
	}()

	if s.Phase() != PhaseEnded {
		t.Fatalf("Phase = %v, expected ended", s.Phase())
	}
	if rec.ended != 1 {
		t.Errorf("SessionEnded sent %d times, expected 1", rec.ended)
	}
	if s.Best() != 15 {
		t.Errorf("Best = %d, expected the round score", s.Best())
	}
	// One read in New, one read and one write in End.
	if store.calls != 3 {
		t.Errorf("store called %d times, expected 3", store.calls)
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := newTestSession(t, quietSettings())
	s.Start()
	s.place(7, KindBug)
	s.place(2, KindGolden)

	snap := s.Snapshot()
	if snap.Phase != PhaseRunning || snap.ID != s.ID() || snap.TimeRemaining != 30 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if !slices.Equal(snap.Occupied, []int{2, 7}) {
		t.Errorf("Occupied = %v, expected [2 7]", snap.Occupied)
	}
}
