package whack

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-whack/internal/clock"
	"github.com/vovakirdan/tui-whack/internal/config"
	"github.com/vovakirdan/tui-whack/internal/core"
	"github.com/vovakirdan/tui-whack/internal/registry"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{Seed: seed, ScreenW: 80, ScreenH: 24, TickRate: 60}
}

func pressed(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func run(g *Game, ticks int) {
	idle := core.NewInputFrame()
	for range ticks {
		g.Step(idle)
	}
}

func TestVariantsRegistered(t *testing.T) {
	for _, id := range []string{"whack", "whack_xl"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q): %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID = %q, expected %q", g.ID(), id)
		}
	}
}

func TestGameDeterminism(t *testing.T) {
	g1, g2 := New3x3(), New3x3()
	g1.Reset(testConfig(12345))
	g2.Reset(testConfig(12345))

	for i := range 60 * 12 {
		in := core.NewInputFrame()
		switch {
		case i == 0:
			in.Set(core.ActionConfirm)
		case i%45 == 0:
			in.SelectSlot(i % 9)
		case i%20 == 0:
			in.Set(core.ActionRight)
		}
		g1.Step(in)
		g2.Step(in)
	}

	s1, s2 := g1.Session().Snapshot(), g2.Session().Snapshot()
	s1.ID, s2.ID = "", ""
	if s1.Score != s2.Score || s1.Combo != s2.Combo || s1.TimeRemaining != s2.TimeRemaining {
		t.Errorf("snapshots differ: %+v vs %+v", s1, s2)
	}
	if !slices.Equal(s1.Occupied, s2.Occupied) {
		t.Errorf("occupied slots differ: %v vs %v", s1.Occupied, s2.Occupied)
	}
}

func TestGameIdleUntilConfirm(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(1))

	run(g, 600)
	if g.Session().Phase() != PhaseIdle {
		t.Fatalf("Phase = %v, expected idle without input", g.Session().Phase())
	}

	g.Step(pressed(core.ActionConfirm))
	if g.Session().Phase() != PhaseRunning {
		t.Fatalf("Phase = %v, expected running after Confirm", g.Session().Phase())
	}
}

func TestGameRoundEndsAndRestarts(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(7))
	g.Step(pressed(core.ActionConfirm))

	run(g, 60*31)
	if !g.State().GameOver {
		t.Fatalf("expected game over after 31s, remaining %d", g.Session().TimeRemaining())
	}

	// Late whack keys must not skip the game-over screen.
	g.Step(pressed(core.ActionConfirm, core.ActionWhack))
	g.Step(pressed(core.ActionConfirm))
	if !g.State().GameOver {
		t.Fatal("Enter or Space restarted an ended round")
	}

	g.Step(pressed(core.ActionRestart))
	st := g.State()
	if st.GameOver || st.Score != 0 || g.Session().TimeRemaining() != 30 {
		t.Errorf("after restart: %+v remaining %d", st, g.Session().TimeRemaining())
	}
}

func TestGamePauseFreezesClock(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(3))
	g.Step(pressed(core.ActionConfirm))

	g.Step(pressed(core.ActionPause))
	run(g, 60*5)
	if g.Session().TimeRemaining() != 30 || !g.State().Paused {
		t.Errorf("clock moved while paused: remaining %d", g.Session().TimeRemaining())
	}

	g.Step(pressed(core.ActionPause))
	run(g, 60*2)
	if g.Session().TimeRemaining() != 28 {
		t.Errorf("remaining = %d after unpausing for 2s, expected 28", g.Session().TimeRemaining())
	}
}

func TestGameCursorWhack(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(5))
	g.Step(pressed(core.ActionConfirm))
	g.Session().place(4, KindBug)

	g.Step(pressed(core.ActionDown))
	g.Step(pressed(core.ActionRight))
	if g.cursor != 4 {
		t.Fatalf("cursor = %d, expected 4", g.cursor)
	}
	g.Step(pressed(core.ActionWhack))
	if g.State().Score != 15 {
		t.Errorf("Score = %d, expected 15", g.State().Score)
	}
	if _, ok := g.popups[4]; !ok {
		t.Error("expected a score popup at slot 4")
	}
}

func TestGameCursorWraps(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(5))
	g.Step(pressed(core.ActionConfirm))

	g.Step(pressed(core.ActionUp))
	g.Step(pressed(core.ActionLeft))
	if g.cursor != 8 {
		t.Errorf("cursor = %d, expected 8 after wrapping up and left", g.cursor)
	}
}

func TestGameClickSelectsSlot(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(9))
	g.Step(pressed(core.ActionConfirm))
	g.Session().place(8, KindFriendly)

	x, y := g.layout.cell(8).Center()
	if slot, ok := g.SlotAt(x, y); !ok || slot != 8 {
		t.Fatalf("SlotAt(%d, %d) = %d, %v", x, y, slot, ok)
	}

	in := core.NewInputFrame()
	in.Click(x, y)
	g.Step(in)
	if g.State().Score != -15 {
		t.Errorf("Score = %d, expected -15", g.State().Score)
	}
}

func TestSlotAt(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(1))

	// 9x5 cells centered on 80x24 below the HUD.
	tests := []struct {
		x, y int
		want int
		ok   bool
	}{
		{26, 5, 0, true},
		{34, 9, 0, true},
		{35, 5, 1, true},
		{26 + 9*2 + 1, 5 + 5*2 + 1, 8, true},
		{0, 0, 0, false},
		{53, 5, 0, false},
		{26, 20, 0, false},
	}
	for _, tt := range tests {
		slot, ok := g.SlotAt(tt.x, tt.y)
		if ok != tt.ok || (ok && slot != tt.want) {
			t.Errorf("SlotAt(%d, %d) = %d, %v; expected %d, %v", tt.x, tt.y, slot, ok, tt.want, tt.ok)
		}
	}
}

func TestGameRender(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(11))
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !strings.Contains(screen.String(), "Press Enter to start") {
		t.Error("idle screen should show the start prompt")
	}

	g.Step(pressed(core.ActionConfirm))
	g.Session().place(0, KindBug)
	g.Render(screen)
	x, y := g.layout.cell(0).Center()
	if got := screen.Get(x, y); got != 'ж' {
		t.Errorf("cell 0 center = %q, expected bug glyph", got)
	}
	if !strings.Contains(screen.Row(0), "Time: 30s") {
		t.Errorf("HUD = %q", screen.Row(0))
	}
}

func TestGameRenderTooSmall(t *testing.T) {
	g := NewXL()
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 20, ScreenH: 10, TickRate: 60})
	screen := core.NewScreen(20, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("expected a too-small message")
	}
}

func TestGameResizeKeepsRound(t *testing.T) {
	g := New3x3()
	g.Reset(testConfig(2))
	g.Step(pressed(core.ActionConfirm))
	run(g, 60*3+1)

	g.Resize(120, 40)
	if g.Session().Phase() != PhaseRunning || g.Session().TimeRemaining() != 27 {
		t.Errorf("resize disturbed the round: phase %v remaining %d", g.Session().Phase(), g.Session().TimeRemaining())
	}
	if !g.layout.fits {
		t.Error("3x3 board should fit 120x40")
	}
}

func TestGameIgnoresInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whack.yaml")
	if err := os.WriteFile(path, []byte("session:\n  grid_size: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })

	g := New3x3()
	g.Reset(testConfig(1))
	if g.Session() == nil || g.settings.GridSize != DefaultSettings().GridSize {
		t.Fatalf("expected default rules, got grid %d", g.settings.GridSize)
	}
	if g.Session().Slots() != 9 {
		t.Errorf("Slots = %d, expected 9", g.Session().Slots())
	}
}

func TestGamePresetOverride(t *testing.T) {
	tests := []struct {
		preset    config.DifficultyPreset
		headStart int
		ramp      bool
	}{
		{config.DifficultyEasy, 0, true},
		{config.DifficultyHard, 21, true},
		{config.DifficultyFixed, 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			g := New3x3()
			g.SetPreset(tt.preset)
			g.Reset(testConfig(1))
			c := g.settings.Curve
			if c.HeadStart != tt.headStart {
				t.Errorf("HeadStart = %d, expected %d", c.HeadStart, tt.headStart)
			}
			if got := c.SpawnRamp > 0; got != tt.ramp {
				t.Errorf("ramping = %v, expected %v", got, tt.ramp)
			}
		})
	}
}

// Reset panics if the built-in rules are ever rejected, so both must pass New.
func TestBuiltInRulesAreAccepted(t *testing.T) {
	for name, cfg := range map[string]config.WhackConfig{
		"whack":    config.DefaultWhackConfig(),
		"whack_xl": config.DefaultWhackXLConfig(),
	} {
		if _, err := New(SettingsFromConfig(cfg), clock.NewVirtual()); err != nil {
			t.Errorf("%s: New: %v", name, err)
		}
	}
}
