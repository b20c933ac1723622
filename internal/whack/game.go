package whack

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-whack/internal/clock"
	"github.com/vovakirdan/tui-whack/internal/config"
	"github.com/vovakirdan/tui-whack/internal/core"
	"github.com/vovakirdan/tui-whack/internal/registry"
)

const (
	hudHeight     = 2
	footerHeight  = 1
	popupDuration = 600 * time.Millisecond
)

// Variant identifies a registered board layout.
type Variant string

const (
	VariantClassic Variant = "whack"
	VariantXL      Variant = "whack_xl"
)

// Host wiring shared by every game instance, set by the CLI before play.
var (
	hostMu           sync.RWMutex
	configPath       string
	difficultyPreset config.DifficultyPreset
	bestScores       func(gameID string) BestScoreStore
	audioOut         Audio
	logger           *log.Logger
	memoryBest       = map[string]*MemoryBestScore{}
)

// SetConfigPath sets a custom YAML config path used on the next Reset.
func SetConfigPath(path string) {
	hostMu.Lock()
	defer hostMu.Unlock()
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset used on the next Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	hostMu.Lock()
	defer hostMu.Unlock()
	difficultyPreset = preset
}

// SetBestScoreSource sets how games find their best-score cell. Without one,
// best scores are kept in memory for the life of the process.
func SetBestScoreSource(fn func(gameID string) BestScoreStore) {
	hostMu.Lock()
	defer hostMu.Unlock()
	bestScores = fn
}

// SetAudio sets the audio collaborator for new games.
func SetAudio(a Audio) {
	hostMu.Lock()
	defer hostMu.Unlock()
	audioOut = a
}

// SetLogger sets the engine logger for new games.
func SetLogger(l *log.Logger) {
	hostMu.Lock()
	defer hostMu.Unlock()
	logger = l
}

func bestScoreFor(gameID string) BestScoreStore {
	hostMu.Lock()
	defer hostMu.Unlock()
	if bestScores != nil {
		if store := bestScores(gameID); store != nil {
			return store
		}
	}
	m, ok := memoryBest[gameID]
	if !ok {
		m = NewMemoryBestScore(0)
		memoryBest[gameID] = m
	}
	return m
}

func init() {
	registry.Register(string(VariantClassic), func() registry.Game {
		return New3x3()
	})
	registry.Register(string(VariantXL), func() registry.Game {
		return NewXL()
	})
}

type popup struct {
	text  string
	color core.Color
	until time.Time
}

// layout places the grid on screen.
type layout struct {
	grid         core.Rect
	cellW, cellH int
	n            int
	fits         bool
}

// cellSizes are tried in order; the first that fits wins.
var cellSizes = [][2]int{{9, 5}, {7, 3}}

func computeLayout(screenW, screenH, n int) layout {
	if n < 1 {
		return layout{}
	}
	area := core.NewRect(0, hudHeight, screenW, screenH-hudHeight-footerHeight)
	for _, c := range cellSizes {
		w, h := c[0]*n, c[1]*n
		if area.Fits(w, h) {
			return layout{
				grid:  area.Centered(w, h),
				cellW: c[0],
				cellH: c[1],
				n:     n,
				fits:  true,
			}
		}
	}
	return layout{n: n}
}

func (l layout) cell(slot int) core.Rect {
	return l.grid.GridCell(slot%l.n, slot/l.n, l.cellW, l.cellH)
}

func (l layout) slotAt(x, y int) (int, bool) {
	if !l.fits || !l.grid.Contains(x, y) {
		return 0, false
	}
	col, row := (x-l.grid.X)/l.cellW, (y-l.grid.Y)/l.cellH
	return row*l.n + col, true
}

// Game adapts a Session to the terminal host: it owns a virtual scheduler that
// advances by one fixed step per host tick.
type Game struct {
	variant Variant

	sched    *clock.Virtual
	session  *Session
	board    *board
	settings Settings
	step     time.Duration

	layout  layout
	cursor  int
	paused  bool
	popups  map[int]popup
	screenW int
	screenH int

	prevBest int // Best score before the current round started
	preset   config.DifficultyPreset
	override bool
}

// New3x3 creates the classic 3x3, 30 second game.
func New3x3() *Game {
	return &Game{variant: VariantClassic}
}

// NewXL creates the 4x4, 45 second game.
func NewXL() *Game {
	return &Game{variant: VariantXL}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return string(g.variant)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantXL {
		return "Bug Whack XL"
	}
	return "Bug Whack"
}

// SetPreset overrides the process-wide difficulty preset for this game
// only. It takes effect on the next Reset.
func (g *Game) SetPreset(preset config.DifficultyPreset) {
	g.preset, g.override = preset, true
}

func (g *Game) loadSettings() Settings {
	hostMu.RLock()
	path, preset, l := configPath, difficultyPreset, logger
	hostMu.RUnlock()
	if g.override {
		preset = g.preset
	}

	cfg, err := config.Load(string(g.variant), path)
	if err != nil {
		if l != nil {
			l.Warn("using default config", "game", g.variant, "error", err)
		}
		if g.variant == VariantXL {
			cfg = config.DefaultWhackXLConfig()
		} else {
			cfg = config.DefaultWhackConfig()
		}
	}
	config.ApplyWhackPreset(&cfg, preset)
	return SettingsFromConfig(cfg)
}

// Reset builds a fresh idle session on a new virtual clock.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.settings = g.loadSettings()
	g.sched = clock.NewVirtual()
	g.board = newBoard(g.settings.Slots())
	g.popups = make(map[int]popup)
	g.cursor = 0
	g.paused = false

	g.step = cfg.TickInterval()

	seed := uint64(cfg.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	hostMu.RLock()
	a, l := audioOut, logger
	hostMu.RUnlock()

	opts := []Option{
		WithRenderer(g.board),
		WithAudio(a),
		WithBestScoreStore(bestScoreFor(g.ID())),
		WithLogger(l),
		WithRand(rng),
	}
	s, err := New(g.settings, g.sched, opts...)
	if err != nil {
		if l != nil {
			l.Warn("falling back to default rules", "game", g.variant, "error", err)
		}
		g.settings = DefaultSettings()
		g.board = newBoard(g.settings.Slots())
		opts[0] = WithRenderer(g.board)
		if s, err = New(g.settings, g.sched, opts...); err != nil {
			panic(fmt.Sprintf("whack: default settings rejected: %v", err))
		}
	}
	g.session = s
	g.prevBest = s.Best()
	g.board.best = s.Best()
	g.board.time = s.TimeRemaining()

	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts the board layout to a new screen size without touching the round.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.layout = computeLayout(w, h, g.settings.GridSize)
}

// SlotAt returns the slot drawn at screen cell (x, y).
func (g *Game) SlotAt(x, y int) (int, bool) {
	return g.layout.slotAt(x, y)
}

// Session exposes the underlying engine.
func (g *Game) Session() *Session {
	return g.session
}

// Step applies input and advances the virtual clock by one tick while a round
// is running.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State()}
	}

	switch g.session.Phase() {
	case PhaseIdle:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionWhack) {
			g.start()
		}
		return core.StepResult{State: g.State()}

	case PhaseEnded:
		// Only R restarts: Enter and Space are whack keys and may still be
		// in flight when the clock runs out.
		if in.Has(core.ActionRestart) {
			g.start()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.start()
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.moveCursor(in)
	if in.Has(core.ActionWhack) || in.Has(core.ActionConfirm) {
		g.whack(g.cursor)
	}
	for _, slot := range in.Slots {
		if slot >= 0 && slot < g.session.Slots() {
			g.cursor = slot
			g.whack(slot)
		}
	}
	for _, p := range in.Clicks {
		if slot, ok := g.SlotAt(p.X, p.Y); ok {
			g.cursor = slot
			g.whack(slot)
		}
	}

	g.sched.Advance(g.step)
	g.expirePopups()
	return core.StepResult{State: g.State()}
}

func (g *Game) start() {
	g.prevBest = g.session.Best()
	g.board.reset()
	clear(g.popups)
	g.paused = false
	g.session.Start()
}

func (g *Game) moveCursor(in core.InputFrame) {
	n := g.settings.GridSize
	row, col := g.cursor/n, g.cursor%n
	switch {
	case in.Has(core.ActionUp):
		row = (row + n - 1) % n
	case in.Has(core.ActionDown):
		row = (row + 1) % n
	case in.Has(core.ActionLeft):
		col = (col + n - 1) % n
	case in.Has(core.ActionRight):
		col = (col + 1) % n
	}
	g.cursor = row*n + col
}

func (g *Game) whack(slot int) {
	out, err := g.session.Select(slot)
	if err != nil || !out.Hit {
		return
	}
	p := popup{text: fmt.Sprintf("%+d", out.Delta), color: core.ColorBrightGreen, until: g.sched.Now().Add(popupDuration)}
	if out.Delta < 0 {
		p.color = core.ColorBrightRed
	}
	g.popups[slot] = p
}

func (g *Game) expirePopups() {
	now := g.sched.Now()
	for slot, p := range g.popups {
		if !now.Before(p.until) {
			delete(g.popups, slot)
		}
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:     g.session.Score(),
		GameOver:  g.session.Phase() == PhaseEnded,
		Paused:    g.paused,
		SessionID: g.session.ID(),
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.session == nil {
		return
	}
	if dst.Width() != g.screenW || dst.Height() != g.screenH {
		g.Resize(dst.Width(), dst.Height())
	}

	g.renderHUD(dst)
	if !g.layout.fits {
		dst.DrawTextCentered(dst.Height()/2, "Window too small", core.ColorBrightRed)
		return
	}
	g.renderGrid(dst)
	dst.DrawTextCentered(dst.Height()-1, "arrows move · space whack · 1-9 / click hit · p pause · q quit", core.ColorGray)

	switch {
	case g.session.Phase() == PhaseIdle:
		g.renderOverlay(dst, core.ColorBrightYellow,
			g.Title(),
			"ж bug +10   ✿ friend -15   ★ golden +25",
			"Press Enter to start")
	case g.board.ended:
		lines := []string{"Time's up!", fmt.Sprintf("Score: %d   Best: %d", g.board.final, g.board.best)}
		if g.board.final > g.prevBest {
			lines = append(lines, "New best!")
		}
		lines = append(lines, "Press R to play again")
		g.renderOverlay(dst, core.ColorBrightCyan, lines...)
	case g.paused:
		g.renderOverlay(dst, core.ColorWhite, "Paused", "Press P to continue")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" %s   Score: %d   Combo: x%d   Time: %ds   Best: %d",
		g.Title(), g.board.score, g.board.combo, g.board.time, g.board.best)
	dst.DrawTextColor(0, 0, hud, core.ColorBrightWhite)
	for x := range dst.Width() {
		dst.SetColor(x, 1, '─', core.ColorGray)
	}
}

func (g *Game) renderGrid(dst *core.Screen) {
	for slot, v := range g.board.slots {
		r := g.layout.cell(slot)
		border := core.ColorGray
		if slot == g.cursor {
			border = core.ColorBrightCyan
		}
		dst.DrawBox(r, border)

		if g.layout.cellH > 3 && slot < 9 {
			dst.SetColor(r.X+1, r.Y+1, rune('1'+slot), core.ColorGray)
		}

		cx, cy := r.Center()
		if p, ok := g.popups[slot]; ok {
			py := cy
			if g.layout.cellH > 3 {
				py = cy + 1
			}
			dst.DrawTextColor(cx-len(p.text)/2, py, p.text, p.color)
			if py != cy {
				g.drawTarget(dst, cx, cy, v)
			}
			continue
		}
		g.drawTarget(dst, cx, cy, v)
	}
}

func (g *Game) drawTarget(dst *core.Screen, x, y int, v slotView) {
	if !v.present {
		return
	}
	if v.hiding {
		dst.SetColor(x, y, '·', core.ColorGray)
		return
	}
	glyph, color := Glyph(v.kind)
	dst.SetColor(x, y, glyph, color)
}

// Glyph returns how a kind is drawn.
func Glyph(k Kind) (rune, core.Color) {
	switch k {
	case KindFriendly:
		return '✿', core.ColorMagenta
	case KindGolden:
		return '★', core.ColorBrightYellow
	default:
		return 'ж', core.ColorBrightGreen
	}
}

func (g *Game) renderOverlay(dst *core.Screen, color core.Color, lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	boxW := width + 4
	boxH := len(lines)*2 + 1
	r := core.NewRect(0, 0, dst.Width(), dst.Height()).Centered(boxW, boxH)

	dst.DrawRect(r, ' ')
	dst.DrawBox(r, color)
	for i, l := range lines {
		dst.DrawTextCentered(r.Y+1+i*2, l, color)
	}
}
