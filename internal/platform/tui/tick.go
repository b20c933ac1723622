// Package tui hosts games in a Bubble Tea program: the tick loop, key and
// mouse mapping, the menu, the scoreboard and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-whack/internal/core"
)

// TickMsg is sent to trigger a game simulation tick. Loop identifies the tick
// chain so a model ignores ticks left over from a previous game.
type TickMsg struct {
	Time time.Time
	Loop uint64
}

var loops atomic.Uint64

// newLoop returns a fresh tick chain identifier.
func newLoop() uint64 {
	return loops.Add(1)
}

// tickCmd returns a command that sends one tick after the game's tick interval.
func tickCmd(cfg core.RuntimeConfig, loop uint64) tea.Cmd {
	return tea.Tick(cfg.TickInterval(), func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Loop: loop}
	})
}
