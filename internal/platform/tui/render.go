package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-whack/internal/core"
)

type ink struct {
	ansi string // Empty for the terminal's default foreground
	bold bool
}

// palette is indexed by core.Color.
var palette = [...]ink{
	core.ColorDefault:      {},
	core.ColorRed:          {ansi: "1"},
	core.ColorGreen:        {ansi: "2"},
	core.ColorYellow:       {ansi: "3"},
	core.ColorMagenta:      {ansi: "5"},
	core.ColorCyan:         {ansi: "6"},
	core.ColorWhite:        {ansi: "7"},
	core.ColorBrightRed:    {ansi: "9", bold: true},
	core.ColorBrightGreen:  {ansi: "10", bold: true},
	core.ColorBrightYellow: {ansi: "11", bold: true},
	core.ColorBrightCyan:   {ansi: "14"},
	core.ColorBrightWhite:  {ansi: "15"},
	core.ColorGray:         {ansi: "245"},
}

// Painter turns a Screen into styled text for one terminal. Styles are bound
// to a lipgloss renderer so an SSH client gets its own color profile instead
// of the server's.
type Painter struct {
	styles [len(palette)]lipgloss.Style
}

// NewPainter builds the palette styles on r. A nil r uses the process
// terminal.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p := &Painter{}
	for i, c := range palette {
		st := r.NewStyle()
		if c.ansi != "" {
			st = st.Foreground(lipgloss.Color(c.ansi))
		}
		p.styles[i] = st.Bold(c.bold)
	}
	return p
}

// Paint renders s row by row. Adjacent cells sharing a color form one styled
// run; runs in the default color, and runs of blanks without bold, are written
// unstyled.
func (p *Painter) Paint(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	run := make([]rune, 0, s.Width())
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run = run[:0]
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run = append(run, cell.Rune)
			}
			p.write(&sb, color, run)
		}
	}
	return sb.String()
}

func (p *Painter) write(sb *strings.Builder, color core.Color, run []rune) {
	if int(color) >= len(palette) {
		color = core.ColorDefault
	}
	c := palette[color]
	if c.ansi == "" && !c.bold || !c.bold && blank(run) {
		sb.WriteString(string(run))
		return
	}
	sb.WriteString(p.styles[color].Render(string(run)))
}

func blank(run []rune) bool {
	for _, r := range run {
		if r != ' ' {
			return false
		}
	}
	return true
}
