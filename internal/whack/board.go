package whack

// slotView is what the board shows for one slot.
type slotView struct {
	present bool
	kind    Kind
	hiding  bool
}

// board is the Renderer the terminal adapter draws from. It mirrors the
// session through notifications only.
type board struct {
	slots []slotView
	score int
	combo int
	time  int
	best  int
	ended bool
	final int
}

func newBoard(slots int) *board {
	return &board{slots: make([]slotView, slots), combo: 1}
}

func (b *board) reset() {
	for i := range b.slots {
		b.slots[i] = slotView{}
	}
	b.ended = false
	b.final = 0
}

func (b *board) valid(slot int) bool {
	return slot >= 0 && slot < len(b.slots)
}

func (b *board) TargetCreated(slot int, kind Kind) {
	if b.valid(slot) {
		b.slots[slot] = slotView{present: true, kind: kind}
	}
}

func (b *board) TargetHiding(slot int) {
	if b.valid(slot) {
		b.slots[slot].hiding = true
	}
}

func (b *board) TargetRemoved(slot int) {
	if b.valid(slot) {
		b.slots[slot] = slotView{}
	}
}

func (b *board) ScoreChanged(score int) {
	b.score = score
}

func (b *board) ComboChanged(combo int) {
	b.combo = combo
}

func (b *board) TimeChanged(remaining int) {
	b.time = remaining
}

func (b *board) SessionEnded(final, best int) {
	b.ended = true
	b.final = final
	b.best = best
}
