package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"last cell", 29, 24, true},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 2, 80, 21)

	tests := []struct {
		name string
		w, h int
		want Rect
		fits bool
	}{
		{"grid", 27, 15, NewRect(26, 5, 27, 15), true},
		{"exact", 80, 21, NewRect(0, 2, 80, 21), true},
		{"too wide", 90, 5, NewRect(-5, 10, 90, 5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := outer.Centered(tc.w, tc.h); got != tc.want {
				t.Errorf("Centered(%d, %d) = %+v, expected %+v", tc.w, tc.h, got, tc.want)
			}
			if got := outer.Fits(tc.w, tc.h); got != tc.fits {
				t.Errorf("Fits(%d, %d) = %v, expected %v", tc.w, tc.h, got, tc.fits)
			}
		})
	}
}

func TestRectGridCell(t *testing.T) {
	grid := NewRect(26, 5, 27, 15)
	if got, want := grid.GridCell(2, 1, 9, 5), NewRect(44, 10, 9, 5); got != want {
		t.Errorf("GridCell(2, 1) = %+v, expected %+v", got, want)
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionWhack)
	f.SelectSlot(4)
	f.Click(3, 7)

	if !f.Has(ActionWhack) {
		t.Error("Has(ActionWhack) should be true after Set")
	}
	if f.Has(ActionPause) {
		t.Error("Has(ActionPause) should be false")
	}
	if len(f.Slots) != 1 || f.Slots[0] != 4 {
		t.Errorf("Slots = %v, expected [4]", f.Slots)
	}
	if len(f.Clicks) != 1 || f.Clicks[0] != (Point{X: 3, Y: 7}) {
		t.Errorf("Clicks = %v, expected [{3 7}]", f.Clicks)
	}

	f.Clear()
	if !f.Empty() {
		t.Error("frame should be empty after Clear")
	}
}

func TestInputFrameZeroValue(t *testing.T) {
	var f InputFrame
	if f.Has(ActionConfirm) {
		t.Error("zero frame should have no actions")
	}
	f.Set(ActionConfirm)
	if !f.Has(ActionConfirm) {
		t.Error("Set on zero frame should allocate the action map")
	}
}
