package whack

import "testing"

func defaultScoring() Scoring {
	return Scoring{BasePoints: 10, GoldenPoints: 25, FriendlyPenalty: -15, ComboMultiplier: 1.5}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		combo     int
		wantDelta int
		wantCombo int
	}{
		{"bug from combo 1", KindBug, 1, 15, 2},
		{"bug deep combo", KindBug, 7, 15, 8},
		{"golden rounds half up", KindGolden, 1, 38, 2},
		{"friendly resets", KindFriendly, 5, -15, 1},
		{"friendly at combo 1", KindFriendly, 1, -15, 1},
		{"combo below 1 is clamped", KindBug, 0, 15, 2},
	}

	p := defaultScoring()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, combo := p.Resolve(tt.kind, tt.combo)
			if delta != tt.wantDelta || combo != tt.wantCombo {
				t.Errorf("Resolve(%v, %d) = (%d, %d), expected (%d, %d)",
					tt.kind, tt.combo, delta, combo, tt.wantDelta, tt.wantCombo)
			}
		})
	}
}

func TestResolveNegativeRounding(t *testing.T) {
	// A negative base under a multiplier rounds away from zero.
	p := Scoring{BasePoints: -5, ComboMultiplier: 1.5}
	if delta, _ := p.Resolve(KindBug, 1); delta != -8 {
		t.Errorf("delta = %d, expected -8", delta)
	}
}

func TestResolveSequenceIsSumOfDeltas(t *testing.T) {
	p := defaultScoring()
	seq := []Kind{KindBug, KindFriendly, KindGolden}
	want := []int{15, 0, 38}

	score, combo := 0, 1
	for i, k := range seq {
		var delta int
		delta, combo = p.Resolve(k, combo)
		score += delta
		if score != want[i] {
			t.Errorf("after %v: score = %d, expected %d", k, score, want[i])
		}
		if combo < 1 {
			t.Errorf("combo dropped below 1: %d", combo)
		}
	}
}

func TestBase(t *testing.T) {
	p := defaultScoring()
	if p.Base(KindBug) != 10 || p.Base(KindFriendly) != -15 || p.Base(KindGolden) != 25 {
		t.Errorf("unexpected base values: %d %d %d", p.Base(KindBug), p.Base(KindFriendly), p.Base(KindGolden))
	}
	if p.Base(Kind(99)) != 0 {
		t.Error("unknown kind should be worth 0")
	}
}
