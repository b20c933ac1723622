package whack

import "math"

// Scoring maps a hit on a target to a point delta and a new combo value.
type Scoring struct {
	BasePoints      int     // Bug value
	GoldenPoints    int     // Golden value
	FriendlyPenalty int     // Friendly value, negative
	ComboMultiplier float64 // Applied while the combo is above 1
}

// Base returns the unmultiplied point value of a kind.
func (p Scoring) Base(k Kind) int {
	switch k {
	case KindBug:
		return p.BasePoints
	case KindFriendly:
		return p.FriendlyPenalty
	case KindGolden:
		return p.GoldenPoints
	default:
		return 0
	}
}

// Resolve scores a hit on a target of kind k at the given combo.
//
// Bug and Golden increment the combo; Friendly resets it to 1. The multiplier
// applies when the resulting combo is above 1, so a penalty is never amplified.
// Multiplied values are rounded half away from zero.
func (p Scoring) Resolve(k Kind, combo int) (delta, newCombo int) {
	if combo < 1 {
		combo = 1
	}

	switch k {
	case KindBug, KindGolden:
		newCombo = combo + 1
	default:
		newCombo = 1
	}

	base := p.Base(k)
	if newCombo > 1 {
		return int(math.Round(float64(base) * p.ComboMultiplier)), newCombo
	}
	return base, newCombo
}
