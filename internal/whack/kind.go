package whack

import (
	"fmt"
	"time"
)

// Kind is the type of a target.
type Kind int

const (
	KindBug      Kind = iota // Worth points, extends the combo
	KindFriendly             // Penalty, resets the combo
	KindGolden               // Rare, worth the most
)

// Kinds lists every kind in draw order.
var Kinds = [...]Kind{KindBug, KindFriendly, KindGolden}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBug:
		return "bug"
	case KindFriendly:
		return "friendly"
	case KindGolden:
		return "golden"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TargetState tracks a target through its lifetime.
type TargetState int

const (
	TargetUp     TargetState = iota // Visible and selectable
	TargetHiding                    // Lifetime over, fading out; still selectable
	TargetGone                      // Removed by a hit, expiry or session end
)

// Target is a transient scorable entity occupying one slot.
type Target struct {
	ID         uint64
	Kind       Kind
	BasePoints int
	Slot       int
	SpawnedAt  time.Time
	ExpiresAt  time.Time
	State      TargetState
}

// Live reports whether the target still holds its slot.
func (t *Target) Live() bool {
	return t != nil && t.State != TargetGone
}
