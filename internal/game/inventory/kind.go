// Package inventory holds per-combatant item counts and the ruleset that
// bounds them.
package inventory

// Kind identifies one of the five fixed item kinds.
// The zero value (KindUnknown) is intentionally invalid.
type Kind int

const (
	KindUnknown  Kind = iota // zero value; intentionally invalid
	KindScan                 // magnifier: reveal the front round
	KindDiscard              // beer: eject the front round
	KindSaw                  // handsaw: double the next shot's damage
	KindHeal                 // cigarette: regain 1 health
	KindRestrain             // handcuff: skip the opponent's next turn
)

// Kinds lists every valid Kind in display order.
var Kinds = []Kind{KindScan, KindDiscard, KindSaw, KindHeal, KindRestrain}

// String returns the canonical id of the kind.
func (k Kind) String() string {
	switch k {
	case KindScan:
		return "scan"
	case KindDiscard:
		return "discard"
	case KindSaw:
		return "saw"
	case KindHeal:
		return "heal"
	case KindRestrain:
		return "restrain"
	default:
		return "unknown"
	}
}

// ParseKind maps a canonical id back to its Kind.
//
// Postcondition: returns (KindUnknown, false) for unrecognized ids.
func ParseKind(id string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == id {
			return k, true
		}
	}
	return KindUnknown, false
}
