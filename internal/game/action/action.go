// Package action resolves the six things a combatant can do on their turn.
package action

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/combatant"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/stage"
)

// ErrInvalidAction is returned when an action's own precondition is unmet.
var ErrInvalidAction = errors.New("invalid action")

// Kind identifies an action.
// The zero value (KindUnknown) is intentionally invalid.
type Kind int

const (
	KindUnknown  Kind = iota // zero value; intentionally invalid
	KindFire                 // eject a round at a target
	KindScan                 // consumes a scan item
	KindDiscard              // consumes a discard item
	KindSaw                  // consumes a saw item
	KindHeal                 // consumes a heal item
	KindRestrain             // consumes a restrain item
)

// String returns the canonical command name of the action.
func (k Kind) String() string {
	switch k {
	case KindFire:
		return "fire"
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

// Item returns the inventory kind the action consumes.
//
// Postcondition: returns (KindUnknown, false) for Fire and KindUnknown.
func (k Kind) Item() (inventory.Kind, bool) {
	switch k {
	case KindScan:
		return inventory.KindScan, true
	case KindDiscard:
		return inventory.KindDiscard, true
	case KindSaw:
		return inventory.KindSaw, true
	case KindHeal:
		return inventory.KindHeal, true
	case KindRestrain:
		return inventory.KindRestrain, true
	default:
		return inventory.KindUnknown, false
	}
}

// ForItem maps an inventory kind to the action that consumes it.
func ForItem(k inventory.Kind) Kind {
	switch k {
	case inventory.KindScan:
		return KindScan
	case inventory.KindDiscard:
		return KindDiscard
	case inventory.KindSaw:
		return KindSaw
	case inventory.KindHeal:
		return KindHeal
	case inventory.KindRestrain:
		return KindRestrain
	default:
		return KindUnknown
	}
}

// Outcome is the uniform result of every resolved action.
type Outcome struct {
	Kind Kind
	// EndsTurn is true when the actor's turn passes.
	EndsTurn bool
	// SkipsTargetTurn is true when a self-fired blank grants the actor another
	// action. It never accompanies EndsTurn.
	SkipsTargetTurn bool
	// MatchOver is true when the target's health reached zero.
	MatchOver bool
	// Round is the round fired, revealed, or ejected; nil for other actions.
	Round *chamber.Round
	// Damage is the damage dealt by a live Fire.
	Damage  int
	Message string
}

// Action binds a Kind to the actor, target, chamber, and stage it acts on.
// For Fire at self, Target == Actor.
type Action struct {
	Kind    Kind
	Actor   *combatant.Combatant
	Target  *combatant.Combatant
	Chamber *chamber.Chamber
	Stage   stage.Stage
}

// New constructs an Action.
//
// Precondition: actor, target, and ch must be non-nil.
func New(kind Kind, actor, target *combatant.Combatant, ch *chamber.Chamber, st stage.Stage) Action {
	if actor == nil || target == nil || ch == nil {
		panic("action: New: actor, target, and chamber must be non-nil")
	}
	return Action{Kind: kind, Actor: actor, Target: target, Chamber: ch, Stage: st}
}

// Resolve executes the action.
//
// Postcondition: on error no state has been mutated.
func (a Action) Resolve() (Outcome, error) {
	switch a.Kind {
	case KindFire:
		return a.fire()
	case KindScan:
		return a.scan()
	case KindDiscard:
		return a.discard()
	case KindSaw:
		return a.saw()
	case KindHeal:
		return a.heal()
	case KindRestrain:
		return a.restrain()
	default:
		return Outcome{}, fmt.Errorf("unresolvable action %q: %w", a.Kind, ErrInvalidAction)
	}
}

func (a Action) itemName(k inventory.Kind) string {
	return a.Actor.Inventory.Rules().Name(k)
}

// requireItem fails with inventory.ErrInsufficientItems without mutating.
func (a Action) requireItem(k inventory.Kind) error {
	if !a.Actor.Inventory.Has(k) {
		return fmt.Errorf("%s has no %s: %w", a.Actor.Name, a.itemName(k), inventory.ErrInsufficientItems)
	}
	return nil
}

func (a Action) fire() (Outcome, error) {
	r, err := a.Chamber.Eject()
	if err != nil {
		return Outcome{}, fmt.Errorf("%s cannot fire: %w", a.Actor.Name, err)
	}
	damage := a.Chamber.Damage()
	a.Chamber.ResetDamage()

	self := a.Target == a.Actor
	who := a.Target.Name
	if self {
		who = "themself"
	}
	out := Outcome{Kind: KindFire, EndsTurn: true, Round: &r}

	if r == chamber.Live {
		a.Target.ApplyDamage(damage)
		out.Damage = damage
		out.MatchOver = a.Target.IsDead()
		out.Message = fmt.Sprintf("BANG! %s shoots %s with a Live round for %d damage.", a.Actor.Name, who, damage)
		if out.MatchOver {
			out.Message += fmt.Sprintf(" %s is down.", a.Target.Name)
		}
		return out, nil
	}

	out.Message = fmt.Sprintf("Click. %s shoots %s with a Blank round.", a.Actor.Name, who)
	if self {
		out.EndsTurn = false
		out.SkipsTargetTurn = true
		out.Message += fmt.Sprintf(" %s goes again.", a.Actor.Name)
	}
	return out, nil
}

func (a Action) scan() (Outcome, error) {
	if err := a.requireItem(inventory.KindScan); err != nil {
		return Outcome{}, err
	}
	r, err := a.Chamber.Peek()
	if err != nil {
		return Outcome{}, fmt.Errorf("%s cannot use %s: %w", a.Actor.Name, a.itemName(inventory.KindScan), err)
	}
	if err := a.Actor.Inventory.Consume(inventory.KindScan); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Kind:    KindScan,
		Round:   &r,
		Message: fmt.Sprintf("%s uses a %s. The current round is %s.", a.Actor.Name, a.itemName(inventory.KindScan), r),
	}, nil
}

func (a Action) discard() (Outcome, error) {
	if err := a.requireItem(inventory.KindDiscard); err != nil {
		return Outcome{}, err
	}
	if a.Chamber.IsEmpty() {
		return Outcome{}, fmt.Errorf("%s cannot use %s: %w", a.Actor.Name, a.itemName(inventory.KindDiscard), chamber.ErrEmptyChamber)
	}
	if err := a.Actor.Inventory.Consume(inventory.KindDiscard); err != nil {
		return Outcome{}, err
	}
	r, err := a.Chamber.Eject()
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Kind:    KindDiscard,
		Round:   &r,
		Message: fmt.Sprintf("%s uses a %s and ejects a %s round.", a.Actor.Name, a.itemName(inventory.KindDiscard), r),
	}, nil
}

func (a Action) saw() (Outcome, error) {
	if err := a.Actor.Inventory.Consume(inventory.KindSaw); err != nil {
		return Outcome{}, fmt.Errorf("%s cannot saw: %w", a.Actor.Name, err)
	}
	d := a.Chamber.DoubleDamage()
	return Outcome{
		Kind:    KindSaw,
		Message: fmt.Sprintf("%s saws off the barrel with a %s. The next shot deals %d damage.", a.Actor.Name, a.itemName(inventory.KindSaw), d),
	}, nil
}

func (a Action) heal() (Outcome, error) {
	if a.Actor.Health >= a.Stage.HealthCap {
		return Outcome{}, fmt.Errorf("%s is already at full health: %w", a.Actor.Name, ErrInvalidAction)
	}
	if err := a.requireItem(inventory.KindHeal); err != nil {
		return Outcome{}, err
	}
	if err := a.Actor.Inventory.Consume(inventory.KindHeal); err != nil {
		return Outcome{}, err
	}
	a.Actor.Heal(a.Stage.HealthCap)
	return Outcome{
		Kind:    KindHeal,
		Message: fmt.Sprintf("%s smokes a %s and regains 1 health.", a.Actor.Name, a.itemName(inventory.KindHeal)),
	}, nil
}

func (a Action) restrain() (Outcome, error) {
	if !a.Target.Eligible {
		return Outcome{}, fmt.Errorf("%s's turn is already skipped: %w", a.Target.Name, ErrInvalidAction)
	}
	if err := a.requireItem(inventory.KindRestrain); err != nil {
		return Outcome{}, err
	}
	if err := a.Actor.Inventory.Consume(inventory.KindRestrain); err != nil {
		return Outcome{}, err
	}
	a.Target.Eligible = false
	return Outcome{
		Kind:    KindRestrain,
		Message: fmt.Sprintf("%s is cuffed with a %s and will miss their next turn.", a.Target.Name, a.itemName(inventory.KindRestrain)),
	}, nil
}
