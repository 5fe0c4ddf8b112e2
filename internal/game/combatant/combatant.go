// Package combatant models one side of a match.
package combatant

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/roulette/internal/game/inventory"
)

// Kind distinguishes externally driven combatants from automated ones.
type Kind int

const (
	KindPlayer Kind = iota
	KindDealer
)

// DefaultDealerName is the name given to an automated opponent.
const DefaultDealerName = "Dealer"

// Combatant is one side of a match.
type Combatant struct {
	ID   string
	Kind Kind
	Name string
	// Health is floored at zero.
	Health int
	// Eligible is false when the next nominal turn will be skipped once.
	Eligible bool
	// Inventory is replaced wholesale by Reset.
	Inventory *inventory.Inventory
}

// NewPlayer returns an externally driven combatant.
//
// Postcondition: Inventory is empty and Health is 0 until Reset is called.
func NewPlayer(name string, rules *inventory.Ruleset) *Combatant {
	return newCombatant(KindPlayer, name, rules)
}

// NewDealer returns an automated combatant. An empty name uses DefaultDealerName.
func NewDealer(name string, rules *inventory.Ruleset) *Combatant {
	if name == "" {
		name = DefaultDealerName
	}
	return newCombatant(KindDealer, name, rules)
}

func newCombatant(kind Kind, name string, rules *inventory.Ruleset) *Combatant {
	return &Combatant{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		Eligible:  true,
		Inventory: inventory.New(rules),
	}
}

// IsAutomated reports whether commands for this combatant come from a policy.
func (c *Combatant) IsAutomated() bool { return c.Kind == KindDealer }

// IsDead reports whether health has reached zero.
func (c *Combatant) IsDead() bool { return c.Health <= 0 }

// Reset restores health to healthCap, replaces the inventory with an empty
// one, and clears any pending skip.
//
// Precondition: healthCap >= 1.
func (c *Combatant) Reset(healthCap int) {
	c.Health = healthCap
	c.Eligible = true
	c.Inventory = inventory.New(c.Inventory.Rules())
}

// ApplyDamage reduces Health by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: Health >= 0.
func (c *Combatant) ApplyDamage(amount int) {
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
}

// Heal adds one health up to healthCap.
//
// Postcondition: returns false and leaves health unchanged when already at the cap.
func (c *Combatant) Heal(healthCap int) bool {
	if c.Health >= healthCap {
		return false
	}
	c.Health++
	return true
}
