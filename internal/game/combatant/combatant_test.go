package combatant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/roulette/internal/game/combatant"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/rng"
)

func TestNewDealer_DefaultName(t *testing.T) {
	d := combatant.NewDealer("", inventory.DefaultRuleset())
	assert.Equal(t, combatant.DefaultDealerName, d.Name)
	assert.True(t, d.IsAutomated())
	assert.True(t, d.Eligible)
}

func TestNewPlayer_UniqueIDs(t *testing.T) {
	rs := inventory.DefaultRuleset()
	a := combatant.NewPlayer("Alice", rs)
	b := combatant.NewPlayer("Alice", rs)
	assert.False(t, a.IsAutomated())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestReset_ReplacesHealthAndInventory(t *testing.T) {
	c := combatant.NewPlayer("Alice", inventory.DefaultRuleset())
	c.Reset(3)
	c.Inventory.Restock(4, rng.NewSeededSource(1))
	old := c.Inventory
	c.ApplyDamage(2)
	c.Eligible = false

	c.Reset(5)
	assert.Equal(t, 5, c.Health)
	assert.True(t, c.Eligible)
	assert.Equal(t, 0, c.Inventory.Total())
	assert.NotSame(t, old, c.Inventory)
}

func TestHeal_StopsAtCap(t *testing.T) {
	c := combatant.NewPlayer("Alice", inventory.DefaultRuleset())
	c.Reset(2)
	assert.False(t, c.Heal(2))
	c.ApplyDamage(1)
	assert.True(t, c.Heal(2))
	assert.Equal(t, 2, c.Health)
}

func TestIsDead(t *testing.T) {
	c := combatant.NewPlayer("Alice", inventory.DefaultRuleset())
	c.Reset(1)
	assert.False(t, c.IsDead())
	c.ApplyDamage(4)
	assert.True(t, c.IsDead())
	assert.Equal(t, 0, c.Health)
}
