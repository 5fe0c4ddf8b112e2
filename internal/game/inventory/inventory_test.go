package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/rng"
)

func TestInventory_ConsumeEmpty(t *testing.T) {
	inv := inventory.New(inventory.DefaultRuleset())
	err := inv.Consume(inventory.KindScan)
	assert.ErrorIs(t, err, inventory.ErrInsufficientItems)
	assert.Equal(t, 0, inv.Total())
}

func TestInventory_ConsumeDecrements(t *testing.T) {
	inv := inventory.New(inventory.DefaultRuleset())
	added := inv.Restock(8, rng.NewSeededSource(1))
	require.Equal(t, 8, inv.Total())
	require.Equal(t, 2, added[inventory.KindDiscard])

	require.NoError(t, inv.Consume(inventory.KindDiscard))
	assert.Equal(t, 1, inv.Count(inventory.KindDiscard))
	assert.True(t, inv.Has(inventory.KindDiscard))
}

func TestInventory_RestockFullAddsNothing(t *testing.T) {
	inv := inventory.New(inventory.DefaultRuleset())
	inv.Restock(100, rng.NewSeededSource(2))
	assert.Equal(t, 8, inv.Total())

	added := inv.Restock(4, rng.NewSeededSource(3))
	assert.Empty(t, added)
	assert.True(t, inv.IsFull())
}

func TestInventory_RestockRespectsSmallerTotalCap(t *testing.T) {
	rs := inventory.DefaultRuleset()
	rs.TotalCap = 3
	inv := inventory.New(rs)
	added := inv.Restock(8, rng.NewSeededSource(4))
	total := 0
	for _, n := range added {
		total += n
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, inv.Total())
}

func TestInventory_Clear(t *testing.T) {
	inv := inventory.New(inventory.DefaultRuleset())
	inv.Restock(5, rng.NewSeededSource(5))
	inv.Clear()
	assert.Equal(t, 0, inv.Total())
	assert.Empty(t, inv.Counts())
}

func TestDescribe(t *testing.T) {
	rs := inventory.DefaultRuleset()
	assert.Equal(t, "nothing", inventory.Describe(rs, nil))
	got := inventory.Describe(rs, map[inventory.Kind]int{
		inventory.KindSaw:     1,
		inventory.KindDiscard: 2,
		inventory.KindHeal:    0,
	})
	assert.Equal(t, "2 Beer, 1 Handsaw", got)
}

func TestKind_StringRoundTrip(t *testing.T) {
	for _, k := range inventory.Kinds {
		got, ok := inventory.ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "unknown", inventory.KindUnknown.String())
}

func TestPropertyRestock_NeverExceedsCaps(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rs := inventory.DefaultRuleset()
		inv := inventory.New(rs)
		src := rng.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		rounds := rapid.IntRange(1, 6).Draw(rt, "rounds")
		for i := 0; i < rounds; i++ {
			before := inv.Total()
			n := rapid.IntRange(0, 20).Draw(rt, "n")
			added := inv.Restock(n, src)

			sum := 0
			for _, c := range added {
				sum += c
			}
			assert.LessOrEqual(rt, sum, n)
			assert.Equal(rt, before+sum, inv.Total())
			assert.LessOrEqual(rt, inv.Total(), rs.TotalCap)
			for _, k := range inventory.Kinds {
				assert.LessOrEqual(rt, inv.Count(k), rs.Cap(k), "kind %s", k)
			}

			if inv.Total() > 0 && rapid.Bool().Draw(rt, "consume") {
				for _, k := range inventory.Kinds {
					if inv.Has(k) {
						require.NoError(rt, inv.Consume(k))
						break
					}
				}
			}
		}
	})
}

func TestInventory_AddRespectsCaps(t *testing.T) {
	inv := inventory.New(inventory.DefaultRuleset())
	require.NoError(t, inv.Add(inventory.KindSaw, 3))
	assert.Error(t, inv.Add(inventory.KindSaw, 1))
	require.NoError(t, inv.Add(inventory.KindDiscard, 2))
	require.NoError(t, inv.Add(inventory.KindScan, 1))
	require.NoError(t, inv.Add(inventory.KindHeal, 1))
	require.NoError(t, inv.Add(inventory.KindRestrain, 1))
	assert.Equal(t, 8, inv.Total())
	assert.Error(t, inv.Add(inventory.KindUnknown, 1))
}

func TestInventory_AddRespectsTotalCap(t *testing.T) {
	rs := inventory.DefaultRuleset()
	rs.TotalCap = 2
	inv := inventory.New(rs)
	require.NoError(t, inv.Add(inventory.KindDiscard, 2))
	err := inv.Add(inventory.KindScan, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total cap")
	assert.Equal(t, 0, inv.Count(inventory.KindScan))
}
