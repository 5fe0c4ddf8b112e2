package chamber_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/rng"
)

func TestNew_EmptyWithUnitDamage(t *testing.T) {
	c := chamber.New()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 1, c.Damage())
}

func TestPeek_EmptyChamber(t *testing.T) {
	c := chamber.New()
	_, err := c.Peek()
	assert.True(t, errors.Is(err, chamber.ErrEmptyChamber))
}

func TestEject_EmptyChamber(t *testing.T) {
	c := chamber.New()
	_, err := c.Eject()
	assert.ErrorIs(t, err, chamber.ErrEmptyChamber)
}

func TestPeek_DoesNotMutate(t *testing.T) {
	c := chamber.New()
	c.Load(chamber.Live, chamber.Blank)
	for i := 0; i < 5; i++ {
		r, err := c.Peek()
		require.NoError(t, err)
		assert.Equal(t, chamber.Live, r)
	}
	assert.Equal(t, 2, c.Len())
}

func TestEject_AdvancesFront(t *testing.T) {
	c := chamber.New()
	c.Load(chamber.Blank, chamber.Live)
	r, err := c.Eject()
	require.NoError(t, err)
	assert.Equal(t, chamber.Blank, r)
	r, err = c.Peek()
	require.NoError(t, err)
	assert.Equal(t, chamber.Live, r)
}

func TestLoad_ReplacesPreviousSequence(t *testing.T) {
	c := chamber.New()
	c.Load(chamber.Live, chamber.Live, chamber.Live)
	c.Load(chamber.Blank)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, chamber.Counts{Live: 0, Blank: 1}, c.Loaded())
}

func TestDoubleDamage_CompoundsWithoutCeiling(t *testing.T) {
	c := chamber.New()
	for i := 1; i <= 10; i++ {
		assert.Equal(t, 1<<i, c.DoubleDamage())
	}
	c.ResetDamage()
	assert.Equal(t, 1, c.Damage())
}

func TestRound_String(t *testing.T) {
	assert.Equal(t, "Live", chamber.Live.String())
	assert.Equal(t, "Blank", chamber.Blank.String())
}

func TestReloadPolicy_Validate(t *testing.T) {
	assert.NoError(t, chamber.ReloadPolicy{MinCapacity: 1, MaxCapacity: 1}.Validate())
	assert.Error(t, chamber.ReloadPolicy{MinCapacity: 0, MaxCapacity: 4}.Validate())
	assert.Error(t, chamber.ReloadPolicy{MinCapacity: 5, MaxCapacity: 4}.Validate())
}

func TestReload_CapacityOneHasNoBlanks(t *testing.T) {
	c := chamber.New()
	counts := c.Reload(chamber.ReloadPolicy{MinCapacity: 1, MaxCapacity: 1}, rng.NewSeededSource(3))
	assert.Equal(t, chamber.Counts{Live: 1, Blank: 0}, counts)
}

func TestPropertyReload_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(1, 8).Draw(rt, "min")
		hi := lo + rapid.IntRange(0, 8).Draw(rt, "span")
		seed := rapid.Uint64().Draw(rt, "seed")

		c := chamber.New()
		counts := c.Reload(chamber.ReloadPolicy{MinCapacity: lo, MaxCapacity: hi}, rng.NewSeededSource(seed))

		capacity := c.Len()
		assert.Equal(rt, counts.Total(), capacity)
		assert.GreaterOrEqual(rt, capacity, lo)
		assert.LessOrEqual(rt, capacity, hi)
		assert.GreaterOrEqual(rt, counts.Live, 1)
		maxLives := capacity / 2
		if maxLives < 1 {
			maxLives = 1
		}
		assert.LessOrEqual(rt, counts.Live, maxLives)
		if capacity > counts.Live {
			assert.GreaterOrEqual(rt, counts.Blank, 1)
		}
	})
}

func TestPropertyReload_EjectAllMatchesCounts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		c := chamber.New()
		counts := c.Reload(chamber.ReloadPolicy{MinCapacity: 2, MaxCapacity: 8}, rng.NewSeededSource(seed))

		var got chamber.Counts
		for !c.IsEmpty() {
			r, err := c.Eject()
			require.NoError(rt, err)
			if r == chamber.Live {
				got.Live++
			} else {
				got.Blank++
			}
		}
		assert.Equal(rt, counts, got)
		_, err := c.Eject()
		assert.ErrorIs(rt, err, chamber.ErrEmptyChamber)
	})
}
