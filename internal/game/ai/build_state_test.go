package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roulette/internal/game/ai"
	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
)

func TestBuildTableState_SeatsActorAsMe(t *testing.T) {
	v := dealerView(2, 1, nil,
		combatantState("Dealer", withItem(inventory.KindSaw, 2)),
		combatantState("Alice", withHealth(1), restrained()),
	)
	ts := ai.BuildTableState(v)
	assert.Equal(t, "Dealer", ts.Me.Name)
	assert.Equal(t, 2, ts.Me.Items[inventory.KindSaw])
	assert.Equal(t, "Alice", ts.Opponent.Name)
	assert.Equal(t, 1, ts.Opponent.Health)
	assert.False(t, ts.Opponent.Eligible)
	assert.Equal(t, 3, ts.Remaining)
	assert.Equal(t, 2, ts.Live)
	assert.Equal(t, "II", ts.StageLabel)
	assert.Nil(t, ts.Known)
}

func TestBuildTableState_CopiesKnown(t *testing.T) {
	known := chamber.Live
	v := dealerView(1, 1, &known, combatantState("Dealer"), combatantState("Alice"))
	ts := ai.BuildTableState(v)
	require.NotNil(t, ts.Known)
	known = chamber.Blank
	assert.Equal(t, chamber.Live, *ts.Known)
}

func TestLiveOdds(t *testing.T) {
	ts := ai.BuildTableState(dealerView(1, 3, nil, combatantState("Dealer"), combatantState("Alice")))
	assert.InDelta(t, 0.25, ts.LiveOdds(), 1e-9)
	ts.Known = round(chamber.Live)
	assert.Equal(t, 1.0, ts.LiveOdds())
	ts.Known = round(chamber.Blank)
	assert.Equal(t, 0.0, ts.LiveOdds())
	ts.Known = nil
	ts.Remaining = 0
	assert.Equal(t, 0.0, ts.LiveOdds())
}

func TestPropertyLiveOddsInUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		live := rapid.IntRange(0, 8).Draw(rt, "live")
		blank := rapid.IntRange(0, 8).Draw(rt, "blank")
		ts := ai.BuildTableState(dealerView(live, blank, nil, combatantState("Dealer"), combatantState("Alice")))
		p := ts.LiveOdds()
		assert.GreaterOrEqual(rt, p, 0.0)
		assert.LessOrEqual(rt, p, 1.0)
	})
}
