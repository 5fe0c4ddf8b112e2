package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roulette/internal/game/action"
	"github.com/cory-johannsen/roulette/internal/game/ai"
	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/command"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/match"
	"github.com/cory-johannsen/roulette/internal/game/rng"
	"github.com/cory-johannsen/roulette/internal/game/stage"
)

func decide(t *testing.T, v match.View) command.Request {
	t.Helper()
	req, err := ai.NewFallback(zaptest.NewLogger(t), nil).Decide(context.Background(), v)
	require.NoError(t, err)
	return req
}

func TestFallback_SawsBeforeCertainLive(t *testing.T) {
	req := decide(t, dealerView(1, 1, round(chamber.Live), combatantState("Dealer", withItem(inventory.KindSaw, 1)), combatantState("Alice")))
	assert.Equal(t, action.KindSaw, req.Action)
}

func TestFallback_FiresAtOpponentWhenCertainLive(t *testing.T) {
	req := decide(t, dealerView(2, 0, nil, combatantState("Dealer"), combatantState("Alice")))
	assert.Equal(t, command.Request{Action: action.KindFire, Target: command.TargetOpponent}, req)
}

func TestFallback_FiresAtSelfWhenKnownBlank(t *testing.T) {
	req := decide(t, dealerView(1, 1, round(chamber.Blank), combatantState("Dealer", withItem(inventory.KindScan, 1)), combatantState("Alice")))
	assert.Equal(t, command.Request{Action: action.KindFire, Target: command.TargetSelf}, req)
}

func TestFallback_HealsWhenWounded(t *testing.T) {
	req := decide(t, dealerView(1, 1, nil, combatantState("Dealer", withHealth(1), withItem(inventory.KindHeal, 1)), combatantState("Alice")))
	assert.Equal(t, action.KindHeal, req.Action)
}

func TestFallback_DoesNotHealAtFullHealth(t *testing.T) {
	req := decide(t, dealerView(1, 1, nil, combatantState("Dealer", withItem(inventory.KindHeal, 1)), combatantState("Alice")))
	assert.NotEqual(t, action.KindHeal, req.Action)
}

func TestFallback_ScansWhenUnknown(t *testing.T) {
	req := decide(t, dealerView(1, 1, nil, combatantState("Dealer", withItem(inventory.KindScan, 1)), combatantState("Alice")))
	assert.Equal(t, action.KindScan, req.Action)
}

func TestFallback_RestrainsEligibleOpponent(t *testing.T) {
	req := decide(t, dealerView(1, 1, nil, combatantState("Dealer", withItem(inventory.KindRestrain, 1)), combatantState("Alice")))
	assert.Equal(t, action.KindRestrain, req.Action)

	req = decide(t, dealerView(1, 1, nil, combatantState("Dealer", withItem(inventory.KindRestrain, 1)), combatantState("Alice", restrained())))
	assert.Equal(t, action.KindFire, req.Action)
}

func TestFallback_DiscardsWhenOddsUnfavorable(t *testing.T) {
	req := decide(t, dealerView(1, 3, nil, combatantState("Dealer", withItem(inventory.KindDiscard, 1)), combatantState("Alice")))
	assert.Equal(t, action.KindDiscard, req.Action)
}

func TestFallback_OddsDecideTarget(t *testing.T) {
	req := decide(t, dealerView(1, 3, nil, combatantState("Dealer"), combatantState("Alice")))
	assert.Equal(t, command.TargetSelf, req.Target)
	req = decide(t, dealerView(2, 2, nil, combatantState("Dealer"), combatantState("Alice")))
	assert.Equal(t, command.TargetOpponent, req.Target)
}

func TestFallback_CustomRules(t *testing.T) {
	f := ai.NewFallback(zaptest.NewLogger(t), []ai.Rule{{
		ID:   "always-saw",
		When: func(*ai.TableState) bool { return true },
		Then: command.Request{Action: action.KindSaw},
	}})
	req, err := f.Decide(context.Background(), dealerView(1, 1, nil, combatantState("Dealer"), combatantState("Alice")))
	require.NoError(t, err)
	assert.Equal(t, action.KindSaw, req.Action)
}

func TestFallback_EmptyRulesFireAtOpponent(t *testing.T) {
	f := ai.NewFallback(zaptest.NewLogger(t), []ai.Rule{})
	req, err := f.Decide(context.Background(), dealerView(0, 1, nil, combatantState("Dealer"), combatantState("Alice")))
	require.NoError(t, err)
	assert.Equal(t, command.Request{Action: action.KindFire, Target: command.TargetOpponent}, req)
}

// A dealer driven by the default rules always finishes its turn and the
// table stays playable.
func TestPropertyFallbackDrivesMatchForward(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		logger := zaptest.NewLogger(t)
		c, err := match.NewController(inventory.DefaultRuleset(), stage.DefaultPolicy(), rng.NewSeededSource(seed), logger,
			match.WithPolicy(ai.NewFallback(logger, nil)))
		require.NoError(rt, err)
		require.NoError(rt, c.Setup("Alice", ""))

		for i := 0; i < 20 && c.Phase() == match.PhaseAwaitingAction; i++ {
			if c.Snapshot().Current().Automated {
				require.NoError(rt, c.PlayAutomated(context.Background()))
				s := c.Snapshot()
				if s.Phase == match.PhaseAwaitingAction {
					assert.False(rt, s.Current().Automated)
				} else {
					assert.Equal(rt, match.PhaseRoundOver, s.Phase)
				}
				continue
			}
			_ = c.Execute("fire")
		}
	})
}
