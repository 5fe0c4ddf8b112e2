package ai_test

import (
	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/match"
)

type seatOpt func(*match.CombatantState)

func withItem(k inventory.Kind, n int) seatOpt {
	return func(c *match.CombatantState) { c.Items[k] = n }
}

func withHealth(h int) seatOpt {
	return func(c *match.CombatantState) { c.Health = h }
}

func restrained() seatOpt {
	return func(c *match.CombatantState) { c.Eligible = false }
}

func combatantState(name string, opts ...seatOpt) match.CombatantState {
	c := match.CombatantState{
		Name:      name,
		Health:    3,
		HealthCap: 3,
		Eligible:  true,
		Items:     map[inventory.Kind]int{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// dealerView returns a view for the dealer seated second.
func dealerView(live, blank int, known *chamber.Round, dealer, player match.CombatantState) match.View {
	return match.View{
		State: match.State{
			Stage:      2,
			StageLabel: "II",
			Phase:      match.PhaseAwaitingAction,
			TurnIndex:  1,
			Combatants: []match.CombatantState{player, dealer},
			Chamber: match.ChamberState{
				Remaining: live + blank,
				Live:      live,
				Blank:     blank,
				Damage:    1,
			},
		},
		Actor: 1,
		Known: known,
	}
}

func round(r chamber.Round) *chamber.Round { return &r }
