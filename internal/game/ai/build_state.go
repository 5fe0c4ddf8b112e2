package ai

import (
	"github.com/cory-johannsen/roulette/internal/game/match"
)

// BuildTableState constructs a TableState from the deciding combatant's view.
//
// Precondition: v comes from a set-up match.
// Postcondition: ts.Me is Combatants[v.Actor]; ts.Known mirrors v.Known.
func BuildTableState(v match.View) *TableState {
	me := v.Combatants[v.Actor]
	opp := v.Combatants[1-v.Actor]
	ts := &TableState{
		Stage:      v.Stage,
		StageLabel: v.StageLabel,
		Me:         seat(me),
		Opponent:   seat(opp),
		Remaining:  v.Chamber.Remaining,
		Live:       v.Chamber.Live,
		Blank:      v.Chamber.Blank,
		Damage:     v.Chamber.Damage,
	}
	if v.Known != nil {
		r := *v.Known
		ts.Known = &r
	}
	return ts
}

func seat(c match.CombatantState) *SeatState {
	return &SeatState{
		Name:      c.Name,
		Health:    c.Health,
		HealthCap: c.HealthCap,
		Eligible:  c.Eligible,
		Items:     c.Items,
	}
}
