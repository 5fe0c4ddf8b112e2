// Package ai implements decision policies for the automated dealer.
//
// Every policy decides from a TableState, the dealer's view of the table at
// decision time. Fallback is an ordered rule list, Script delegates to a Lua
// decide hook, and Claude asks a language model.
package ai

import (
	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
)

// SeatState captures one combatant at decision time.
type SeatState struct {
	Name      string
	Health    int
	HealthCap int
	Eligible  bool
	Items     map[inventory.Kind]int
}

// Has reports whether the seat holds at least one k.
func (s *SeatState) Has(k inventory.Kind) bool { return s.Items[k] > 0 }

// Wounded reports whether the seat is below its health cap.
func (s *SeatState) Wounded() bool { return s.Health < s.HealthCap }

// TableState is the snapshot passed to a dealer policy.
//
// Invariant: Me and Opponent are non-nil.
type TableState struct {
	Stage      int
	StageLabel string
	Me         *SeatState
	Opponent   *SeatState
	Remaining  int
	Live       int
	Blank      int
	Damage     int
	// Known is the front round when Me revealed it; nil otherwise.
	Known *chamber.Round
}

// LiveOdds returns the probability that the front round is Live: exact when
// Known is set, the remaining live share otherwise, and 0 for an empty chamber.
//
// Postcondition: 0 <= result <= 1.
func (ts *TableState) LiveOdds() float64 {
	if ts.Known != nil {
		if *ts.Known == chamber.Live {
			return 1
		}
		return 0
	}
	if ts.Remaining <= 0 {
		return 0
	}
	return float64(ts.Live) / float64(ts.Remaining)
}
