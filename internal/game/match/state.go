package match

import (
	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
)

// Phase is the controller's position in the turn/stage state machine.
type Phase int

const (
	PhaseNotReady Phase = iota
	PhaseAwaitingAction
	PhaseResolving
	PhaseRoundOver
	PhaseConcluded
)

// String returns a human-readable phase label.
func (p Phase) String() string {
	switch p {
	case PhaseNotReady:
		return "not ready"
	case PhaseAwaitingAction:
		return "awaiting action"
	case PhaseResolving:
		return "resolving"
	case PhaseRoundOver:
		return "round over"
	case PhaseConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// CombatantState is a read-only copy of one combatant.
type CombatantState struct {
	ID        string
	Name      string
	Health    int
	HealthCap int
	Eligible  bool
	Automated bool
	Items     map[inventory.Kind]int
}

// ChamberState summarizes the chamber. Ejected rounds are public, so the
// remaining live/blank split is too; only the order is hidden.
type ChamberState struct {
	Remaining   int
	Live        int
	Blank       int
	LoadedLive  int
	LoadedBlank int
	Damage      int
}

// State is the snapshot delivered to observers. It shares no memory with
// the controller.
type State struct {
	MatchID         string
	Message         string
	Stage           int
	StageLabel      string
	Phase           Phase
	TurnIndex       int
	ItemsPerRestock int
	Combatants      []CombatantState
	Chamber         ChamberState
	Winner          *CombatantState
}

// Current returns the combatant whose turn it is.
//
// Precondition: the match has been set up.
func (s State) Current() CombatantState { return s.Combatants[s.TurnIndex] }

// Opponent returns the combatant whose turn it is not.
//
// Precondition: the match has been set up.
func (s State) Opponent() CombatantState { return s.Combatants[1-s.TurnIndex] }

// Observer receives a State after every command, setup, and stage change.
// Implementations must be comparable (e.g. pointer receivers) so Detach can
// find them.
type Observer interface {
	OnUpdate(State)
}

// View is what an automated policy sees when asked for a decision.
type View struct {
	State
	// Actor indexes Combatants for the deciding combatant.
	Actor int
	// Known is the front round when the actor has revealed it and it has not
	// moved since; nil otherwise.
	Known *chamber.Round
}
