// Package command provides the command registry, parser, and built-in
// command definitions for the roulette table.
package command

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/roulette/internal/game/action"
)

// ErrUnknownCommand is returned for tokens that map to no command.
var ErrUnknownCommand = errors.New("unknown command")

// Categories for organizing commands.
const (
	CategoryShotgun = "shotgun"
	CategoryItem    = "item"
	CategoryMatch   = "match"
	CategorySystem  = "system"
)

// Handler identifiers mapping commands to engine operations.
const (
	HandlerFire     = "fire"
	HandlerScan     = "scan"
	HandlerDiscard  = "discard"
	HandlerSaw      = "saw"
	HandlerHeal     = "heal"
	HandlerRestrain = "restrain"
	HandlerContinue = "continue"
	HandlerStop     = "stop"
	HandlerStatus   = "status"
	HandlerHelp     = "help"
	HandlerQuit     = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the engine operation.
	Handler string
}

// Action returns the engine action this command resolves to.
//
// Postcondition: returns (KindUnknown, false) for match and system commands.
func (c *Command) Action() (action.Kind, bool) {
	switch c.Handler {
	case HandlerFire:
		return action.KindFire, true
	case HandlerScan:
		return action.KindScan, true
	case HandlerDiscard:
		return action.KindDiscard, true
	case HandlerSaw:
		return action.KindSaw, true
	case HandlerHeal:
		return action.KindHeal, true
	case HandlerRestrain:
		return action.KindRestrain, true
	default:
		return action.KindUnknown, false
	}
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "fire", Aliases: []string{"gun", "shoot"}, Help: "Fire the shotgun (fire [self|opponent])", Category: CategoryShotgun, Handler: HandlerFire},

		{Name: "scan", Aliases: []string{"magnifier"}, Help: "Reveal the current round", Category: CategoryItem, Handler: HandlerScan},
		{Name: "discard", Aliases: []string{"beer"}, Help: "Eject the current round", Category: CategoryItem, Handler: HandlerDiscard},
		{Name: "saw", Aliases: []string{"handsaw"}, Help: "Double the damage of the next shot", Category: CategoryItem, Handler: HandlerSaw},
		{Name: "heal", Aliases: []string{"cigarette"}, Help: "Regain 1 health", Category: CategoryItem, Handler: HandlerHeal},
		{Name: "restrain", Aliases: []string{"handcuff"}, Help: "Make the opponent skip their next turn", Category: CategoryItem, Handler: HandlerRestrain},

		{Name: "continue", Aliases: []string{"yes", "next"}, Help: "Play the next stage after a round ends", Category: CategoryMatch, Handler: HandlerContinue},
		{Name: "stop", Aliases: []string{"no"}, Help: "End the match and declare the winner", Category: CategoryMatch, Handler: HandlerStop},
		{Name: "status", Aliases: []string{"st"}, Help: "Show the table", Category: CategoryMatch, Handler: HandlerStatus},

		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Help: "Leave the table", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// Target qualifies who a Fire is aimed at.
type Target int

const (
	TargetOpponent Target = iota
	TargetSelf
)

// String returns "opponent" or "self".
func (t Target) String() string {
	if t == TargetSelf {
		return "self"
	}
	return "opponent"
}

// ParseTarget maps a qualifier word to a Target. An empty word is the opponent.
func ParseTarget(word string) (Target, error) {
	switch word {
	case "", "opponent", "other", "them", "dealer":
		return TargetOpponent, nil
	case "self", "me", "myself":
		return TargetSelf, nil
	default:
		return TargetOpponent, fmt.Errorf("unknown target %q (want self or opponent): %w", word, ErrUnknownCommand)
	}
}

// Request is a fully resolved game action.
type Request struct {
	Action action.Kind
	Target Target
}

// String renders the request as a command line, e.g. "fire self".
func (r Request) String() string {
	if r.Action == action.KindFire {
		return fmt.Sprintf("%s %s", r.Action, r.Target)
	}
	return r.Action.String()
}
