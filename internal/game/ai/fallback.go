package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/roulette/internal/game/action"
	"github.com/cory-johannsen/roulette/internal/game/command"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/match"
)

// Rule is one ordered decision. The first rule whose When holds is taken.
type Rule struct {
	ID   string
	When func(ts *TableState) bool
	Then command.Request
}

var (
	fireOpponent = command.Request{Action: action.KindFire, Target: command.TargetOpponent}
	fireSelf     = command.Request{Action: action.KindFire, Target: command.TargetSelf}
)

// DefaultRules returns the dealer's standard priorities.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:   "saw-certain-live",
			When: func(ts *TableState) bool { return ts.LiveOdds() == 1 && ts.Me.Has(inventory.KindSaw) && ts.Damage == 1 },
			Then: command.Request{Action: action.KindSaw},
		},
		{
			ID:   "shoot-certain-live",
			When: func(ts *TableState) bool { return ts.LiveOdds() == 1 },
			Then: fireOpponent,
		},
		{
			ID:   "shoot-self-certain-blank",
			When: func(ts *TableState) bool { return ts.LiveOdds() == 0 },
			Then: fireSelf,
		},
		{
			ID:   "heal-when-wounded",
			When: func(ts *TableState) bool { return ts.Me.Wounded() && ts.Me.Has(inventory.KindHeal) },
			Then: command.Request{Action: action.KindHeal},
		},
		{
			ID:   "scan-unknown",
			When: func(ts *TableState) bool { return ts.Known == nil && ts.Me.Has(inventory.KindScan) },
			Then: command.Request{Action: action.KindScan},
		},
		{
			ID: "restrain-opponent",
			When: func(ts *TableState) bool {
				return ts.Opponent.Eligible && ts.Me.Has(inventory.KindRestrain) && ts.Remaining >= 2
			},
			Then: command.Request{Action: action.KindRestrain},
		},
		{
			ID:   "discard-unfavorable",
			When: func(ts *TableState) bool { return ts.LiveOdds() < 0.5 && ts.Me.Has(inventory.KindDiscard) },
			Then: command.Request{Action: action.KindDiscard},
		},
		{
			ID:   "shoot-self-likely-blank",
			When: func(ts *TableState) bool { return ts.LiveOdds() < 0.5 },
			Then: fireSelf,
		},
	}
}

// Fallback decides by walking an ordered rule list; when no rule applies it
// fires at the opponent. It never returns an error.
type Fallback struct {
	rules  []Rule
	logger *zap.Logger
}

// NewFallback constructs a Fallback. A nil rules uses DefaultRules.
//
// Precondition: logger must be non-nil.
func NewFallback(logger *zap.Logger, rules []Rule) *Fallback {
	if logger == nil {
		panic("ai.NewFallback: logger must not be nil")
	}
	if rules == nil {
		rules = DefaultRules()
	}
	return &Fallback{rules: rules, logger: logger}
}

// Decide implements match.Policy.
func (f *Fallback) Decide(_ context.Context, v match.View) (command.Request, error) {
	return f.Choose(BuildTableState(v)), nil
}

// Choose returns the request of the first applicable rule.
func (f *Fallback) Choose(ts *TableState) command.Request {
	for _, r := range f.rules {
		if r.When(ts) {
			f.logger.Debug("dealer rule applied", zap.String("rule", r.ID), zap.String("command", r.Then.String()))
			return r.Then
		}
	}
	return fireOpponent
}
