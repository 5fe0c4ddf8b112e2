// Package stage defines difficulty tiers and the policy that scales them.
package stage

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/roulette/internal/game/chamber"
)

// Stage is one difficulty tier.
type Stage struct {
	// Index starts at 1 and increases by one per advance.
	Index int
	// HealthCap is the starting and maximum health of each combatant.
	HealthCap int
	// ItemsPerRestock is how many items each combatant is offered per restock.
	ItemsPerRestock int
	// Reload bounds the chamber capacity for loads during this stage.
	Reload chamber.ReloadPolicy
}

// Label returns the roman numeral for the stage index, e.g. "III".
func (s Stage) Label() string {
	return Roman(s.Index)
}

// Policy scales stage values. Each value starts at its base, grows by its
// step per advance, and is clamped at its max.
//
// Invariant: every scaled value is non-decreasing across advances.
type Policy struct {
	BaseHealth int
	HealthStep int
	MaxHealth  int

	BaseItems int
	ItemsStep int
	MaxItems  int

	MinRounds     int
	BaseMaxRounds int
	RoundsStep    int
	MaxRounds     int
}

// DefaultPolicy mirrors the standard table: health 2/3/4.. up to 6, items
// 2/4/6/8, chamber capacity 2..4 growing by 2 up to 8.
func DefaultPolicy() Policy {
	return Policy{
		BaseHealth: 2, HealthStep: 1, MaxHealth: 6,
		BaseItems: 2, ItemsStep: 2, MaxItems: 8,
		MinRounds: 2, BaseMaxRounds: 4, RoundsStep: 2, MaxRounds: 8,
	}
}

// Validate checks that the policy can only produce valid, non-decreasing stages.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (p Policy) Validate() error {
	var errs []string
	if p.BaseHealth < 1 {
		errs = append(errs, fmt.Sprintf("base health must be >= 1, got %d", p.BaseHealth))
	}
	if p.HealthStep < 0 {
		errs = append(errs, fmt.Sprintf("health step must be >= 0, got %d", p.HealthStep))
	}
	if p.MaxHealth < p.BaseHealth {
		errs = append(errs, fmt.Sprintf("max health %d must be >= base health %d", p.MaxHealth, p.BaseHealth))
	}
	if p.BaseItems < 0 {
		errs = append(errs, fmt.Sprintf("base items must be >= 0, got %d", p.BaseItems))
	}
	if p.ItemsStep < 0 {
		errs = append(errs, fmt.Sprintf("items step must be >= 0, got %d", p.ItemsStep))
	}
	if p.MaxItems < p.BaseItems {
		errs = append(errs, fmt.Sprintf("max items %d must be >= base items %d", p.MaxItems, p.BaseItems))
	}
	if p.MinRounds < 1 {
		errs = append(errs, fmt.Sprintf("min rounds must be >= 1, got %d", p.MinRounds))
	}
	if p.BaseMaxRounds < p.MinRounds {
		errs = append(errs, fmt.Sprintf("base max rounds %d must be >= min rounds %d", p.BaseMaxRounds, p.MinRounds))
	}
	if p.RoundsStep < 0 {
		errs = append(errs, fmt.Sprintf("rounds step must be >= 0, got %d", p.RoundsStep))
	}
	if p.MaxRounds < p.BaseMaxRounds {
		errs = append(errs, fmt.Sprintf("max rounds %d must be >= base max rounds %d", p.MaxRounds, p.BaseMaxRounds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("stage policy: %s", strings.Join(errs, "; "))
	}
	return nil
}

// At returns the stage with the given index.
//
// Precondition: index >= 1.
func (p Policy) At(index int) Stage {
	if index < 1 {
		panic(fmt.Sprintf("stage: At: index must be >= 1, got %d", index))
	}
	n := index - 1
	return Stage{
		Index:           index,
		HealthCap:       scale(p.BaseHealth, p.HealthStep, p.MaxHealth, n),
		ItemsPerRestock: scale(p.BaseItems, p.ItemsStep, p.MaxItems, n),
		Reload: chamber.ReloadPolicy{
			MinCapacity: p.MinRounds,
			MaxCapacity: scale(p.BaseMaxRounds, p.RoundsStep, p.MaxRounds, n),
		},
	}
}

// First returns stage 1.
func (p Policy) First() Stage { return p.At(1) }

// Next returns the stage after s.
func (p Policy) Next(s Stage) Stage { return p.At(s.Index + 1) }

func scale(base, step, ceiling, n int) int {
	v := base + step*n
	if v > ceiling || v < base {
		return ceiling
	}
	return v
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman renders n as a roman numeral; non-positive values render as "?".
func Roman(n int) string {
	if n <= 0 {
		return "?"
	}
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}
