package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/roulette/internal/game/rng"
)

// ErrInsufficientItems is returned when consuming a kind whose count is zero.
var ErrInsufficientItems = errors.New("insufficient items")

// Inventory holds item counts for one combatant.
//
// Invariant: 0 <= counts[k] <= rules.Cap(k) and Total() <= rules.TotalCap.
type Inventory struct {
	rules  *Ruleset
	counts map[Kind]int
}

// New returns an empty Inventory bounded by rules.
//
// Precondition: rules must be non-nil.
func New(rules *Ruleset) *Inventory {
	if rules == nil {
		panic("inventory: New: rules must not be nil")
	}
	return &Inventory{rules: rules, counts: make(map[Kind]int, len(Kinds))}
}

// Rules returns the ruleset bounding this inventory.
func (inv *Inventory) Rules() *Ruleset { return inv.rules }

// Count returns the number of k held.
func (inv *Inventory) Count(k Kind) int { return inv.counts[k] }

// Has reports whether at least one k is held.
func (inv *Inventory) Has(k Kind) bool { return inv.counts[k] > 0 }

// Total returns the number of items held across all kinds.
func (inv *Inventory) Total() int {
	total := 0
	for _, n := range inv.counts {
		total += n
	}
	return total
}

// IsFull reports whether the total cap has been reached.
func (inv *Inventory) IsFull() bool { return inv.Total() >= inv.rules.TotalCap }

// Counts returns a copy of the non-zero counts.
func (inv *Inventory) Counts() map[Kind]int {
	out := make(map[Kind]int, len(inv.counts))
	for k, n := range inv.counts {
		if n > 0 {
			out[k] = n
		}
	}
	return out
}

// Consume removes one k.
//
// Postcondition: on error the inventory is unchanged.
func (inv *Inventory) Consume(k Kind) error {
	if !inv.Has(k) {
		return fmt.Errorf("no %s left: %w", strings.ToLower(inv.rules.Name(k)), ErrInsufficientItems)
	}
	inv.counts[k]--
	return nil
}

// Add places n items of kind k, failing without mutation if the kind's cap
// or the total cap would be exceeded.
//
// Precondition: n >= 0.
func (inv *Inventory) Add(k Kind, n int) error {
	if _, ok := inv.rules.byKind[k]; !ok {
		return fmt.Errorf("inventory: unknown item kind %d", int(k))
	}
	if inv.counts[k]+n > inv.rules.Cap(k) {
		return fmt.Errorf("inventory: adding %d %s would exceed cap %d", n, inv.rules.Name(k), inv.rules.Cap(k))
	}
	if inv.Total()+n > inv.rules.TotalCap {
		return fmt.Errorf("inventory: adding %d %s would exceed total cap %d", n, inv.rules.Name(k), inv.rules.TotalCap)
	}
	inv.counts[k] += n
	return nil
}

// Restock adds up to n items, each drawn uniformly from the kinds still
// below their cap, stopping early once nothing is eligible or the total cap
// is reached. Adding fewer than n items is not an error.
//
// Postcondition: the returned map holds exactly the additions made.
func (inv *Inventory) Restock(n int, src rng.Source) map[Kind]int {
	added := make(map[Kind]int)
	for i := 0; i < n; i++ {
		if inv.IsFull() {
			break
		}
		eligible := make([]Kind, 0, len(Kinds))
		for _, k := range Kinds {
			if inv.counts[k] < inv.rules.Cap(k) {
				eligible = append(eligible, k)
			}
		}
		if len(eligible) == 0 {
			break
		}
		k := eligible[src.Intn(len(eligible))]
		inv.counts[k]++
		added[k]++
	}
	return added
}

// Clear removes every item.
func (inv *Inventory) Clear() {
	inv.counts = make(map[Kind]int, len(Kinds))
}

// Describe renders counts as "2 Beer, 1 Handsaw" in kind order, or "nothing".
func Describe(rules *Ruleset, counts map[Kind]int) string {
	keys := make([]Kind, 0, len(counts))
	for k, n := range counts {
		if n > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "nothing"
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], rules.Name(k)))
	}
	return strings.Join(parts, ", ")
}
