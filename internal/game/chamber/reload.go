package chamber

import (
	"fmt"

	"github.com/cory-johannsen/roulette/internal/game/rng"
)

// ReloadPolicy bounds the capacity of a random load.
//
// Invariant: 1 <= MinCapacity <= MaxCapacity.
type ReloadPolicy struct {
	MinCapacity int
	MaxCapacity int
}

// Validate checks the policy invariant.
func (p ReloadPolicy) Validate() error {
	if p.MinCapacity < 1 {
		return fmt.Errorf("chamber: min capacity must be >= 1, got %d", p.MinCapacity)
	}
	if p.MaxCapacity < p.MinCapacity {
		return fmt.Errorf("chamber: max capacity %d must be >= min capacity %d", p.MaxCapacity, p.MinCapacity)
	}
	return nil
}

// Draw produces a random load: capacity uniform in [MinCapacity, MaxCapacity],
// lives uniform in [1, max(1, capacity/2)], the remainder blank, then a
// uniform permutation.
//
// Precondition: p.Validate() == nil (panics otherwise).
// Postcondition: at least one Live round; a capacity of 1 yields no blanks.
func (p ReloadPolicy) Draw(src rng.Source) []Round {
	if err := p.Validate(); err != nil {
		panic(err.Error())
	}
	capacity := rng.Between(src, p.MinCapacity, p.MaxCapacity)
	maxLives := capacity / 2
	if maxLives < 1 {
		maxLives = 1
	}
	lives := rng.Between(src, 1, maxLives)

	rounds := make([]Round, capacity)
	for i := 0; i < lives; i++ {
		rounds[i] = Live
	}
	rng.Shuffle(src, len(rounds), func(i, j int) { rounds[i], rounds[j] = rounds[j], rounds[i] })
	return rounds
}
