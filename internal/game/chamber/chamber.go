// Package chamber models the shared shotgun: an ordered sequence of live and
// blank rounds plus the damage multiplier applied to the next shot.
package chamber

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/roulette/internal/game/rng"
)

// ErrEmptyChamber is returned when a round is requested from an empty chamber.
var ErrEmptyChamber = errors.New("chamber is empty")

// Round is one chamber entry.
type Round bool

const (
	Blank Round = false
	Live  Round = true
)

// String returns "Live" or "Blank".
func (r Round) String() string {
	if r == Live {
		return "Live"
	}
	return "Blank"
}

// Counts summarizes a round sequence.
type Counts struct {
	Live  int
	Blank int
}

// Total returns Live + Blank.
func (c Counts) Total() int { return c.Live + c.Blank }

// Chamber holds the rounds of the current load.
//
// Invariant: damage >= 1.
type Chamber struct {
	rounds []Round
	damage int
	loaded Counts
}

// New returns an empty Chamber with a damage multiplier of 1.
func New() *Chamber {
	return &Chamber{damage: 1}
}

// Len returns the number of rounds left.
func (c *Chamber) Len() int { return len(c.rounds) }

// IsEmpty reports whether no rounds are left.
func (c *Chamber) IsEmpty() bool { return len(c.rounds) == 0 }

// Damage returns the current damage multiplier.
func (c *Chamber) Damage() int { return c.damage }

// Loaded returns the live/blank counts of the most recent load.
func (c *Chamber) Loaded() Counts { return c.loaded }

// Remaining returns the live/blank counts still in the chamber.
func (c *Chamber) Remaining() Counts {
	var out Counts
	for _, r := range c.rounds {
		if r == Live {
			out.Live++
		} else {
			out.Blank++
		}
	}
	return out
}

// Peek returns the front round without removing it.
//
// Postcondition: chamber state is unchanged.
func (c *Chamber) Peek() (Round, error) {
	if len(c.rounds) == 0 {
		return Blank, ErrEmptyChamber
	}
	return c.rounds[0], nil
}

// Eject removes and returns the front round.
//
// Postcondition: on success Len() decreases by one.
func (c *Chamber) Eject() (Round, error) {
	if len(c.rounds) == 0 {
		return Blank, ErrEmptyChamber
	}
	r := c.rounds[0]
	c.rounds = c.rounds[1:]
	return r, nil
}

// Load replaces the sequence with rounds, front first.
// The previous sequence is discarded.
func (c *Chamber) Load(rounds ...Round) {
	c.rounds = append([]Round(nil), rounds...)
	c.loaded = c.Remaining()
}

// Reload replaces the sequence with a fresh random load drawn by policy.
//
// Postcondition: Loaded().Live >= 1 and Loaded().Live <= max(1, Len()/2).
func (c *Chamber) Reload(policy ReloadPolicy, src rng.Source) Counts {
	c.Load(policy.Draw(src)...)
	return c.loaded
}

// DoubleDamage multiplies the damage multiplier by two. There is no ceiling.
func (c *Chamber) DoubleDamage() int {
	c.damage *= 2
	return c.damage
}

// ResetDamage sets the damage multiplier back to 1.
func (c *Chamber) ResetDamage() { c.damage = 1 }

// String returns a short summary, e.g. "3 rounds (x2)".
func (c *Chamber) String() string {
	return fmt.Sprintf("%d rounds (x%d)", len(c.rounds), c.damage)
}
