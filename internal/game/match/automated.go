package match

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/roulette/internal/game/action"
	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/command"
)

// Policy chooses the next request for an automated combatant.
type Policy interface {
	Decide(ctx context.Context, view View) (command.Request, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, view View) (command.Request, error)

// Decide calls f.
func (f PolicyFunc) Decide(ctx context.Context, view View) (command.Request, error) {
	return f(ctx, view)
}

// fireAtOpponent always resolves: the chamber is never empty while awaiting
// an action and firing at the opponent always ends the turn.
var fireAtOpponent = command.Request{Action: action.KindFire, Target: command.TargetOpponent}

// View returns the decision view for the combatant whose turn it is.
func (c *Controller) View() View {
	v := View{State: c.Snapshot(), Actor: c.turn}
	if c.revealedBy == c.turn {
		r := c.revealed
		v.Known = &r
	}
	return v
}

// PlayAutomated resolves actions for the automated combatant until its turn
// passes, the round ends, or ctx is done. It is a no-op when the current
// combatant is not automated.
//
// A policy error or a rejected request falls back to firing at the opponent,
// as does exceeding the configured action bound. The bound restarts whenever
// a turn ends, so a turn regained by skipping the opponent is decided by the
// policy again.
//
// Postcondition: returns ctx.Err() if the context ends the loop, nil otherwise.
func (c *Controller) PlayAutomated(ctx context.Context) error {
	taken, turn := 0, c.turnsEnded
	for ; c.automatedTurn(); taken++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.turnsEnded != turn {
			taken, turn = 0, c.turnsEnded
		}
		req := fireAtOpponent
		if taken < c.maxAuto && c.dealer != nil {
			decided, err := c.dealer.Decide(ctx, c.View())
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.logger.Warn("dealer policy failed, firing at opponent",
					zap.String("match_id", c.id),
					zap.Error(err),
				)
			} else {
				req = decided
			}
		}
		if err := c.Apply(req); err != nil {
			if errors.Is(err, chamber.ErrEmptyChamber) || req == fireAtOpponent {
				return err
			}
			c.logger.Warn("dealer request rejected, firing at opponent",
				zap.String("match_id", c.id),
				zap.String("command", req.String()),
				zap.Error(err),
			)
			if err := c.Apply(fireAtOpponent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Controller) automatedTurn() bool {
	return c.phase == PhaseAwaitingAction && c.combatants[c.turn] != nil && c.combatants[c.turn].IsAutomated()
}
