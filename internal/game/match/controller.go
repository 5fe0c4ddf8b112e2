// Package match implements the match controller: it owns both combatants,
// the chamber, and the stage, resolves commands against them, and publishes
// snapshots to observers.
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roulette/internal/game/action"
	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/combatant"
	"github.com/cory-johannsen/roulette/internal/game/command"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/rng"
	"github.com/cory-johannsen/roulette/internal/game/stage"
)

var (
	// ErrNotReady is returned when an operation is invalid in the current phase.
	ErrNotReady = errors.New("match not ready")
	// ErrAlreadySetUp is returned by a second Setup without an intervening Reset.
	ErrAlreadySetUp = errors.New("match already set up")
)

// Option configures a Controller.
type Option func(*Controller)

// WithRegistry overrides the command registry used by Execute.
func WithRegistry(r *command.Registry) Option {
	return func(c *Controller) { c.registry = r }
}

// WithPolicy sets the decision policy for the automated combatant.
func WithPolicy(p Policy) Option {
	return func(c *Controller) { c.dealer = p }
}

// WithMaxAutomatedActions bounds how many actions PlayAutomated takes in
// one turn before forcing a shot at the opponent.
func WithMaxAutomatedActions(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxAuto = n
		}
	}
}

// WithDealerName names the automated combatant seated by Setup.
func WithDealerName(name string) Option {
	return func(c *Controller) { c.dealerName = name }
}

// Controller runs one match. It is single-threaded by contract: callers must
// serialize all calls.
type Controller struct {
	logger   *zap.Logger
	src      rng.Source
	rules    *inventory.Ruleset
	stages   stage.Policy
	registry *command.Registry
	dealer   Policy
	maxAuto  int

	dealerName string

	observers []Observer

	id         string
	phase      Phase
	stage      stage.Stage
	chamber    *chamber.Chamber
	combatants [2]*combatant.Combatant
	turn       int
	// turnsEnded counts resolved actions that ended a turn, including turns
	// that stay with the actor because the opponent was skipped.
	turnsEnded int
	winner     *combatant.Combatant

	// revealedBy is the index of the combatant who scanned the current front
	// round, or -1.
	revealedBy int
	revealed   chamber.Round
}

// NewController creates a Controller in PhaseNotReady.
//
// Precondition: rules, src, and logger must be non-nil.
// Postcondition: Returns a Controller or an error if stages or the item
// aliases are invalid.
func NewController(rules *inventory.Ruleset, stages stage.Policy, src rng.Source, logger *zap.Logger, opts ...Option) (*Controller, error) {
	if rules == nil || src == nil || logger == nil {
		return nil, errors.New("match: rules, src, and logger must be non-nil")
	}
	if err := stages.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		logger:     logger,
		src:        src,
		rules:      rules,
		stages:     stages,
		maxAuto:    8,
		chamber:    chamber.New(),
		stage:      stages.First(),
		revealedBy: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		reg, err := command.RegistryForRules(rules)
		if err != nil {
			return nil, fmt.Errorf("match: building command registry: %w", err)
		}
		c.registry = reg
	}
	return c, nil
}

// Attach subscribes o to state updates.
func (c *Controller) Attach(o Observer) {
	c.observers = append(c.observers, o)
}

// Detach unsubscribes o. Detaching an unknown observer is a no-op.
func (c *Controller) Detach(o Observer) {
	for i, existing := range c.observers {
		if existing == o {
			c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
			return
		}
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Registry returns the command registry used by Execute.
func (c *Controller) Registry() *command.Registry { return c.registry }

// Setup creates both combatants, loads the chamber, and deals the first items.
// An empty nameB seats an automated dealer named by WithDealerName.
//
// Postcondition: phase is PhaseAwaitingAction, or ErrAlreadySetUp is returned.
func (c *Controller) Setup(nameA, nameB string) error {
	if c.phase != PhaseNotReady {
		err := fmt.Errorf("setup called twice: %w", ErrAlreadySetUp)
		c.reject(err)
		return err
	}
	a := combatant.NewPlayer(nameA, c.rules)
	var b *combatant.Combatant
	if nameB == "" {
		b = combatant.NewDealer(c.dealerName, c.rules)
	} else {
		b = combatant.NewPlayer(nameB, c.rules)
	}
	c.combatants = [2]*combatant.Combatant{a, b}
	c.id = uuid.New().String()
	c.winner = nil

	c.logger.Info("match set up",
		zap.String("match_id", c.id),
		zap.String("first", a.Name),
		zap.String("second", b.Name),
		zap.Bool("automated", b.IsAutomated()),
	)
	msg := c.startStage(c.stages.First())
	c.notify(fmt.Sprintf("%s sits down across from %s. %s", a.Name, b.Name, msg))
	return nil
}

// Reset discards the match entirely so Setup may be called again.
func (c *Controller) Reset() {
	c.logger.Info("match reset", zap.String("match_id", c.id))
	c.combatants = [2]*combatant.Combatant{}
	c.chamber = chamber.New()
	c.stage = c.stages.First()
	c.turn = 0
	c.winner = nil
	c.id = ""
	c.revealedBy = -1
	c.phase = PhaseNotReady
	c.notify("The table is cleared.")
}

// Execute resolves a command token (with an optional target qualifier for
// fire) for the combatant whose turn it is.
//
// Postcondition: observers are notified whether or not the command was
// accepted; a rejected command leaves state unchanged and returns the error.
func (c *Controller) Execute(token string, args ...string) error {
	if c.phase != PhaseAwaitingAction {
		err := fmt.Errorf("cannot act while %s: %w", c.phase, ErrNotReady)
		c.reject(err)
		return err
	}
	req, err := c.registry.Interpret(token, args...)
	if err != nil {
		c.reject(err)
		return err
	}
	return c.Apply(req)
}

// Apply resolves an already interpreted request for the current combatant.
func (c *Controller) Apply(req command.Request) error {
	if c.phase != PhaseAwaitingAction {
		err := fmt.Errorf("cannot act while %s: %w", c.phase, ErrNotReady)
		c.reject(err)
		return err
	}
	actor := c.combatants[c.turn]
	target := c.combatants[1-c.turn]
	if req.Target == command.TargetSelf {
		target = actor
	}

	c.phase = PhaseResolving
	out, err := action.New(req.Action, actor, target, c.chamber, c.stage).Resolve()
	if err != nil {
		c.phase = PhaseAwaitingAction
		if errors.Is(err, chamber.ErrEmptyChamber) {
			c.logger.DPanic("chamber empty while awaiting action",
				zap.String("match_id", c.id),
				zap.String("actor", actor.Name),
				zap.Stringer("action", req.Action),
			)
		}
		c.reject(err)
		return err
	}

	c.logger.Debug("action resolved",
		zap.String("match_id", c.id),
		zap.String("actor", actor.Name),
		zap.String("command", req.String()),
		zap.Bool("ends_turn", out.EndsTurn),
		zap.Bool("match_over", out.MatchOver),
		zap.Int("damage", out.Damage),
	)
	c.track(out)

	msgs := []string{out.Message}
	switch {
	case out.MatchOver:
		c.phase = PhaseRoundOver
		survivor := c.survivor()
		c.logger.Info("round over",
			zap.String("match_id", c.id),
			zap.String("stage", c.stage.Label()),
			zap.String("survivor", nameOf(survivor)),
		)
		msgs = append(msgs, fmt.Sprintf("%s takes stage %s. Continue to the next stage or stop?", nameOf(survivor), c.stage.Label()))
		c.notify(strings.Join(msgs, " "))
		return nil
	case out.EndsTurn:
		if out.SkipsTargetTurn {
			c.logger.DPanic("outcome both ends the turn and keeps it",
				zap.String("match_id", c.id),
				zap.String("command", req.String()),
			)
		}
		c.turnsEnded++
		msgs = append(msgs, c.advanceTurn())
	case out.SkipsTargetTurn:
		c.logger.Debug("actor keeps the turn",
			zap.String("match_id", c.id),
			zap.String("actor", actor.Name),
		)
	}
	if c.chamber.IsEmpty() {
		msgs = append(msgs, c.reloadAndRestock())
	}
	c.phase = PhaseAwaitingAction
	c.notify(strings.Join(msgs, " "))
	return nil
}

// ContinueToNextStage advances the stage after a round ends, resetting both
// combatants and reloading the chamber.
//
// Precondition: phase is PhaseRoundOver, otherwise ErrNotReady.
func (c *Controller) ContinueToNextStage() error {
	if c.phase != PhaseRoundOver {
		err := fmt.Errorf("no round to continue from while %s: %w", c.phase, ErrNotReady)
		c.reject(err)
		return err
	}
	next := c.stages.Next(c.stage)
	c.logger.Info("stage advanced",
		zap.String("match_id", c.id),
		zap.String("stage", next.Label()),
		zap.Int("health_cap", next.HealthCap),
		zap.Int("items_per_restock", next.ItemsPerRestock),
	)
	c.notify(c.startStage(next))
	return nil
}

// StopAndDeclareWinner ends the match, recording the surviving combatant.
//
// Precondition: phase is PhaseRoundOver, otherwise ErrNotReady.
func (c *Controller) StopAndDeclareWinner() error {
	if c.phase != PhaseRoundOver {
		err := fmt.Errorf("no round to stop after while %s: %w", c.phase, ErrNotReady)
		c.reject(err)
		return err
	}
	c.winner = c.survivor()
	c.phase = PhaseConcluded
	c.logger.Info("match concluded",
		zap.String("match_id", c.id),
		zap.String("winner", nameOf(c.winner)),
		zap.String("stage", c.stage.Label()),
	)
	if c.winner == nil {
		c.notify("Nobody walks away from this table.")
		return nil
	}
	c.notify(fmt.Sprintf("%s wins the match after stage %s!", c.winner.Name, c.stage.Label()))
	return nil
}

// Snapshot returns the current state with an empty message.
func (c *Controller) Snapshot() State {
	return c.snapshot("")
}

func (c *Controller) startStage(st stage.Stage) string {
	c.stage = st
	for _, cbt := range c.combatants {
		cbt.Reset(st.HealthCap)
	}
	c.turn = 0
	c.chamber.ResetDamage()
	c.phase = PhaseAwaitingAction
	reload := c.reloadAndRestock()
	return fmt.Sprintf("Stage %s: %d health each. %s It is %s's turn.", st.Label(), st.HealthCap, reload, c.combatants[c.turn].Name)
}

// advanceTurn passes the turn, consuming a pending skip on the next combatant.
func (c *Controller) advanceTurn() string {
	next := c.combatants[1-c.turn]
	if !next.Eligible {
		next.Eligible = true
		c.logger.Debug("turn skipped",
			zap.String("match_id", c.id),
			zap.String("skipped", next.Name),
		)
		return fmt.Sprintf("%s is cuffed and skips a turn. %s goes again.", next.Name, c.combatants[c.turn].Name)
	}
	c.turn = 1 - c.turn
	return fmt.Sprintf("It is %s's turn.", next.Name)
}

func (c *Controller) reloadAndRestock() string {
	counts := c.chamber.Reload(c.stage.Reload, c.src)
	c.revealedBy = -1
	parts := []string{fmt.Sprintf("The shotgun is loaded with %d Live and %d Blank.", counts.Live, counts.Blank)}
	for _, cbt := range c.combatants {
		added := cbt.Inventory.Restock(c.stage.ItemsPerRestock, c.src)
		parts = append(parts, fmt.Sprintf("%s receives %s.", cbt.Name, inventory.Describe(c.rules, added)))
	}
	c.logger.Info("chamber reloaded",
		zap.String("match_id", c.id),
		zap.Int("live", counts.Live),
		zap.Int("blank", counts.Blank),
		zap.Int("items_per_restock", c.stage.ItemsPerRestock),
	)
	return strings.Join(parts, " ")
}

// track remembers a scanned front round until it leaves the chamber.
func (c *Controller) track(out action.Outcome) {
	switch out.Kind {
	case action.KindScan:
		c.revealedBy = c.turn
		c.revealed = *out.Round
	case action.KindFire, action.KindDiscard:
		c.revealedBy = -1
	}
}

func (c *Controller) survivor() *combatant.Combatant {
	var alive *combatant.Combatant
	for _, cbt := range c.combatants {
		if cbt.IsDead() {
			continue
		}
		if alive != nil {
			return nil
		}
		alive = cbt
	}
	return alive
}

func nameOf(c *combatant.Combatant) string {
	if c == nil {
		return "nobody"
	}
	return c.Name
}

func (c *Controller) reject(err error) {
	c.logger.Debug("command rejected",
		zap.String("match_id", c.id),
		zap.Stringer("phase", c.phase),
		zap.Error(err),
	)
	c.notify(userMessage(err))
}

// userMessage renders an error for players, capitalizing the first letter.
func userMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func (c *Controller) notify(msg string) {
	for _, o := range c.observers {
		o.OnUpdate(c.snapshot(msg))
	}
}

func (c *Controller) snapshot(msg string) State {
	s := State{
		MatchID:         c.id,
		Message:         msg,
		Stage:           c.stage.Index,
		StageLabel:      c.stage.Label(),
		Phase:           c.phase,
		TurnIndex:       c.turn,
		ItemsPerRestock: c.stage.ItemsPerRestock,
	}
	rem := c.chamber.Remaining()
	loaded := c.chamber.Loaded()
	s.Chamber = ChamberState{
		Remaining:   c.chamber.Len(),
		Live:        rem.Live,
		Blank:       rem.Blank,
		LoadedLive:  loaded.Live,
		LoadedBlank: loaded.Blank,
		Damage:      c.chamber.Damage(),
	}
	if c.combatants[0] == nil {
		return s
	}
	s.Combatants = make([]CombatantState, 0, len(c.combatants))
	for _, cbt := range c.combatants {
		cs := c.combatantState(cbt)
		s.Combatants = append(s.Combatants, cs)
		if cbt == c.winner {
			w := c.combatantState(cbt)
			s.Winner = &w
		}
	}
	return s
}

func (c *Controller) combatantState(cbt *combatant.Combatant) CombatantState {
	return CombatantState{
		ID:        cbt.ID,
		Name:      cbt.Name,
		Health:    cbt.Health,
		HealthCap: c.stage.HealthCap,
		Eligible:  cbt.Eligible,
		Automated: cbt.IsAutomated(),
		Items:     cbt.Inventory.Counts(),
	}
}
