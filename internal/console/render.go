package console

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/match"
)

// Renderer formats match state as terminal text.
type Renderer struct {
	rules   *inventory.Ruleset
	palette Palette
}

// NewRenderer constructs a Renderer.
//
// Precondition: rules must not be nil.
func NewRenderer(rules *inventory.Ruleset, palette Palette) *Renderer {
	if rules == nil {
		panic("console.NewRenderer: rules must not be nil")
	}
	return &Renderer{rules: rules, palette: palette}
}

// RenderUpdate formats the message carried by an update.
func (r *Renderer) RenderUpdate(s match.State) string {
	if s.Message == "" {
		return ""
	}
	color := White
	switch {
	case strings.HasPrefix(s.Message, "BANG!"):
		color = BrightRed
	case s.Phase == match.PhaseRoundOver, s.Phase == match.PhaseConcluded:
		color = BrightYellow
	}
	return r.palette.Colorize(color, s.Message) + "\n"
}

// RenderTable formats the full table: stage, both seats, and the chamber.
func (r *Renderer) RenderTable(s match.State) string {
	if len(s.Combatants) == 0 {
		return r.palette.Colorize(Dim, "The table is empty.") + "\n"
	}
	var b strings.Builder
	b.WriteString(r.palette.Colorf(Bold, "Stage %s", s.StageLabel))
	b.WriteString(r.palette.Colorf(Dim, "  (%s)", s.Phase))
	b.WriteString("\n")
	for i, c := range s.Combatants {
		marker := "  "
		if i == s.TurnIndex && s.Phase == match.PhaseAwaitingAction {
			marker = r.palette.Colorize(Green, "> ")
		}
		fmt.Fprintf(&b, "%s%-10s %s", marker, c.Name, r.healthBar(c))
		if !c.Eligible {
			b.WriteString(r.palette.Colorize(Yellow, " [cuffed]"))
		}
		fmt.Fprintf(&b, "  items: %s\n", inventory.Describe(r.rules, c.Items))
	}
	ch := s.Chamber
	b.WriteString(r.palette.Colorf(Cyan, "Shotgun: %d left (%d Live, %d Blank), damage x%d", ch.Remaining, ch.Live, ch.Blank, ch.Damage))
	b.WriteString("\n")
	if s.Winner != nil {
		b.WriteString(r.palette.Colorf(BrightYellow, "Winner: %s", s.Winner.Name))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) healthBar(c match.CombatantState) string {
	lost := c.HealthCap - c.Health
	if lost < 0 {
		lost = 0
	}
	bar := r.palette.Colorize(Green, strings.Repeat("#", c.Health)) + r.palette.Colorize(Red, strings.Repeat(".", lost))
	return fmt.Sprintf("[%s] %d/%d", bar, c.Health, c.HealthCap)
}

// Prompt returns the input prompt for the state.
func (r *Renderer) Prompt(s match.State) string {
	switch s.Phase {
	case match.PhaseAwaitingAction:
		return fmt.Sprintf("%s> ", s.Current().Name)
	case match.PhaseRoundOver:
		return "continue or stop> "
	default:
		return "> "
	}
}
