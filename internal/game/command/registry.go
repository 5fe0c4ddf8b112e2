package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/roulette/internal/game/action"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
)

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd

		for _, alias := range cmd.Aliases {
			if err := r.addAlias(alias, cmd.Name); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

func (r *Registry) addAlias(alias, canonical string) error {
	if _, exists := r.commands[alias]; exists {
		if alias == canonical {
			return nil
		}
		return fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
	}
	if existing, exists := r.aliases[alias]; exists {
		if existing == canonical {
			return nil
		}
		return fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, canonical)
	}
	r.aliases[alias] = canonical
	return nil
}

// DefaultRegistry creates a Registry with all built-in commands.
//
// Postcondition: Returns a Registry with all built-in commands registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// RegistryForRules creates the built-in Registry extended with every item
// alias declared by rules, so renamed items stay addressable.
//
// Postcondition: Returns a Registry or an error if an item alias collides
// with a different command.
func RegistryForRules(rules *inventory.Ruleset) (*Registry, error) {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		return nil, err
	}
	for _, k := range inventory.Kinds {
		canonical := action.ForItem(k).String()
		def := rules.Def(k)
		words := append([]string{strings.ToLower(def.Name)}, def.Aliases...)
		for _, w := range words {
			if err := r.addAlias(strings.ToLower(w), canonical); err != nil {
				return nil, fmt.Errorf("item %q: %w", def.ID, err)
			}
		}
	}
	return r, nil
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(input string) (*Command, bool) {
	if cmd, ok := r.commands[input]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// CommandsByCategory returns commands grouped by category.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}

// Help renders one line per command, grouped in category order.
func (r *Registry) Help() string {
	var b strings.Builder
	byCat := r.CommandsByCategory()
	for _, cat := range []string{CategoryShotgun, CategoryItem, CategoryMatch, CategorySystem} {
		for _, cmd := range byCat[cat] {
			fmt.Fprintf(&b, "  %-10s %s", cmd.Name, cmd.Help)
			if len(cmd.Aliases) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(cmd.Aliases, ", "))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
