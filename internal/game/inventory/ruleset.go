package inventory

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ItemDef defines the static properties of one item kind.
type ItemDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Aliases     []string `yaml:"aliases"`
	Cap         int      `yaml:"cap"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if _, ok := ParseKind(d.ID); !ok {
		errs = append(errs, fmt.Errorf("ID must be one of scan, discard, saw, heal, restrain; got %q", d.ID))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if d.Cap < 1 {
		errs = append(errs, fmt.Errorf("Cap must be >= 1, got %d", d.Cap))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// Ruleset bounds inventories: a per-kind cap and a shared total cap.
type Ruleset struct {
	TotalCap int       `yaml:"total_cap"`
	Items    []ItemDef `yaml:"items"`

	byKind map[Kind]*ItemDef
}

// DefaultRuleset returns the standard caps: scan 1, discard 2, saw 3,
// heal 1, restrain 1, total 8.
func DefaultRuleset() *Ruleset {
	rs := &Ruleset{
		TotalCap: 8,
		Items: []ItemDef{
			{ID: "scan", Name: "Magnifier", Description: "Check the current round in the chamber.", Aliases: []string{"magnifier", "glass"}, Cap: 1},
			{ID: "discard", Name: "Beer", Description: "Rack the shotgun and eject the current round.", Aliases: []string{"beer"}, Cap: 2},
			{ID: "saw", Name: "Handsaw", Description: "Saw off the barrel; the next shot deals double damage.", Aliases: []string{"handsaw"}, Cap: 3},
			{ID: "heal", Name: "Cigarette", Description: "Smoke to regain 1 health.", Aliases: []string{"cigarette", "cig", "smoke"}, Cap: 1},
			{ID: "restrain", Name: "Handcuff", Description: "Cuff the opponent; they skip their next turn.", Aliases: []string{"handcuff", "cuff", "cuffs"}, Cap: 1},
		},
	}
	if err := rs.index(); err != nil {
		panic("inventory: DefaultRuleset invalid: " + err.Error())
	}
	return rs
}

// LoadRuleset reads a YAML ruleset file, validates it, and indexes it.
//
// Precondition: path is a readable YAML file.
// Postcondition: returns a Ruleset defining all five kinds or an error.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadRuleset: cannot read file %q: %w", path, err)
	}
	return ParseRuleset(data)
}

// ParseRuleset parses and validates a YAML ruleset document.
func ParseRuleset(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("LoadRuleset: cannot parse ruleset: %w", err)
	}
	if err := rs.index(); err != nil {
		return nil, fmt.Errorf("LoadRuleset: %w", err)
	}
	return &rs, nil
}

func (rs *Ruleset) index() error {
	var errs []string
	if rs.TotalCap < 1 {
		errs = append(errs, fmt.Sprintf("total_cap must be >= 1, got %d", rs.TotalCap))
	}
	rs.byKind = make(map[Kind]*ItemDef, len(Kinds))
	aliases := make(map[string]string)
	for i := range rs.Items {
		d := &rs.Items[i]
		if err := d.Validate(); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		k, _ := ParseKind(d.ID)
		if _, dup := rs.byKind[k]; dup {
			errs = append(errs, fmt.Sprintf("duplicate item %q", d.ID))
			continue
		}
		rs.byKind[k] = d
		for _, a := range append([]string{d.ID}, d.Aliases...) {
			a = strings.ToLower(a)
			if owner, dup := aliases[a]; dup && owner != d.ID {
				errs = append(errs, fmt.Sprintf("alias %q used by %q and %q", a, owner, d.ID))
				continue
			}
			aliases[a] = d.ID
		}
	}
	for _, k := range Kinds {
		if _, ok := rs.byKind[k]; !ok {
			errs = append(errs, fmt.Sprintf("missing item %q", k))
		}
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("invalid ruleset: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Def returns the definition for k.
//
// Precondition: k is a valid Kind.
func (rs *Ruleset) Def(k Kind) *ItemDef {
	return rs.byKind[k]
}

// Cap returns the per-kind cap for k, or 0 for an invalid kind.
func (rs *Ruleset) Cap(k Kind) int {
	if d, ok := rs.byKind[k]; ok {
		return d.Cap
	}
	return 0
}

// Name returns the display name for k.
func (rs *Ruleset) Name(k Kind) string {
	if d, ok := rs.byKind[k]; ok {
		return d.Name
	}
	return k.String()
}

// Lookup resolves an id or alias (case-insensitive) to a Kind.
func (rs *Ruleset) Lookup(word string) (Kind, bool) {
	word = strings.ToLower(word)
	for _, k := range Kinds {
		d := rs.byKind[k]
		if d.ID == word {
			return k, true
		}
		for _, a := range d.Aliases {
			if strings.ToLower(a) == word {
				return k, true
			}
		}
	}
	return KindUnknown, false
}
