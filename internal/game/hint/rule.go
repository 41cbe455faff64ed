// Package hint selects contextual hints from ordered rule tables and reads
// hint content from the game's positional hint data.
package hint

import (
	"github.com/cory-johannsen/nancy/internal/game/flag"
)

// Conditions exposes the game state rules are evaluated against.
type Conditions interface {
	EventFlag(label int16) flag.TriState
	HasItem(id uint16) flag.TriState
}

// Condition requires the flag or item named by Label to equal Want. A Label
// of flag.NoLabel ends the list it appears in.
type Condition struct {
	Label int16
	Want  flag.TriState
}

// Rule maps a set of conditions to the hint shown when they all hold.
type Rule struct {
	CharacterID uint8
	Flags       []Condition
	Inventory   []Condition
	HintID      uint16
}

// Satisfied reports whether every flag and inventory condition of r holds
// in c. Each list is checked in order and stops at its first failing entry
// or at a NoLabel terminator.
func (r Rule) Satisfied(c Conditions) bool {
	for _, cond := range r.Flags {
		if cond.Label == flag.NoLabel {
			break
		}
		if c.EventFlag(cond.Label) != cond.Want {
			return false
		}
	}
	for _, cond := range r.Inventory {
		if cond.Label == flag.NoLabel {
			break
		}
		if c.HasItem(uint16(cond.Label)) != cond.Want {
			return false
		}
	}
	return true
}

// Table is the ordered rule list of one game title.
type Table struct {
	Title string
	Rules []Rule
}

// DefaultHint is the hint index used when no rule is satisfied.
const DefaultHint uint16 = 0

// Select returns the hint of the first rule for characterID satisfied in c.
//
// Postcondition: Returns (hintID, true) for the first satisfied rule in
// declaration order, or (DefaultHint, false) if none is satisfied.
func (t *Table) Select(characterID uint8, c Conditions) (uint16, bool) {
	for _, r := range t.Rules {
		if r.CharacterID != characterID {
			continue
		}
		if r.Satisfied(c) {
			return r.HintID, true
		}
	}
	return DefaultHint, false
}
