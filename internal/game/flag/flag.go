// Package flag models event flags: labelled tri-state conditions that gate
// game content.
package flag

import "fmt"

// TriState is the stored value of an event flag or an inventory query.
// The numeric values match the game data encoding.
type TriState uint16

const (
	Unset TriState = 0
	False TriState = 1
	True  TriState = 2
)

// String returns "unset", "false", "true", or "invalid(N)".
func (s TriState) String() string {
	switch s {
	case Unset:
		return "unset"
	case False:
		return "false"
	case True:
		return "true"
	default:
		return fmt.Sprintf("invalid(%d)", uint16(s))
	}
}

// FromBool maps b to True or False.
func FromBool(b bool) TriState {
	if b {
		return True
	}
	return False
}

// NoLabel terminates condition lists and marks unused flag slots.
const NoLabel int16 = -1

// EventFlag pairs a flag label with a value.
type EventFlag struct {
	Label int16
	Flag  TriState
}

// Empty reports whether e is an unused slot.
func (e EventFlag) Empty() bool { return e.Label == NoLabel }

// Setter stores event flags.
type Setter interface {
	SetEventFlag(label int16, value TriState)
}

// MultiCount is the number of slots in a Multi descriptor.
const MultiCount = 10

// MultiSize is the encoded width of a Multi descriptor in bytes.
const MultiSize = MultiCount * 4

// Multi is a fixed group of flag assignments applied together.
type Multi [MultiCount]EventFlag

// Apply writes every non-empty slot to s in slot order.
//
// Precondition: s must not be nil.
// Postcondition: each slot whose label is not NoLabel has been set on s.
func (m Multi) Apply(s Setter) {
	for _, e := range m {
		if e.Empty() {
			continue
		}
		s.SetEventFlag(e.Label, e.Flag)
	}
}
