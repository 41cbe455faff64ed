// Package action implements scene action records: scripted behaviors decoded
// from scene scripts and advanced once per engine tick.
package action

import (
	"fmt"

	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// State is the position of a record in its execution cycle.
type State int

const (
	// Begin performs one-time setup and falls through to Run on the same tick.
	Begin State = iota
	// Run polls every tick until a trigger condition holds.
	Run
	// ActionTrigger applies the record's effects exactly once.
	ActionTrigger
	// Done is terminal; the owning Manager drops the record.
	Done
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Begin:
		return "begin"
	case Run:
		return "run"
	case ActionTrigger:
		return "action_trigger"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ExecType selects what finishing a record means.
type ExecType uint8

const (
	// OneShot records finish into Done.
	OneShot ExecType = 1
	// Repeating records re-arm into Begin and stay in the active set.
	Repeating ExecType = 2
)

// String returns "one_shot" or "repeating".
func (e ExecType) String() string {
	if e == Repeating {
		return "repeating"
	}
	return "one_shot"
}

// Record is one decoded action record. The set of implementations is closed
// to this package.
type Record interface {
	// Kind returns the record kind the record was decoded as.
	Kind() Kind
	// Description returns the free-text label stored with the record.
	Description() string
	// ExecType returns the record's execution mode.
	ExecType() ExecType
	// State returns the current execution state.
	State() State
	// IsDone reports whether the record has reached Done.
	IsDone() bool
	// Hotspot returns the clickable rectangle for the current frame, if any.
	Hotspot() (hotspot.Rect, bool)
	// Trigger moves a running record to ActionTrigger. It reports false and
	// leaves the record unchanged in any other state.
	Trigger() bool
	// Execute advances the record by one tick.
	Execute(svc *Services)

	decode(r *script.Reader) (int64, error)
	base() *Base
}

// Base holds the state shared by every record kind.
type Base struct {
	kind        Kind
	description string
	execType    ExecType
	state       State
	hasHotspot  bool
	hotspot     hotspot.Rect
}

func (b *Base) base() *Base { return b }

// Kind implements Record.
func (b *Base) Kind() Kind { return b.kind }

// Description implements Record.
func (b *Base) Description() string { return b.description }

// ExecType implements Record.
func (b *Base) ExecType() ExecType { return b.execType }

// State implements Record.
func (b *Base) State() State { return b.state }

// IsDone implements Record.
func (b *Base) IsDone() bool { return b.state == Done }

// Hotspot implements Record.
func (b *Base) Hotspot() (hotspot.Rect, bool) {
	return b.hotspot, b.hasHotspot
}

// Trigger implements Record.
func (b *Base) Trigger() bool {
	if b.state != Run {
		return false
	}
	b.state = ActionTrigger
	return true
}

// done ends the record regardless of its exec type.
func (b *Base) done() {
	b.state = Done
}

// finish ends a one-shot record or re-arms a repeating one.
func (b *Base) finish() {
	if b.execType == Repeating {
		b.state = Begin
		b.hasHotspot = false
		return
	}
	b.state = Done
}

// scanHotspots recomputes the active hotspot for frameID from set.
func (b *Base) scanHotspots(set hotspot.Set, frameID uint16) {
	b.hotspot, b.hasHotspot = set.ForFrame(frameID)
}

// singleHotspot activates d only while frameID is d's frame.
func (b *Base) singleHotspot(d hotspot.Descriptor, frameID uint16) {
	b.hotspot = d.Coords
	b.hasHotspot = d.FrameID == frameID
}
