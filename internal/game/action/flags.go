package action

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// EventFlags applies a group of flag assignments on its first tick.
type EventFlags struct {
	Base
	Flags flag.Multi
}

func (r *EventFlags) decode(sr *script.Reader) (int64, error) {
	m, err := script.ReadMultiFlag(sr)
	if err != nil {
		return 0, err
	}
	r.Flags = m
	return flag.MultiSize, nil
}

// Execute implements Record.
func (r *EventFlags) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	r.Flags.Apply(svc.Scene)
	r.done()
}

// EventFlagsMultiHS applies its flag group when one of its hotspots is
// clicked.
type EventFlagsMultiHS struct {
	EventFlags
	Hotspots hotspot.Set
}

func (r *EventFlagsMultiHS) decode(sr *script.Reader) (int64, error) {
	n, err := r.EventFlags.decode(sr)
	if err != nil {
		return 0, err
	}
	if r.Hotspots, err = script.ReadHotspots(sr); err != nil {
		return 0, err
	}
	return n + 2 + int64(len(r.Hotspots))*hotspot.DescriptorSize, nil
}

// Execute implements Record.
func (r *EventFlagsMultiHS) Execute(svc *Services) {
	switch r.state {
	case Begin:
		r.state = Run
		fallthrough
	case Run:
		r.scanHotspots(r.Hotspots, svc.Scene.CurrentFrameID())
	case ActionTrigger:
		r.hasHotspot = false
		r.Flags.Apply(svc.Scene)
		r.finish()
	}
}

// DifficultyLevel sets the game difficulty and one event flag.
type DifficultyLevel struct {
	Base
	Difficulty uint16
	Flag       flag.EventFlag
}

func (r *DifficultyLevel) decode(sr *script.Reader) (int64, error) {
	var err error
	if r.Difficulty, err = sr.Uint16(); err != nil {
		return 0, err
	}
	if r.Flag, err = script.ReadEventFlag(sr); err != nil {
		return 0, err
	}
	return 6, nil
}

// Execute implements Record.
func (r *DifficultyLevel) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	svc.log().Debug("difficulty set", zap.Uint16("difficulty", r.Difficulty))
	svc.Scene.SetDifficulty(int(r.Difficulty))
	svc.Scene.SetEventFlag(r.Flag.Label, r.Flag.Flag)
	r.done()
}
