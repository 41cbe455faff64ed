// Package scene holds the mutable game state that action records read and
// change: the current scene and frame, event flags, inventory, difficulty,
// the scene timer, hint allowance, the text box, and requests for the engine
// to leave the scene.
package scene

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// GameState is a top-level engine state.
type GameState int

const (
	// StateNone means no state; used as an empty follow-up.
	StateNone GameState = iota
	StateScene
	StateMap
	StateMainMenu
	StateCredits
)

// String returns the lower-case state name.
func (g GameState) String() string {
	switch g {
	case StateNone:
		return "none"
	case StateScene:
		return "scene"
	case StateMap:
		return "map"
	case StateMainMenu:
		return "main_menu"
	case StateCredits:
		return "credits"
	default:
		return fmt.Sprintf("game_state(%d)", int(g))
	}
}

// Difficulties is the number of difficulty levels.
const Difficulties = 3

// Initial is the state a new game starts from and ResetToInitialState
// returns to.
type Initial struct {
	Scene      script.SceneChange
	Difficulty int
	// HintsPerDifficulty is the hint allowance at each difficulty level.
	HintsPerDifficulty [Difficulties]int
}

// Validate checks that i describes a playable starting state.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (i Initial) Validate() error {
	if i.Difficulty < 0 || i.Difficulty >= Difficulties {
		return fmt.Errorf("difficulty %d out of range [0, %d)", i.Difficulty, Difficulties)
	}
	if i.Scene.SceneID == script.NoSceneChange {
		return fmt.Errorf("initial scene must not be %d", script.NoSceneChange)
	}
	for d, n := range i.HintsPerDifficulty {
		if n < 0 {
			return fmt.Errorf("hints for difficulty %d must be >= 0, got %d", d, n)
		}
	}
	return nil
}

// Request is an engine-state change asked for by a record.
type Request struct {
	Target GameState
	Then   GameState
}

// State is the scene service. Unset event flags read as flag.False.
//
// State is not safe for concurrent use; the engine serializes access.
type State struct {
	initial Initial
	logger  *zap.Logger
	now     func() time.Time

	current  script.SceneChange
	frameID  uint16
	pending  *script.SceneChange
	requests []Request

	flags      map[int16]flag.TriState
	inventory  map[uint16]struct{}
	difficulty int

	timerRunning bool
	timerStart   time.Time

	hintsRemaining [Difficulties]int
	lastHint       int16

	textBox []string

	generation uint64
}

// New creates a State positioned at initial.
//
// Precondition: initial must pass Validate; logger must be non-nil.
// Postcondition: Returns a State with the initial scene pending so that the
// engine loads it on its first tick.
func New(initial Initial, logger *zap.Logger) (*State, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s := &State{initial: initial, logger: logger, now: time.Now}
	s.ResetToInitialState()
	return s, nil
}

// SetClock replaces the time source used by the scene timer.
//
// Precondition: now must be non-nil.
func (s *State) SetClock(now func() time.Time) {
	s.now = now
}

// ChangeScene schedules sc for the engine. A later call replaces an earlier
// one within the same tick. Scene id script.NoSceneChange is ignored.
func (s *State) ChangeScene(sc script.SceneChange) {
	if sc.SceneID == script.NoSceneChange {
		return
	}
	s.logger.Debug("scene change requested",
		zap.Uint16("scene", sc.SceneID),
		zap.Uint16("frame", sc.FrameID),
	)
	pending := sc
	s.pending = &pending
}

// TakePendingSceneChange returns and clears the scheduled scene change.
func (s *State) TakePendingSceneChange() (script.SceneChange, bool) {
	if s.pending == nil {
		return script.SceneChange{}, false
	}
	sc := *s.pending
	s.pending = nil
	return sc, true
}

// EnterScene records sc as the current scene and moves to its frame.
func (s *State) EnterScene(sc script.SceneChange) {
	s.current = sc
	s.frameID = sc.FrameID
}

// CurrentScene returns the scene change the current scene was entered with.
func (s *State) CurrentScene() script.SceneChange { return s.current }

// CurrentFrameID returns the displayed frame of the current scene.
func (s *State) CurrentFrameID() uint16 { return s.frameID }

// SetFrame moves the current scene to frameID.
func (s *State) SetFrame(frameID uint16) { s.frameID = frameID }

// RequestStateChange queues a request to leave the scene for target, then
// move to then once target completes.
func (s *State) RequestStateChange(target, then GameState) {
	s.logger.Debug("engine state requested",
		zap.Stringer("target", target),
		zap.Stringer("then", then),
	)
	s.requests = append(s.requests, Request{Target: target, Then: then})
}

// TakeStateRequests returns and clears the queued state requests in the
// order they were made.
func (s *State) TakeStateRequests() []Request {
	out := s.requests
	s.requests = nil
	return out
}

// ResetToInitialState discards all progress: flags, inventory, timer, text
// box, hint allowance and queued scene changes. The initial scene becomes
// pending. Queued engine-state requests are kept so a game end can still
// leave the scene.
//
// Postcondition: every event flag reads flag.False, no item is held and
// Generation has advanced.
func (s *State) ResetToInitialState() {
	s.generation++
	s.current = script.SceneChange{SceneID: script.NoSceneChange}
	s.frameID = 0
	s.flags = make(map[int16]flag.TriState)
	s.inventory = make(map[uint16]struct{})
	s.difficulty = s.initial.Difficulty
	s.timerRunning = false
	s.timerStart = time.Time{}
	s.hintsRemaining = s.initial.HintsPerDifficulty
	s.lastHint = flag.NoLabel
	s.textBox = nil
	initial := s.initial.Scene
	s.pending = &initial
}

// Generation counts resets. Records and record sets observed under an older
// generation belong to a game that has ended.
func (s *State) Generation() uint64 { return s.generation }

// Difficulty returns the current difficulty level.
func (s *State) Difficulty() int { return s.difficulty }

// SetDifficulty changes the difficulty level. Values outside
// [0, Difficulties) are ignored with a warning.
func (s *State) SetDifficulty(d int) {
	if d < 0 || d >= Difficulties {
		s.logger.Warn("ignoring difficulty out of range", zap.Int("difficulty", d))
		return
	}
	s.difficulty = d
}

// EventFlag returns the value of label, flag.False if never set.
func (s *State) EventFlag(label int16) flag.TriState {
	if v, ok := s.flags[label]; ok && v != flag.Unset {
		return v
	}
	return flag.False
}

// SetEventFlag stores value under label. flag.NoLabel is ignored.
func (s *State) SetEventFlag(label int16, value flag.TriState) {
	if label == flag.NoLabel {
		return
	}
	s.flags[label] = value
}

// HasItem reports whether id is in the inventory.
func (s *State) HasItem(id uint16) flag.TriState {
	_, ok := s.inventory[id]
	return flag.FromBool(ok)
}

// AddItem puts id in the inventory.
func (s *State) AddItem(id uint16) { s.inventory[id] = struct{}{} }

// RemoveItem takes id out of the inventory, if held.
func (s *State) RemoveItem(id uint16) { delete(s.inventory, id) }

// Items returns the number of held items.
func (s *State) Items() int { return len(s.inventory) }

// ResetAndStartTimer restarts the scene timer from zero.
func (s *State) ResetAndStartTimer() {
	s.timerRunning = true
	s.timerStart = s.now()
}

// StopTimer stops the scene timer.
func (s *State) StopTimer() {
	s.timerRunning = false
}

// TimerElapsed returns the running time of the scene timer, zero when
// stopped.
func (s *State) TimerElapsed() time.Duration {
	if !s.timerRunning {
		return 0
	}
	return s.now().Sub(s.timerStart)
}

// HintsRemaining returns the hint allowance at the current difficulty.
func (s *State) HintsRemaining() int {
	return s.hintsRemaining[s.difficulty]
}

// ConsumeHint charges weight against the current difficulty's allowance
// unless id was the last hint consumed. The allowance does not go below
// zero.
func (s *State) ConsumeHint(id, weight int16) {
	if id == s.lastHint {
		return
	}
	s.lastHint = id
	remaining := s.hintsRemaining[s.difficulty] - int(weight)
	if remaining < 0 {
		remaining = 0
	}
	s.hintsRemaining[s.difficulty] = remaining
}

// ClearTextBox empties the text box.
func (s *State) ClearTextBox() { s.textBox = nil }

// AddTextLine appends line to the text box.
func (s *State) AddTextLine(line string) { s.textBox = append(s.textBox, line) }

// TextBox returns the text box lines.
//
// Postcondition: Returns a new slice.
func (s *State) TextBox() []string {
	out := make([]string, len(s.textBox))
	copy(out, s.textBox)
	return out
}
