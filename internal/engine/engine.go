// Package engine drives a loaded scene: it decodes the scene script, advances
// its records once per tick and applies the scene and engine-state changes
// they ask for.
package engine

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/action"
	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/scene"
	"github.com/cory-johannsen/nancy/internal/game/script"
	"github.com/cory-johannsen/nancy/internal/observability"
)

// Mixer is the sound service plus the per-tick advancement the engine owns.
type Mixer interface {
	action.Sound
	SamplesPer(d time.Duration) int
	Advance(n int)
}

// Options configures an Engine.
type Options struct {
	// Scripts holds the scene scripts, named S<id>.ar.
	Scripts fs.FS
	// TickInterval is the simulated time one Tick covers.
	TickInterval time.Duration
	// PickupSound is played when an item is taken. nil = silent.
	PickupSound *script.Sound
}

// Engine owns the scene state and the active record set.
//
// Engine is safe for concurrent use: Tick, HandleClick and Resume are
// serialized.
type Engine struct {
	mu sync.Mutex

	scripts fs.FS
	tick    time.Duration
	state   *scene.State
	mixer   Mixer
	svc     *action.Services
	records *action.Manager
	// loadedGen is the scene state generation the records were loaded under.
	loadedGen uint64

	mode     scene.GameState
	followUp scene.GameState

	logger *zap.Logger
}

// New creates an Engine in the Scene state with no scene loaded. The first
// Tick loads the initial scene pending on state.
//
// Precondition: opts.Scripts must be non-nil; opts.TickInterval must be > 0;
// state, mixer, images, hints and logger must be non-nil.
func New(opts Options, state *scene.State, mixer Mixer, images action.Images, hints action.Hints, logger *zap.Logger) *Engine {
	if opts.TickInterval <= 0 {
		panic("engine.New: tick interval must be > 0")
	}
	return &Engine{
		scripts: opts.Scripts,
		tick:    opts.TickInterval,
		state:   state,
		mixer:   mixer,
		svc: &action.Services{
			Scene:       state,
			Sound:       mixer,
			Images:      images,
			Hints:       hints,
			Logger:      logger,
			PickupSound: opts.PickupSound,
		},
		mode:     scene.StateScene,
		followUp: scene.StateNone,
		logger:   logger,
	}
}

// ScriptName returns the file name of scene id's script.
func ScriptName(id uint16) string {
	return fmt.Sprintf("S%d.ar", id)
}

// LoadScene decodes scene id's script and replaces the active record set.
// The previous records are discarded without being executed again.
//
// Postcondition: on error the active record set is unchanged.
func (e *Engine) LoadScene(id uint16) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadScene(id)
}

func (e *Engine) loadScene(id uint16) error {
	logger, _ := observability.SceneLogger(e.logger, id)
	name := ScriptName(id)

	f, err := e.scripts.Open(name)
	if err != nil {
		return fmt.Errorf("opening scene %d script %s: %w", id, name, err)
	}
	defer f.Close()

	start := time.Now()
	records, err := action.DecodeStream(f)
	if err != nil {
		logger.Error("decoding scene script failed", zap.String("file", name), zap.Error(err))
		return fmt.Errorf("loading scene %d: %w", id, err)
	}

	e.records = action.NewManager(records, logger)
	e.loadedGen = e.state.Generation()
	e.svc.Logger = logger
	logger.Info("scene loaded",
		zap.String("file", name),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Tick advances the game by one interval. In the Scene state every active
// record executes once in order; if that resets the game, the record set is
// discarded. The mixer always advances. Queued engine
// state requests are then applied; if the engine is still in the Scene
// state a pending scene change is entered and its script loaded.
//
// Postcondition: Returns the scene load error, if any.
func (e *Engine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == scene.StateScene && e.records != nil {
		e.records.Process(e.svc)
	}
	e.discardIfReset()
	e.mixer.Advance(e.mixer.SamplesPer(e.tick))

	for _, req := range e.state.TakeStateRequests() {
		e.logger.Debug("engine state changed",
			zap.Stringer("from", e.mode),
			zap.Stringer("to", req.Target),
			zap.Stringer("then", req.Then),
		)
		e.mode = req.Target
		e.followUp = req.Then
	}

	if e.mode != scene.StateScene {
		return nil
	}
	sc, ok := e.state.TakePendingSceneChange()
	if !ok {
		return nil
	}
	e.logger.Debug("entering scene",
		zap.Uint16("scene", sc.SceneID),
		zap.Uint16("frame", sc.FrameID),
	)
	e.state.EnterScene(sc)
	return e.loadScene(sc.SceneID)
}

// discardIfReset drops records loaded before the last game reset.
func (e *Engine) discardIfReset() {
	if e.records == nil || e.state.Generation() == e.loadedGen {
		return
	}
	e.logger.Info("game reset, scene records discarded", zap.Int("records", e.records.Len()))
	e.records = nil
}

// Resume ends the current non-scene state. A queued follow-up state is
// entered first; without one the engine returns to the Scene state.
//
// Postcondition: Returns the state the engine is now in.
func (e *Engine) Resume() scene.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := scene.StateScene
	if e.followUp != scene.StateNone {
		next = e.followUp
	}
	e.logger.Debug("engine state resumed",
		zap.Stringer("from", e.mode),
		zap.Stringer("to", next),
	)
	e.mode = next
	e.followUp = scene.StateNone
	return next
}

// HandleClick dispatches a click to the active records.
//
// Postcondition: Returns true if a record was triggered.
func (e *Engine) HandleClick(x, y int32) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != scene.StateScene || e.records == nil {
		return false
	}
	return e.records.HandleClick(x, y) != nil
}

// Mode returns the engine state.
func (e *Engine) Mode() scene.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// ActiveRecords returns the number of records in the loaded scene.
func (e *Engine) ActiveRecords() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.records == nil {
		return 0
	}
	return e.records.Len()
}

// Overlay is an image a record is showing, with its placement.
type Overlay struct {
	Image image.Image
	Src   image.Rectangle
	Dest  image.Rectangle
}

// Overlays returns the images the loaded scene is currently showing.
func (e *Engine) Overlays() []Overlay {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.records == nil {
		return nil
	}
	var out []Overlay
	for _, d := range e.records.Drawables() {
		src, dest := d.Placement()
		out = append(out, Overlay{Image: d.Image(), Src: rectangle(src), Dest: rectangle(dest)})
	}
	return out
}

func rectangle(r hotspot.Rect) image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

// Run ticks the engine every TickInterval until ctx is done or a tick
// fails.
//
// Postcondition: Returns nil when ctx ends, or the failing tick's error.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := e.Tick(); err != nil {
				e.logger.Error("tick failed", zap.Error(err))
				return err
			}
		}
	}
}
