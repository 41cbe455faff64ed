package action

import (
	"image"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/hint"
	"github.com/cory-johannsen/nancy/internal/game/scene"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// Scene is the scene-state service records read and mutate.
type Scene interface {
	ChangeScene(sc script.SceneChange)
	CurrentFrameID() uint16
	// RequestStateChange asks the engine to leave the scene for target, then
	// move on to then once target completes. then may be scene.StateNone.
	RequestStateChange(target, then scene.GameState)
	ResetToInitialState()
	// Generation changes whenever ResetToInitialState runs.
	Generation() uint64

	Difficulty() int
	SetDifficulty(d int)

	EventFlag(label int16) flag.TriState
	SetEventFlag(label int16, value flag.TriState)

	HasItem(id uint16) flag.TriState
	AddItem(id uint16)
	RemoveItem(id uint16)

	ResetAndStartTimer()
	StopTimer()

	HintsRemaining() int
	ConsumeHint(id, weight int16)

	ClearTextBox()
	AddTextLine(line string)
}

// Sound plays sounds keyed by descriptor identity.
type Sound interface {
	Load(s *script.Sound)
	Play(s *script.Sound)
	Stop(s *script.Sound)
	IsPlaying(s *script.Sound) bool
	StopAllInCategory(c script.SoundCategory)
}

// Images loads named images.
type Images interface {
	Load(name string) (image.Image, error)
}

// Hints picks and reads contextual hints.
type Hints interface {
	Select(characterID uint8, c hint.Conditions) uint16
	Content(characterID uint8, index uint16, difficulty int) (hint.Content, error)
}

// Services is the context passed to every Execute call.
type Services struct {
	Scene  Scene
	Sound  Sound
	Images Images
	Hints  Hints
	Logger *zap.Logger
	// PickupSound is played when an item is taken from the scene. nil = silent.
	PickupSound *script.Sound
}

func (s *Services) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// specificCategories are stopped when a game ends.
var specificCategories = []script.SoundCategory{script.CategoryNormal, script.CategoryDigi}
