package action

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/hint"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// HintSystem shows and speaks a hint from one of the hint characters, then
// moves to the scene the hint names.
type HintSystem struct {
	Base
	CharacterID  uint8
	GenericSound script.Sound

	content hint.Content
}

func (r *HintSystem) decode(sr *script.Reader) (int64, error) {
	var err error
	if r.CharacterID, err = sr.Uint8(); err != nil {
		return 0, err
	}
	if r.GenericSound, err = script.ReadSound(sr, script.CategoryNormal); err != nil {
		return 0, err
	}
	return 0x23, nil
}

// Content returns the hint resolved in Begin.
func (r *HintSystem) Content() hint.Content { return r.content }

// Execute implements Record.
func (r *HintSystem) Execute(svc *Services) {
	switch r.state {
	case Begin:
		difficulty := svc.Scene.Difficulty()
		index := hint.DefaultHint
		if svc.Scene.HintsRemaining() > 0 {
			index = svc.Hints.Select(r.CharacterID, svc.Scene)
		}
		c, err := svc.Hints.Content(r.CharacterID, index, difficulty)
		if err != nil {
			svc.log().Warn("hint unavailable",
				zap.Uint8("character", r.CharacterID),
				zap.Uint16("hint", index),
				zap.Int("difficulty", difficulty),
				zap.Error(err),
			)
			r.done()
			return
		}
		r.content = c
		r.GenericSound.Name = c.SoundName

		svc.Scene.ClearTextBox()
		svc.Scene.AddTextLine(c.Text)
		svc.Sound.Load(&r.GenericSound)
		svc.Sound.Play(&r.GenericSound)
		r.state = Run
		fallthrough
	case Run:
		if svc.Sound.IsPlaying(&r.GenericSound) {
			return
		}
		svc.Sound.Stop(&r.GenericSound)
		r.state = ActionTrigger
		fallthrough
	case ActionTrigger:
		svc.Scene.ConsumeHint(r.content.ID, r.content.Weight)
		svc.Scene.ClearTextBox()
		changeScene(svc, r.content.SceneChange)
		r.done()
	}
}
