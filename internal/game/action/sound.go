package action

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// PlayDigiSoundAndDie plays a sound and, once it has finished, changes scene
// and sets a flag. A target scene of script.NoSceneChange only sets the flag.
type PlayDigiSoundAndDie struct {
	Base
	Sound         script.Sound
	Target        script.SceneChange
	FlagOnTrigger flag.EventFlag
}

func (r *PlayDigiSoundAndDie) decode(sr *script.Reader) (int64, error) {
	var err error
	if r.Sound, err = script.ReadSound(sr, script.CategoryDigi); err != nil {
		return 0, err
	}
	if r.Target, err = script.ReadSceneChange(sr); err != nil {
		return 0, err
	}
	if r.FlagOnTrigger, err = script.ReadShortEventFlag(sr); err != nil {
		return 0, err
	}
	if err := sr.Skip(2); err != nil {
		return 0, err
	}
	return 0x2B, nil
}

// Execute implements Record.
func (r *PlayDigiSoundAndDie) Execute(svc *Services) {
	switch r.state {
	case Begin:
		svc.Sound.Load(&r.Sound)
		svc.Sound.Play(&r.Sound)
		r.state = Run
		fallthrough
	case Run:
		if !svc.Sound.IsPlaying(&r.Sound) {
			r.state = ActionTrigger
		}
	case ActionTrigger:
		if r.Target.SceneID != script.NoSceneChange {
			changeScene(svc, r.Target)
		}
		svc.Scene.SetEventFlag(r.FlagOnTrigger.Label, r.FlagOnTrigger.Flag)
		// Playback has ended; stopping releases the channel.
		svc.Sound.Stop(&r.Sound)
		r.finish()
	}
}

// PlaySoundMultiHS plays a sound, changes scene and sets a flag when one of
// its hotspots is clicked.
type PlaySoundMultiHS struct {
	Base
	Sound    script.Sound
	Target   script.SceneChange
	Flag     flag.EventFlag
	Hotspots hotspot.Set
}

func (r *PlaySoundMultiHS) decode(sr *script.Reader) (int64, error) {
	var err error
	if r.Sound, err = script.ReadSound(sr, script.CategoryNormal); err != nil {
		return 0, err
	}
	if r.Target, err = script.ReadSceneChange(sr); err != nil {
		return 0, err
	}
	if r.Flag, err = script.ReadShortEventFlag(sr); err != nil {
		return 0, err
	}
	if err := sr.Skip(2); err != nil {
		return 0, err
	}
	if r.Hotspots, err = script.ReadHotspots(sr); err != nil {
		return 0, err
	}
	return 0x31 + int64(len(r.Hotspots))*hotspot.DescriptorSize, nil
}

// Execute implements Record.
func (r *PlaySoundMultiHS) Execute(svc *Services) {
	switch r.state {
	case Begin:
		r.state = Run
		fallthrough
	case Run:
		r.scanHotspots(r.Hotspots, svc.Scene.CurrentFrameID())
	case ActionTrigger:
		svc.log().Debug("hotspot sound", zap.String("sound", r.Sound.Name))
		svc.Sound.Load(&r.Sound)
		svc.Sound.Play(&r.Sound)
		changeScene(svc, r.Target)
		svc.Scene.SetEventFlag(r.Flag.Label, r.Flag.Flag)
		r.finish()
	}
}
