package action

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// SceneChange moves to another scene on its first tick.
type SceneChange struct {
	Base
	Target script.SceneChange
}

func (r *SceneChange) decode(sr *script.Reader) (int64, error) {
	sc, err := script.ReadSceneChange(sr)
	if err != nil {
		return 0, err
	}
	r.Target = sc
	return script.SceneChangeSize, nil
}

// Execute implements Record.
func (r *SceneChange) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	changeScene(svc, r.Target)
	r.done()
}

func changeScene(svc *Services, sc script.SceneChange) {
	svc.log().Debug("scene change",
		zap.Uint16("scene", sc.SceneID),
		zap.Uint16("frame", sc.FrameID),
	)
	svc.Scene.ChangeScene(sc)
}

// HotMultiframeSceneChange changes scene when one of its per-frame hotspots
// is clicked.
type HotMultiframeSceneChange struct {
	SceneChange
	Hotspots hotspot.Set
}

func (r *HotMultiframeSceneChange) decode(sr *script.Reader) (int64, error) {
	n, err := r.SceneChange.decode(sr)
	if err != nil {
		return 0, err
	}
	if r.Hotspots, err = script.ReadHotspots(sr); err != nil {
		return 0, err
	}
	return n + 2 + int64(len(r.Hotspots))*hotspot.DescriptorSize, nil
}

// Execute implements Record.
func (r *HotMultiframeSceneChange) Execute(svc *Services) {
	switch r.state {
	case Begin:
		r.state = Run
		fallthrough
	case Run:
		r.scanHotspots(r.Hotspots, svc.Scene.CurrentFrameID())
	case ActionTrigger:
		r.SceneChange.Execute(svc)
	}
}

// Hot1FrSceneChange changes scene when its single-frame hotspot is clicked.
type Hot1FrSceneChange struct {
	SceneChange
	HotspotDesc hotspot.Descriptor
}

func (r *Hot1FrSceneChange) decode(sr *script.Reader) (int64, error) {
	if _, err := r.SceneChange.decode(sr); err != nil {
		return 0, err
	}
	d, err := script.ReadHotspot(sr)
	if err != nil {
		return 0, err
	}
	r.HotspotDesc = d
	return 0x1A, nil
}

// Execute implements Record.
func (r *Hot1FrSceneChange) Execute(svc *Services) {
	switch r.state {
	case Begin:
		r.state = Run
		fallthrough
	case Run:
		r.singleHotspot(r.HotspotDesc, svc.Scene.CurrentFrameID())
	case ActionTrigger:
		r.SceneChange.Execute(svc)
	}
}

// HotMultiframeMultisceneChange is kept as raw bytes. Its layout carries a
// hotspot count at offset 0x14 which sizes the rest of the payload.
type HotMultiframeMultisceneChange struct {
	Base
	Raw []byte
}

const multisceneHeaderSize = 0x16

func (r *HotMultiframeMultisceneChange) decode(sr *script.Reader) (int64, error) {
	header, err := sr.Bytes(multisceneHeaderSize)
	if err != nil {
		return 0, err
	}
	count := int(header[0x14]) | int(header[0x15])<<8
	rest, err := sr.Bytes(count * hotspot.DescriptorSize)
	if err != nil {
		return 0, fmt.Errorf("%d hotspots: %w", count, err)
	}
	r.Raw = append(header, rest...)
	return int64(multisceneHeaderSize + count*hotspot.DescriptorSize), nil
}

// Execute implements Record.
func (r *HotMultiframeMultisceneChange) Execute(*Services) {
	r.done()
}
