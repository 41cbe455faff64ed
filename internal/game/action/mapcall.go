package action

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/scene"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// MapCall opens the travel map. It always runs as a repeating record so the
// map stays reachable after returning to the scene.
type MapCall struct {
	Base
}

func (r *MapCall) decode(sr *script.Reader) (int64, error) {
	return 1, sr.Skip(1)
}

// Execute implements Record.
func (r *MapCall) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	r.callMap(svc)
}

func (r *MapCall) callMap(svc *Services) {
	r.execType = Repeating
	svc.log().Debug("map requested", zap.String("record", r.description))
	svc.Scene.RequestStateChange(scene.StateMap, scene.StateNone)
	r.finish()
}

// MapCallHot1Fr opens the map when its single-frame hotspot is clicked.
type MapCallHot1Fr struct {
	MapCall
	HotspotDesc hotspot.Descriptor
}

func (r *MapCallHot1Fr) decode(sr *script.Reader) (int64, error) {
	d, err := script.ReadHotspot(sr)
	if err != nil {
		return 0, err
	}
	r.HotspotDesc = d
	return hotspot.DescriptorSize, nil
}

// Execute implements Record.
func (r *MapCallHot1Fr) Execute(svc *Services) {
	switch r.state {
	case Begin:
		r.state = Run
		fallthrough
	case Run:
		r.singleHotspot(r.HotspotDesc, svc.Scene.CurrentFrameID())
	case ActionTrigger:
		r.callMap(svc)
	}
}

// MapCallHotMultiframe opens the map when one of its hotspots is clicked.
type MapCallHotMultiframe struct {
	MapCall
	Hotspots hotspot.Set
}

func (r *MapCallHotMultiframe) decode(sr *script.Reader) (int64, error) {
	set, err := script.ReadHotspots(sr)
	if err != nil {
		return 0, err
	}
	r.Hotspots = set
	return 2 + int64(len(set))*hotspot.DescriptorSize, nil
}

// Execute implements Record.
func (r *MapCallHotMultiframe) Execute(svc *Services) {
	switch r.state {
	case Begin:
		r.state = Run
		fallthrough
	case Run:
		r.scanHotspots(r.Hotspots, svc.Scene.CurrentFrameID())
	case ActionTrigger:
		r.callMap(svc)
	}
}
