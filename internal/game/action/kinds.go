package action

import (
	"fmt"
	"sort"
)

// Kind is the tag that selects a record's payload layout and behavior.
type Kind uint8

const (
	KindHot1FrSceneChange             Kind = 0x0A
	KindHotMultiframeSceneChange      Kind = 0x0B
	KindSceneChange                   Kind = 0x0C
	KindHotMultiframeMultisceneChange Kind = 0x0D
	KindMapCall                       Kind = 0x15
	KindMapCallHot1Fr                 Kind = 0x16
	KindMapCallHotMultiframe          Kind = 0x17
	KindMapLocationAccess             Kind = 0x18
	KindStartFrameNextScene           Kind = 0x19
	KindStartStopPlayerScrolling      Kind = 0x1A
	KindMapSound                      Kind = 0x1B
	KindMapAviOverride                Kind = 0x1C
	KindMapAviOverrideOff             Kind = 0x1D
	KindTextBoxWrite                  Kind = 0x3C
	KindTextBoxClear                  Kind = 0x3D
	KindBumpPlayerClock               Kind = 0x5A
	KindSaveContinueGame              Kind = 0x5B
	KindTurnOffMainRendering          Kind = 0x5C
	KindTurnOnMainRendering           Kind = 0x5D
	KindResetAndStartTimer            Kind = 0x5E
	KindStopTimer                     Kind = 0x5F
	KindEventFlagsMultiHS             Kind = 0x60
	KindEventFlags                    Kind = 0x61
	KindLoseGame                      Kind = 0x63
	KindPushScene                     Kind = 0x64
	KindPopScene                      Kind = 0x65
	KindWinGame                       Kind = 0x66
	KindDifficultyLevel               Kind = 0x67
	KindAddInventoryNoHS              Kind = 0x6E
	KindRemoveInventoryNoHS           Kind = 0x6F
	KindShowInventoryItem             Kind = 0x70
	KindPlayDigiSoundAndDie           Kind = 0x78
	KindPlaySoundPanFrameAnchorAndDie Kind = 0x7A
	KindPlaySoundMultiHS              Kind = 0x7B
	KindHintSystem                    Kind = 0x96
)

type kindInfo struct {
	name string
	make func() Record
}

// opaqueWidths are the kinds kept as raw bytes of a fixed width.
var opaqueWidths = map[Kind]int{
	KindMapLocationAccess:             4,
	KindStartFrameNextScene:           4,
	KindMapSound:                      0x10,
	KindMapAviOverride:                2,
	KindBumpPlayerClock:               5,
	KindPlaySoundPanFrameAnchorAndDie: 0x20,
}

var kinds = map[Kind]kindInfo{
	KindHot1FrSceneChange:             {"Hot1FrSceneChange", func() Record { return &Hot1FrSceneChange{} }},
	KindHotMultiframeSceneChange:      {"HotMultiframeSceneChange", func() Record { return &HotMultiframeSceneChange{} }},
	KindSceneChange:                   {"SceneChange", func() Record { return &SceneChange{} }},
	KindHotMultiframeMultisceneChange: {"HotMultiframeMultisceneChange", func() Record { return &HotMultiframeMultisceneChange{} }},
	KindMapCall:                       {"MapCall", func() Record { return &MapCall{} }},
	KindMapCallHot1Fr:                 {"MapCallHot1Fr", func() Record { return &MapCallHot1Fr{} }},
	KindMapCallHotMultiframe:          {"MapCallHotMultiframe", func() Record { return &MapCallHotMultiframe{} }},
	KindMapLocationAccess:             {"MapLocationAccess", newOpaque},
	KindStartFrameNextScene:           {"StartFrameNextScene", newOpaque},
	KindStartStopPlayerScrolling:      {"StartStopPlayerScrolling", newByteRecord},
	KindMapSound:                      {"MapSound", newOpaque},
	KindMapAviOverride:                {"MapAviOverride", newOpaque},
	KindMapAviOverrideOff:             {"MapAviOverrideOff", newByteRecord},
	KindTextBoxWrite:                  {"TextBoxWrite", func() Record { return &TextBoxWrite{} }},
	KindTextBoxClear:                  {"TextBoxClear", func() Record { return &TextBoxClear{} }},
	KindBumpPlayerClock:               {"BumpPlayerClock", newOpaque},
	KindSaveContinueGame:              {"SaveContinueGame", newByteRecord},
	KindTurnOffMainRendering:          {"TurnOffMainRendering", newByteRecord},
	KindTurnOnMainRendering:           {"TurnOnMainRendering", newByteRecord},
	KindResetAndStartTimer:            {"ResetAndStartTimer", func() Record { return &ResetAndStartTimer{} }},
	KindStopTimer:                     {"StopTimer", func() Record { return &StopTimer{} }},
	KindEventFlagsMultiHS:             {"EventFlagsMultiHS", func() Record { return &EventFlagsMultiHS{} }},
	KindEventFlags:                    {"EventFlags", func() Record { return &EventFlags{} }},
	KindLoseGame:                      {"LoseGame", func() Record { return &LoseGame{} }},
	KindPushScene:                     {"PushScene", newByteRecord},
	KindPopScene:                      {"PopScene", newByteRecord},
	KindWinGame:                       {"WinGame", func() Record { return &WinGame{} }},
	KindDifficultyLevel:               {"DifficultyLevel", func() Record { return &DifficultyLevel{} }},
	KindAddInventoryNoHS:              {"AddInventoryNoHS", func() Record { return &AddInventoryNoHS{} }},
	KindRemoveInventoryNoHS:           {"RemoveInventoryNoHS", func() Record { return &RemoveInventoryNoHS{} }},
	KindShowInventoryItem:             {"ShowInventoryItem", func() Record { return &ShowInventoryItem{} }},
	KindPlayDigiSoundAndDie:           {"PlayDigiSoundAndDie", func() Record { return &PlayDigiSoundAndDie{} }},
	KindPlaySoundPanFrameAnchorAndDie: {"PlaySoundPanFrameAnchorAndDie", newOpaque},
	KindPlaySoundMultiHS:              {"PlaySoundMultiHS", func() Record { return &PlaySoundMultiHS{} }},
	KindHintSystem:                    {"HintSystem", func() Record { return &HintSystem{} }},
}

// String returns the kind's record name, or "Kind(0xNN)" if unknown.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(0x%02X)", uint8(k))
}

// Known reports whether k is a registered kind.
func (k Kind) Known() bool {
	_, ok := kinds[k]
	return ok
}

// AllKinds returns every registered kind in ascending tag order.
//
// Postcondition: Returns a new slice on each call.
func AllKinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// New returns a fresh one-shot record of kind k in the Begin state.
//
// Postcondition: Returns a non-nil Record, or an error if k is unknown.
func New(k Kind) (Record, error) {
	info, ok := kinds[k]
	if !ok {
		return nil, fmt.Errorf("unknown record kind 0x%02X", uint8(k))
	}
	rec := info.make()
	b := rec.base()
	b.kind = k
	b.execType = OneShot
	return rec, nil
}
