package action_test

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/nancy/internal/game/action"
	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/scene"
	"github.com/cory-johannsen/nancy/internal/game/script"
	"github.com/cory-johannsen/nancy/internal/testutil"
)

func TestState_String(t *testing.T) {
	assert.Equal(t, "begin", action.Begin.String())
	assert.Equal(t, "run", action.Run.String())
	assert.Equal(t, "action_trigger", action.ActionTrigger.String())
	assert.Equal(t, "done", action.Done.String())
	assert.Equal(t, "one_shot", action.OneShot.String())
	assert.Equal(t, "repeating", action.Repeating.String())
}

func TestImmediateKinds_CompleteOnFirstTick(t *testing.T) {
	ps := payloads()
	hotspotted := map[action.Kind]bool{
		action.KindHot1FrSceneChange:        true,
		action.KindHotMultiframeSceneChange: true,
		action.KindMapCall:                  true,
		action.KindMapCallHot1Fr:            true,
		action.KindMapCallHotMultiframe:     true,
		action.KindEventFlagsMultiHS:        true,
		action.KindShowInventoryItem:        true,
		action.KindPlayDigiSoundAndDie:      true,
		action.KindPlaySoundMultiHS:         true,
		action.KindHintSystem:               true,
	}
	for _, k := range action.AllKinds() {
		if hotspotted[k] {
			continue
		}
		h := newHarness(t)
		rec := decodeOne(t, k, ps[k])
		rec.Execute(h.svc)
		assert.True(t, rec.IsDone(), "kind %s", k)
	}
}

func TestHotspotKinds_BeginFallsThroughToRun(t *testing.T) {
	ps := payloads()
	for _, k := range []action.Kind{
		action.KindHot1FrSceneChange,
		action.KindHotMultiframeSceneChange,
		action.KindMapCallHot1Fr,
		action.KindMapCallHotMultiframe,
		action.KindEventFlagsMultiHS,
		action.KindPlaySoundMultiHS,
	} {
		h := newHarness(t)
		h.scene.SetFrame(0)
		rec := decodeOne(t, k, ps[k])
		rec.Execute(h.svc)
		assert.Equal(t, action.Run, rec.State(), "kind %s", k)
		rect, ok := rec.Hotspot()
		assert.True(t, ok, "kind %s", k)
		assert.Equal(t, hotspot.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}, rect, "kind %s", k)

		rec.Execute(h.svc)
		assert.Equal(t, action.Run, rec.State(), "kind %s stays running without a click", k)
	}
}

func TestTrigger_OnlyFromRun(t *testing.T) {
	h := newHarness(t)
	rec := decodeOne(t, action.KindHotMultiframeSceneChange, payloads()[action.KindHotMultiframeSceneChange])
	assert.False(t, rec.Trigger())
	assert.Equal(t, action.Begin, rec.State())

	rec.Execute(h.svc)
	require.True(t, rec.Trigger())
	assert.Equal(t, action.ActionTrigger, rec.State())
	assert.False(t, rec.Trigger())

	rec.Execute(h.svc)
	assert.True(t, rec.IsDone())
	require.Len(t, h.scene.changes, 1)
	assert.Equal(t, uint16(20), h.scene.changes[0].SceneID)
}

func TestHotMultiframe_LastDeclaredHotspotWins(t *testing.T) {
	h := newHarness(t)
	set := hotspot.Set{hs(2, 0, 0, 5, 5), hs(3, 0, 0, 1, 1), hs(2, 10, 10, 20, 20)}
	p := testutil.NewBuilder().SceneChange(script.SceneChange{SceneID: 9}).Hotspots(set).Bytes()
	rec := decodeOne(t, action.KindHotMultiframeSceneChange, p)

	h.scene.SetFrame(2)
	rec.Execute(h.svc)
	rect, ok := rec.Hotspot()
	require.True(t, ok)
	assert.Equal(t, set[2].Coords, rect)

	h.scene.SetFrame(4)
	rec.Execute(h.svc)
	_, ok = rec.Hotspot()
	assert.False(t, ok)
}

func TestSingleFrameHotspot_OnlyOnItsFrame(t *testing.T) {
	h := newHarness(t)
	p := testutil.NewBuilder().Hotspot(hs(6, 1, 1, 4, 4)).Bytes()
	rec := decodeOne(t, action.KindMapCallHot1Fr, p)

	h.scene.SetFrame(5)
	rec.Execute(h.svc)
	_, ok := rec.Hotspot()
	assert.False(t, ok)

	h.scene.SetFrame(6)
	rec.Execute(h.svc)
	_, ok = rec.Hotspot()
	assert.True(t, ok)
}

func TestMapCall_RepeatsAndRequestsMap(t *testing.T) {
	h := newHarness(t)
	rec := decodeOne(t, action.KindMapCall, payloads()[action.KindMapCall])

	rec.Execute(h.svc)
	assert.Equal(t, action.Repeating, rec.ExecType())
	assert.Equal(t, action.Begin, rec.State())
	assert.False(t, rec.IsDone())

	rec.Execute(h.svc)
	reqs := h.scene.TakeStateRequests()
	require.Len(t, reqs, 2)
	assert.Equal(t, scene.Request{Target: scene.StateMap, Then: scene.StateNone}, reqs[0])
}

func TestEventFlags_AppliesNonEmptySlots(t *testing.T) {
	h := newHarness(t)
	m := testutil.EmptyMulti()
	m[0] = flag.EventFlag{Label: 10, Flag: flag.True}
	m[4] = flag.EventFlag{Label: 11, Flag: flag.True}
	rec := decodeOne(t, action.KindEventFlags, testutil.NewBuilder().MultiFlag(m).Bytes())

	rec.Execute(h.svc)
	assert.True(t, rec.IsDone())
	assert.Equal(t, flag.True, h.scene.EventFlag(10))
	assert.Equal(t, flag.True, h.scene.EventFlag(11))
	assert.Equal(t, flag.False, h.scene.EventFlag(12))
}

func TestEventFlagsMultiHS_RepeatingReArms(t *testing.T) {
	h := newHarness(t)
	m := testutil.EmptyMulti()
	m[0] = flag.EventFlag{Label: 30, Flag: flag.True}
	b := testutil.NewBuilder()
	entry(b, "door", action.KindEventFlagsMultiHS, action.Repeating).
		MultiFlag(m).Hotspots(hotspot.Set{hs(0, 0, 0, 10, 10)})
	recs, err := action.DecodeStream(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	rec := recs[0]

	rec.Execute(h.svc)
	require.True(t, rec.Trigger())
	rec.Execute(h.svc)

	assert.Equal(t, flag.True, h.scene.EventFlag(30))
	assert.Equal(t, action.Begin, rec.State())
	_, ok := rec.Hotspot()
	assert.False(t, ok)

	rec.Execute(h.svc)
	assert.Equal(t, action.Run, rec.State())
}

func TestDifficultyLevel(t *testing.T) {
	h := newHarness(t)
	rec := decodeOne(t, action.KindDifficultyLevel, payloads()[action.KindDifficultyLevel])
	rec.Execute(h.svc)
	assert.True(t, rec.IsDone())
	assert.Equal(t, 1, h.scene.Difficulty())
	assert.Equal(t, flag.True, h.scene.EventFlag(3))
}

func TestAddInventoryNoHS_Idempotent(t *testing.T) {
	h := newHarness(t)
	h.scene.AddItem(4)
	rec := decodeOne(t, action.KindAddInventoryNoHS, payloads()[action.KindAddInventoryNoHS])
	rec.Execute(h.svc)
	assert.True(t, rec.IsDone())
	assert.Equal(t, flag.True, h.scene.HasItem(4))
	assert.Equal(t, 1, h.scene.Items())
}

func TestRemoveInventoryNoHS(t *testing.T) {
	h := newHarness(t)
	h.scene.AddItem(4)
	rec := decodeOne(t, action.KindRemoveInventoryNoHS, payloads()[action.KindRemoveInventoryNoHS])
	rec.Execute(h.svc)
	assert.Equal(t, flag.False, h.scene.HasItem(4))
}

func TestTimerRecords(t *testing.T) {
	h := newHarness(t)
	start := decodeOne(t, action.KindResetAndStartTimer, payloads()[action.KindResetAndStartTimer])
	start.Execute(h.svc)
	assert.True(t, start.IsDone())
	stop := decodeOne(t, action.KindStopTimer, payloads()[action.KindStopTimer])
	stop.Execute(h.svc)
	assert.True(t, stop.IsDone())
	assert.Zero(t, h.scene.TimerElapsed())
}

func TestTextBoxClear(t *testing.T) {
	h := newHarness(t)
	h.scene.AddTextLine("old")
	rec := decodeOne(t, action.KindTextBoxClear, payloads()[action.KindTextBoxClear])
	rec.Execute(h.svc)
	assert.Empty(t, h.scene.TextBox())
}

func TestWinGame_AppliedOnce(t *testing.T) {
	h := newHarness(t)
	h.scene.SetEventFlag(5, flag.True)
	rec := decodeOne(t, action.KindWinGame, payloads()[action.KindWinGame])

	rec.Execute(h.svc)
	rec.Execute(h.svc)

	assert.True(t, rec.IsDone())
	assert.Equal(t, 1, h.scene.resets)
	assert.Equal(t, []script.SoundCategory{script.CategoryNormal, script.CategoryDigi}, h.sound.stops)
	assert.Equal(t, []scene.Request{{Target: scene.StateCredits, Then: scene.StateMainMenu}}, h.scene.TakeStateRequests())
	assert.Equal(t, flag.False, h.scene.EventFlag(5))
}

func TestLoseGame(t *testing.T) {
	h := newHarness(t)
	rec := decodeOne(t, action.KindLoseGame, payloads()[action.KindLoseGame])
	rec.Execute(h.svc)
	assert.Equal(t, []scene.Request{{Target: scene.StateMainMenu, Then: scene.StateNone}}, h.scene.TakeStateRequests())
	assert.Equal(t, 1, h.scene.resets)
}

func TestPlayDigiSoundAndDie_WaitsForSound(t *testing.T) {
	h := newHarness(t)
	rec := decodeOne(t, action.KindPlayDigiSoundAndDie, payloads()[action.KindPlayDigiSoundAndDie])

	rec.Execute(h.svc)
	assert.Equal(t, action.Run, rec.State())
	assert.Equal(t, []string{"DIGI"}, h.sound.played)

	rec.Execute(h.svc)
	assert.Equal(t, action.Run, rec.State())

	h.sound.finishAll()
	rec.Execute(h.svc)
	assert.Equal(t, action.ActionTrigger, rec.State())
	rec.Execute(h.svc)

	assert.True(t, rec.IsDone())
	require.Len(t, h.scene.changes, 1)
	assert.Equal(t, uint16(20), h.scene.changes[0].SceneID)
	assert.Equal(t, flag.True, h.scene.EventFlag(7))
	assert.Equal(t, []string{"DIGI"}, h.sound.stopped)
}

func TestPlayDigiSoundAndDie_NoSceneChangeSentinel(t *testing.T) {
	h := newHarness(t)
	p := testutil.NewBuilder().
		Sound(script.Sound{Name: "DIGI", Category: script.CategoryDigi}).
		SceneChange(script.SceneChange{SceneID: script.NoSceneChange}).
		I16(8).U8(uint8(flag.True)).Zeros(2).Bytes()
	rec := decodeOne(t, action.KindPlayDigiSoundAndDie, p)

	rec.Execute(h.svc)
	h.sound.finishAll()
	rec.Execute(h.svc)
	rec.Execute(h.svc)

	assert.True(t, rec.IsDone())
	assert.Empty(t, h.scene.changes)
	assert.Equal(t, flag.True, h.scene.EventFlag(8))
}

func TestPlaySoundMultiHS_Trigger(t *testing.T) {
	h := newHarness(t)
	h.scene.SetFrame(1)
	rec := decodeOne(t, action.KindPlaySoundMultiHS, payloads()[action.KindPlaySoundMultiHS])
	rec.Execute(h.svc)
	require.True(t, rec.Trigger())
	rec.Execute(h.svc)

	assert.True(t, rec.IsDone())
	assert.Equal(t, []string{"SND"}, h.sound.played)
	require.Len(t, h.scene.changes, 1)
	assert.Equal(t, flag.True, h.scene.EventFlag(7))
}

func TestShowInventoryItem(t *testing.T) {
	h := newHarness(t)
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	h.images.images["ITEM"] = img
	pickup := &script.Sound{Name: "PICKUP"}
	h.svc.PickupSound = pickup

	bm := script.Bitmap{
		FrameID: 2,
		Src:     hotspot.Rect{Right: 8, Bottom: 8},
		Dest:    hotspot.Rect{Left: 100, Top: 100, Right: 108, Bottom: 108},
	}
	p := testutil.NewBuilder().U16(12).Name("ITEM", script.NameSize).U16(1).Bitmap(bm).Bytes()
	rec := decodeOne(t, action.KindShowInventoryItem, p)
	item := rec.(*action.ShowInventoryItem)

	h.scene.SetFrame(1)
	rec.Execute(h.svc)
	assert.False(t, item.Visible())
	_, ok := rec.Hotspot()
	assert.False(t, ok)

	h.scene.SetFrame(2)
	rec.Execute(h.svc)
	assert.True(t, item.Visible())
	src, dest := item.Placement()
	assert.Equal(t, bm.Src, src)
	assert.Equal(t, bm.Dest, dest)
	assert.Same(t, img, item.Image().(*image.RGBA))

	require.True(t, rec.Trigger())
	rec.Execute(h.svc)
	assert.True(t, rec.IsDone())
	assert.False(t, item.Visible())
	assert.Equal(t, flag.True, h.scene.HasItem(12))
	assert.Equal(t, []string{"PICKUP"}, h.sound.played)
}

func TestShowInventoryItem_MissingImage(t *testing.T) {
	h := newHarness(t)
	p := testutil.NewBuilder().U16(12).Name("NONE", script.NameSize).U16(1).
		Bitmap(script.Bitmap{FrameID: 0, Dest: hotspot.Rect{Right: 4, Bottom: 4}}).Bytes()
	rec := decodeOne(t, action.KindShowInventoryItem, p)
	rec.Execute(h.svc)
	assert.False(t, rec.(*action.ShowInventoryItem).Visible())
	_, ok := rec.Hotspot()
	assert.True(t, ok)
}

func TestPropertyOneShot_NeverRevisitsBegin(t *testing.T) {
	ps := payloads()
	all := action.AllKinds()
	rapid.Check(t, func(rt *rapid.T) {
		k := rapid.SampledFrom(all).Draw(rt, "kind")
		h := newHarness(t)
		rec := decodeOne(t, k, ps[k])
		for i := 0; i < rapid.IntRange(1, 20).Draw(rt, "ticks"); i++ {
			h.scene.SetFrame(uint16(rapid.IntRange(0, 2).Draw(rt, "frame")))
			if rapid.Bool().Draw(rt, "click") {
				rec.Trigger()
			}
			if rapid.Bool().Draw(rt, "soundEnds") {
				h.sound.finishAll()
			}
			rec.Execute(h.svc)
			// MapCall promotes itself to repeating; everything else stays one-shot.
			if rec.ExecType() == action.OneShot && rec.State() == action.Begin {
				rt.Fatalf("%s returned to Begin after tick %d", k, i)
			}
			if rec.IsDone() {
				return
			}
		}
	})
}
