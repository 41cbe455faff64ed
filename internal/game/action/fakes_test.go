package action_test

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/nancy/internal/game/action"
	"github.com/cory-johannsen/nancy/internal/game/hint"
	"github.com/cory-johannsen/nancy/internal/game/scene"
	"github.com/cory-johannsen/nancy/internal/game/script"
	"github.com/cory-johannsen/nancy/internal/testutil"
)

// recordingScene counts scene changes on top of a real scene state.
type recordingScene struct {
	*scene.State
	changes []script.SceneChange
	resets  int
}

func (r *recordingScene) ChangeScene(sc script.SceneChange) {
	r.changes = append(r.changes, sc)
	r.State.ChangeScene(sc)
}

func (r *recordingScene) ResetToInitialState() {
	r.resets++
	r.State.ResetToInitialState()
}

type fakeSound struct {
	loaded  []string
	played  []string
	stopped []string
	playing map[*script.Sound]bool
	stops   []script.SoundCategory
}

func newFakeSound() *fakeSound {
	return &fakeSound{playing: map[*script.Sound]bool{}}
}

func (f *fakeSound) Load(s *script.Sound) { f.loaded = append(f.loaded, s.Name) }

func (f *fakeSound) Play(s *script.Sound) {
	f.played = append(f.played, s.Name)
	f.playing[s] = true
}

func (f *fakeSound) Stop(s *script.Sound) {
	f.stopped = append(f.stopped, s.Name)
	delete(f.playing, s)
}

func (f *fakeSound) IsPlaying(s *script.Sound) bool { return f.playing[s] }

// finishAll marks every playing sound as ended without stopping it.
func (f *fakeSound) finishAll() {
	for s := range f.playing {
		delete(f.playing, s)
	}
}

func (f *fakeSound) StopAllInCategory(c script.SoundCategory) {
	f.stops = append(f.stops, c)
}

type fakeImages struct {
	images map[string]image.Image
}

func (f *fakeImages) Load(name string) (image.Image, error) {
	img, ok := f.images[name]
	if !ok {
		return nil, errors.New("no such image")
	}
	return img, nil
}

type fakeHints struct {
	selected uint16
	content  map[uint16]hint.Content
	err      error
	selects  int
	requests []uint16
}

func (f *fakeHints) Select(uint8, hint.Conditions) uint16 {
	f.selects++
	return f.selected
}

func (f *fakeHints) Content(_ uint8, index uint16, _ int) (hint.Content, error) {
	f.requests = append(f.requests, index)
	if f.err != nil {
		return hint.Content{}, f.err
	}
	return f.content[index], nil
}

type harness struct {
	scene  *recordingScene
	sound  *fakeSound
	images *fakeImages
	hints  *fakeHints
	svc    *action.Services
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	st, err := scene.New(scene.Initial{
		Scene:              script.SceneChange{SceneID: 1},
		HintsPerDifficulty: [scene.Difficulties]int{5, 5, 5},
	}, logger)
	require.NoError(t, err)
	_, _ = st.TakePendingSceneChange()
	st.EnterScene(script.SceneChange{SceneID: 1})

	h := &harness{
		scene:  &recordingScene{State: st},
		sound:  newFakeSound(),
		images: &fakeImages{images: map[string]image.Image{}},
		hints:  &fakeHints{content: map[uint16]hint.Content{}},
	}
	h.svc = &action.Services{
		Scene:  h.scene,
		Sound:  h.sound,
		Images: h.images,
		Hints:  h.hints,
		Logger: logger,
	}
	return h
}

// decodeOne decodes a single payload of kind k.
func decodeOne(t *testing.T, k action.Kind, payload []byte) action.Record {
	t.Helper()
	rec, err := action.Decode(k, script.NewReader(bytes.NewReader(payload)))
	require.NoError(t, err)
	return rec
}

// entry appends a scene script entry header.
func entry(b *testutil.Builder, desc string, k action.Kind, exec action.ExecType) *testutil.Builder {
	return b.Name(desc, action.DescriptionSize).U8(uint8(k)).U8(uint8(exec))
}
