// Package audio plays scene sounds on a beep mixer. Playback is either sent
// to the system speaker or advanced headlessly by the engine tick.
package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/script"
)

// Output selects where mixed audio goes.
type Output string

const (
	// OutputNone mixes without a device; Advance drives playback.
	OutputNone Output = "none"
	// OutputSpeaker plays through the system audio device.
	OutputSpeaker Output = "speaker"
)

// resampleQuality is the beep resampler quality used for every sound.
const resampleQuality = 4

// maxVolume is the full-scale sound volume in script data.
const maxVolume = 100

// voice is a sound playing on a channel.
type voice struct {
	name     string
	category script.SoundCategory
	ctrl     *beep.Ctrl
	finished bool
}

// Mixer is the scene sound service. Sounds are read as "<name>.wav" from a
// file system, resampled to the mixer rate and cached by name. Each channel
// plays one sound at a time; starting a sound on a busy channel replaces it.
//
// Mixer is safe for concurrent use.
type Mixer struct {
	mu       sync.Mutex
	fsys     fs.FS
	rate     beep.SampleRate
	mixer    *beep.Mixer
	buffers  map[string]*beep.Buffer
	channels map[uint16]*voice
	output   Output
	scratch  [][2]float64
	logger   *zap.Logger
}

// NewMixer creates a Mixer reading sounds from fsys.
//
// Precondition: fsys and logger must be non-nil; rate must be > 0.
// Postcondition: Returns a headless Mixer; call Open to attach a device.
func NewMixer(fsys fs.FS, rate int, logger *zap.Logger) *Mixer {
	return &Mixer{
		fsys:     fsys,
		rate:     beep.SampleRate(rate),
		mixer:    &beep.Mixer{},
		buffers:  make(map[string]*beep.Buffer),
		channels: make(map[uint16]*voice),
		output:   OutputNone,
		logger:   logger,
	}
}

// Open attaches the mixer to out. OutputNone leaves it headless.
//
// Postcondition: with OutputSpeaker the speaker pulls from the mixer and
// Advance no longer streams.
func (m *Mixer) Open(out Output) error {
	switch out {
	case OutputNone:
		return nil
	case OutputSpeaker:
		if err := speaker.Init(m.rate, m.rate.N(100*time.Millisecond)); err != nil {
			return fmt.Errorf("initializing speaker: %w", err)
		}
		speaker.Play(beep.StreamerFunc(m.stream))
		m.mu.Lock()
		m.output = OutputSpeaker
		m.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("unknown audio output %q", out)
	}
}

// Close stops every sound and releases the device, if any.
func (m *Mixer) Close() {
	m.mu.Lock()
	out := m.output
	m.mixer.Clear()
	m.channels = make(map[uint16]*voice)
	m.output = OutputNone
	m.mu.Unlock()
	if out == OutputSpeaker {
		speaker.Clear()
	}
}

func (m *Mixer) stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Stream(samples)
}

// SamplesPer returns the number of samples played in d.
func (m *Mixer) SamplesPer(d time.Duration) int {
	return m.rate.N(d)
}

// Advance mixes n samples when headless, moving every playing sound forward
// and firing completions. It does nothing when a device is attached.
func (m *Mixer) Advance(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.output != OutputNone || n <= 0 {
		return
	}
	if cap(m.scratch) < n {
		m.scratch = make([][2]float64, n)
	}
	m.mixer.Stream(m.scratch[:n])
}

// Load decodes and caches the sound named by s. Failures are logged and
// leave the sound unplayable.
func (m *Mixer) Load(s *script.Sound) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.load(s.Name); err != nil {
		m.logger.Warn("loading sound", zap.String("sound", s.Name), zap.Error(err))
	}
}

func (m *Mixer) load(name string) (*beep.Buffer, error) {
	if buf, ok := m.buffers[name]; ok {
		return buf, nil
	}
	if name == "" {
		return nil, errors.New("empty sound name")
	}
	f, err := m.fsys.Open(path.Clean(name + ".wav"))
	if err != nil {
		return nil, fmt.Errorf("opening sound: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s.wav: %w", name, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != m.rate {
		src = beep.Resample(resampleQuality, format.SampleRate, m.rate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: m.rate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	m.buffers[name] = buf
	return buf, nil
}

// Play starts s on its channel, loading it first if needed.
func (m *Mixer) Play(s *script.Sound) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, err := m.load(s.Name)
	if err != nil {
		m.logger.Warn("playing sound", zap.String("sound", s.Name), zap.Error(err))
		return
	}
	if old, ok := m.channels[s.ChannelID]; ok {
		silence(old)
	}

	v := &voice{name: s.Name, category: s.Category}
	body := beep.Streamer(&effects.Gain{Streamer: loop(buf, s.NumLoops), Gain: gain(s.Volume)})
	v.ctrl = &beep.Ctrl{Streamer: beep.Seq(body, beep.Callback(func() { v.finished = true }))}
	m.channels[s.ChannelID] = v
	m.mixer.Add(v.ctrl)

	m.logger.Debug("sound started",
		zap.String("sound", s.Name),
		zap.Uint16("channel", s.ChannelID),
		zap.Stringer("category", s.Category),
		zap.Uint16("loops", s.NumLoops),
	)
}

// loop repeats buf count times, forever when count is 0.
func loop(buf *beep.Buffer, count uint16) beep.Streamer {
	played := 0
	return beep.Iterate(func() beep.Streamer {
		if count != 0 && played >= int(count) {
			return nil
		}
		played++
		return buf.Streamer(0, buf.Len())
	})
}

func gain(volume uint16) float64 {
	if volume > maxVolume {
		volume = maxVolume
	}
	return float64(volume)/maxVolume - 1
}

func silence(v *voice) {
	v.ctrl.Streamer = nil
	v.finished = true
}

// playing returns the voice for s if it is s's sound and still audible.
func (m *Mixer) playing(s *script.Sound) (*voice, bool) {
	v, ok := m.channels[s.ChannelID]
	if !ok || v.name != s.Name || v.finished {
		return nil, false
	}
	return v, true
}

// IsPlaying reports whether s is still sounding on its channel.
func (m *Mixer) IsPlaying(s *script.Sound) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.playing(s)
	return ok
}

// Stop silences s if it owns its channel.
func (m *Mixer) Stop(s *script.Sound) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.channels[s.ChannelID]
	if !ok || v.name != s.Name {
		return
	}
	silence(v)
	delete(m.channels, s.ChannelID)
}

// StopAllInCategory silences every sound of category c.
func (m *Mixer) StopAllInCategory(c script.SoundCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch, v := range m.channels {
		if v.category != c {
			continue
		}
		silence(v)
		delete(m.channels, ch)
	}
}

// Active returns the number of sounds the mixer is still streaming.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Len()
}
