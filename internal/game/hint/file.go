package hint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cory-johannsen/nancy/internal/game/script"
)

// ErrHintDataUnavailable reports that hint content could not be read: the
// data file is missing or truncated, or the request falls outside it.
var ErrHintDataUnavailable = errors.New("hint data unavailable")

// Layout locates hint content inside the hint data file. Every offset is
// relative to the start of one hint entry.
type Layout struct {
	// CharacterBases holds the absolute offset of each character's first hint.
	CharacterBases []int64
	// Stride is the width of one hint entry.
	Stride int64
	// Difficulties is the number of difficulty variants per entry.
	Difficulties int

	IDOffset          int64
	WeightOffset      int64
	SoundOffset       int64
	TextOffset        int64
	TextSize          int
	SceneChangeOffset int64
}

// Nancy1Layout is the hint layout of the first title, stored in its executable.
var Nancy1Layout = Layout{
	CharacterBases:    []int64{0xABB88, 0xAD760, 0xAF338},
	Stride:            0x288,
	Difficulties:      3,
	IDOffset:          0,
	WeightOffset:      2,
	SoundOffset:       4,
	TextOffset:        4 + 3*script.NameSize,
	TextSize:          200,
	SceneChangeOffset: 4 + 3*script.NameSize + 3*200,
}

// Nancy1HintFile is the file holding Nancy1Layout data.
const Nancy1HintFile = "game.exe"

// entryBase returns the absolute offset of a hint entry.
func (l Layout) entryBase(characterID uint8, index uint16) (int64, error) {
	if int(characterID) >= len(l.CharacterBases) {
		return 0, fmt.Errorf("character %d has no hints: %w", characterID, ErrHintDataUnavailable)
	}
	return l.CharacterBases[characterID] + l.Stride*int64(index), nil
}

// entrySize is the number of bytes of an entry that are read.
func (l Layout) entrySize() int64 {
	return l.SceneChangeOffset + script.SceneChangeSize
}

// Content is one hint resolved for a difficulty.
type Content struct {
	ID          int16
	Weight      int16
	SoundName   string
	Text        string
	SceneChange script.SceneChange
}

// ReadContent reads hint index of characterID at difficulty from src using
// absolute offsets.
//
// Precondition: src must not be nil.
// Postcondition: Returns the hint content, or an error wrapping
// ErrHintDataUnavailable.
func ReadContent(src io.ReaderAt, l Layout, characterID uint8, index uint16, difficulty int) (Content, error) {
	if difficulty < 0 || difficulty >= l.Difficulties {
		return Content{}, fmt.Errorf("difficulty %d out of range [0, %d): %w", difficulty, l.Difficulties, ErrHintDataUnavailable)
	}
	base, err := l.entryBase(characterID, index)
	if err != nil {
		return Content{}, err
	}

	entry := make([]byte, l.entrySize())
	if n, err := src.ReadAt(entry, base); n < len(entry) {
		return Content{}, fmt.Errorf("reading hint %d of character %d at 0x%X: got %d of %d bytes (%v): %w",
			index, characterID, base, n, len(entry), err, ErrHintDataUnavailable)
	}

	at := func(off int64) *script.Reader {
		return script.NewReader(bytes.NewReader(entry[off:]))
	}

	var c Content
	if c.ID, err = at(l.IDOffset).Int16(); err != nil {
		return Content{}, fmt.Errorf("hint id: %v: %w", err, ErrHintDataUnavailable)
	}
	if c.Weight, err = at(l.WeightOffset).Int16(); err != nil {
		return Content{}, fmt.Errorf("hint weight: %v: %w", err, ErrHintDataUnavailable)
	}
	soundAt := l.SoundOffset + int64(difficulty)*script.NameSize
	if c.SoundName, err = at(soundAt).String(script.NameSize); err != nil {
		return Content{}, fmt.Errorf("hint sound: %v: %w", err, ErrHintDataUnavailable)
	}
	textAt := l.TextOffset + int64(difficulty)*int64(l.TextSize)
	if c.Text, err = at(textAt).String(l.TextSize); err != nil {
		return Content{}, fmt.Errorf("hint text: %v: %w", err, ErrHintDataUnavailable)
	}
	if c.SceneChange, err = script.ReadSceneChange(at(l.SceneChangeOffset)); err != nil {
		return Content{}, fmt.Errorf("hint scene change: %v: %w", err, ErrHintDataUnavailable)
	}
	return c, nil
}

// Opener provides read access to the hint data file. The returned closer
// may be nil.
type Opener func() (io.ReaderAt, io.Closer, error)

// OpenPath returns an Opener for the file at path.
func OpenPath(path string) Opener {
	return func() (io.ReaderAt, io.Closer, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening hint file: %v: %w", err, ErrHintDataUnavailable)
		}
		return f, f, nil
	}
}
