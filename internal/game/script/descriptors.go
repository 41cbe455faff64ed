package script

import (
	"fmt"

	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/hotspot"
)

// Encoded widths of the fixed descriptors.
const (
	SceneChangeSize = 8
	RectSize        = 16
	BitmapSize      = 0x22
	SoundNormalSize = 0x22
	SoundDigiSize   = 0x1E
	NameSize        = 10
)

// NoSceneChange is the scene id meaning "set flags only, stay in this scene".
const NoSceneChange uint16 = 9999

// SceneChange describes a scene transition target.
type SceneChange struct {
	SceneID         uint16
	FrameID         uint16
	VerticalOffset  uint16
	DoNotStartSound bool
}

// ReadSceneChange decodes a SceneChange.
//
// Postcondition: on success exactly SceneChangeSize bytes were consumed.
func ReadSceneChange(r *Reader) (SceneChange, error) {
	var (
		sc  SceneChange
		err error
	)
	if sc.SceneID, err = r.Uint16(); err != nil {
		return SceneChange{}, fmt.Errorf("scene change id: %w", err)
	}
	if sc.FrameID, err = r.Uint16(); err != nil {
		return SceneChange{}, fmt.Errorf("scene change frame: %w", err)
	}
	if sc.VerticalOffset, err = r.Uint16(); err != nil {
		return SceneChange{}, fmt.Errorf("scene change offset: %w", err)
	}
	noSound, err := r.Uint16()
	if err != nil {
		return SceneChange{}, fmt.Errorf("scene change sound flag: %w", err)
	}
	sc.DoNotStartSound = noSound != 0
	return sc, nil
}

// ReadRect decodes four int32 edges in left, top, right, bottom order.
func ReadRect(r *Reader) (hotspot.Rect, error) {
	var (
		rect hotspot.Rect
		err  error
	)
	for _, dst := range []*int32{&rect.Left, &rect.Top, &rect.Right, &rect.Bottom} {
		if *dst, err = r.Int32(); err != nil {
			return hotspot.Rect{}, fmt.Errorf("rect: %w", err)
		}
	}
	return rect, nil
}

// ReadHotspot decodes a frame id followed by a rectangle.
//
// Postcondition: on success exactly hotspot.DescriptorSize bytes were consumed.
func ReadHotspot(r *Reader) (hotspot.Descriptor, error) {
	frameID, err := r.Uint16()
	if err != nil {
		return hotspot.Descriptor{}, fmt.Errorf("hotspot frame: %w", err)
	}
	rect, err := ReadRect(r)
	if err != nil {
		return hotspot.Descriptor{}, fmt.Errorf("hotspot: %w", err)
	}
	return hotspot.Descriptor{FrameID: frameID, Coords: rect}, nil
}

// ReadHotspots decodes a uint16 count followed by that many hotspots.
func ReadHotspots(r *Reader) (hotspot.Set, error) {
	n, err := r.Uint16()
	if err != nil {
		return nil, fmt.Errorf("hotspot count: %w", err)
	}
	set := make(hotspot.Set, 0, n)
	for i := 0; i < int(n); i++ {
		d, err := ReadHotspot(r)
		if err != nil {
			return nil, fmt.Errorf("hotspot %d of %d: %w", i, n, err)
		}
		set = append(set, d)
	}
	return set, nil
}

// Bitmap maps a frame to a source region of an image and its screen
// destination.
type Bitmap struct {
	FrameID uint16
	Src     hotspot.Rect
	Dest    hotspot.Rect
}

// ReadBitmap decodes a Bitmap.
func ReadBitmap(r *Reader) (Bitmap, error) {
	var (
		b   Bitmap
		err error
	)
	if b.FrameID, err = r.Uint16(); err != nil {
		return Bitmap{}, fmt.Errorf("bitmap frame: %w", err)
	}
	if b.Src, err = ReadRect(r); err != nil {
		return Bitmap{}, fmt.Errorf("bitmap src: %w", err)
	}
	if b.Dest, err = ReadRect(r); err != nil {
		return Bitmap{}, fmt.Errorf("bitmap dest: %w", err)
	}
	return b, nil
}

// SoundCategory selects the playback path and the field layout of a sound
// descriptor.
type SoundCategory int

const (
	CategoryNormal SoundCategory = iota
	CategoryDigi
)

// String returns "normal" or "digi".
func (c SoundCategory) String() string {
	if c == CategoryDigi {
		return "digi"
	}
	return "normal"
}

// Sound names a sound asset and how to play it. The sound service tracks
// playback by descriptor identity, so records pass a pointer to the
// descriptor they own.
type Sound struct {
	Name      string
	Category  SoundCategory
	ChannelID uint16
	// NumLoops is the number of plays; 0 loops until stopped.
	NumLoops uint16
	Volume   uint16
}

// ReadSound decodes a Sound laid out for category.
//
// Postcondition: on success SoundNormalSize or SoundDigiSize bytes were consumed.
func ReadSound(r *Reader, category SoundCategory) (Sound, error) {
	s := Sound{Category: category}
	var err error
	if s.Name, err = r.String(NameSize); err != nil {
		return Sound{}, fmt.Errorf("sound name: %w", err)
	}
	if s.ChannelID, err = r.Uint16(); err != nil {
		return Sound{}, fmt.Errorf("sound %q channel: %w", s.Name, err)
	}
	gap := int64(8)
	if category == CategoryDigi {
		gap = 4
	}
	if err := r.Skip(gap); err != nil {
		return Sound{}, fmt.Errorf("sound %q: %w", s.Name, err)
	}
	if s.NumLoops, err = r.Uint16(); err != nil {
		return Sound{}, fmt.Errorf("sound %q loops: %w", s.Name, err)
	}
	forever, err := r.Uint16()
	if err != nil {
		return Sound{}, fmt.Errorf("sound %q loop mode: %w", s.Name, err)
	}
	if forever != 0 {
		s.NumLoops = 0
	}
	if err := r.Skip(2); err != nil {
		return Sound{}, fmt.Errorf("sound %q: %w", s.Name, err)
	}
	if s.Volume, err = r.Uint16(); err != nil {
		return Sound{}, fmt.Errorf("sound %q volume: %w", s.Name, err)
	}
	if err := r.Skip(6); err != nil {
		return Sound{}, fmt.Errorf("sound %q: %w", s.Name, err)
	}
	return s, nil
}

// ReadEventFlag decodes an int16 label followed by a uint16 value.
func ReadEventFlag(r *Reader) (flag.EventFlag, error) {
	label, err := r.Int16()
	if err != nil {
		return flag.EventFlag{}, fmt.Errorf("flag label: %w", err)
	}
	value, err := r.Uint16()
	if err != nil {
		return flag.EventFlag{}, fmt.Errorf("flag %d value: %w", label, err)
	}
	return flag.EventFlag{Label: label, Flag: flag.TriState(value)}, nil
}

// ReadShortEventFlag decodes an int16 label followed by a single value byte.
func ReadShortEventFlag(r *Reader) (flag.EventFlag, error) {
	label, err := r.Int16()
	if err != nil {
		return flag.EventFlag{}, fmt.Errorf("flag label: %w", err)
	}
	value, err := r.Uint8()
	if err != nil {
		return flag.EventFlag{}, fmt.Errorf("flag %d value: %w", label, err)
	}
	return flag.EventFlag{Label: label, Flag: flag.TriState(value)}, nil
}

// ReadMultiFlag decodes flag.MultiCount event flags.
//
// Postcondition: on success exactly flag.MultiSize bytes were consumed.
func ReadMultiFlag(r *Reader) (flag.Multi, error) {
	var m flag.Multi
	for i := range m {
		e, err := ReadEventFlag(r)
		if err != nil {
			return flag.Multi{}, fmt.Errorf("flag slot %d: %w", i, err)
		}
		m[i] = e
	}
	return m, nil
}
