// Package testutil provides helpers for building scene script fixtures in
// tests.
package testutil

import (
	"bytes"
	"encoding/binary"

	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// Builder appends little-endian script fields to an in-memory buffer.
// Every method returns the receiver so fixtures read top to bottom.
type Builder struct {
	buf bytes.Buffer
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// U8 appends one byte.
func (b *Builder) U8(v uint8) *Builder {
	b.buf.WriteByte(v)
	return b
}

// U16 appends a little-endian uint16.
func (b *Builder) U16(v uint16) *Builder {
	_ = binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

// I16 appends a little-endian int16.
func (b *Builder) I16(v int16) *Builder {
	_ = binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

// I32 appends a little-endian int32.
func (b *Builder) I32(v int32) *Builder {
	_ = binary.Write(&b.buf, binary.LittleEndian, v)
	return b
}

// Zeros appends n zero bytes.
func (b *Builder) Zeros(n int) *Builder {
	b.buf.Write(make([]byte, n))
	return b
}

// Raw appends p unchanged.
func (b *Builder) Raw(p []byte) *Builder {
	b.buf.Write(p)
	return b
}

// Name appends s as a NUL-padded fixed buffer of n bytes, truncating s if
// needed.
func (b *Builder) Name(s string, n int) *Builder {
	p := make([]byte, n)
	copy(p, s)
	b.buf.Write(p)
	return b
}

// SceneChange appends an 8-byte scene change descriptor.
func (b *Builder) SceneChange(sc script.SceneChange) *Builder {
	var noSound uint16
	if sc.DoNotStartSound {
		noSound = 1
	}
	return b.U16(sc.SceneID).U16(sc.FrameID).U16(sc.VerticalOffset).U16(noSound)
}

// Rect appends four int32 edges.
func (b *Builder) Rect(r hotspot.Rect) *Builder {
	return b.I32(r.Left).I32(r.Top).I32(r.Right).I32(r.Bottom)
}

// Hotspot appends a frame id and rectangle.
func (b *Builder) Hotspot(d hotspot.Descriptor) *Builder {
	return b.U16(d.FrameID).Rect(d.Coords)
}

// Hotspots appends a uint16 count followed by each descriptor.
func (b *Builder) Hotspots(set hotspot.Set) *Builder {
	b.U16(uint16(len(set)))
	for _, d := range set {
		b.Hotspot(d)
	}
	return b
}

// Bitmap appends a frame id with source and destination rectangles.
func (b *Builder) Bitmap(bm script.Bitmap) *Builder {
	return b.U16(bm.FrameID).Rect(bm.Src).Rect(bm.Dest)
}

// Sound appends a sound descriptor laid out for s.Category.
func (b *Builder) Sound(s script.Sound) *Builder {
	b.Name(s.Name, script.NameSize).U16(s.ChannelID)
	if s.Category == script.CategoryDigi {
		b.Zeros(4)
	} else {
		b.Zeros(8)
	}
	return b.U16(s.NumLoops).U16(0).Zeros(2).U16(s.Volume).Zeros(6)
}

// Flag appends an int16 label and uint16 value.
func (b *Builder) Flag(e flag.EventFlag) *Builder {
	return b.I16(e.Label).U16(uint16(e.Flag))
}

// MultiFlag appends all slots of m.
func (b *Builder) MultiFlag(m flag.Multi) *Builder {
	for _, e := range m {
		b.Flag(e)
	}
	return b
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int { return b.buf.Len() }

// Bytes returns a copy of the buffer.
func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// EmptyMulti returns a Multi with every slot unused.
func EmptyMulti() flag.Multi {
	var m flag.Multi
	for i := range m {
		m[i] = flag.EventFlag{Label: flag.NoLabel}
	}
	return m
}
