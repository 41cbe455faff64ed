package action

import (
	"fmt"

	"github.com/cory-johannsen/nancy/internal/game/script"
)

// Opaque keeps the payload of a kind whose fields are not decomposed. It
// completes on its first tick with no effect.
type Opaque struct {
	Base
	Raw []byte
}

func newOpaque() Record { return &Opaque{} }

func (r *Opaque) decode(sr *script.Reader) (int64, error) {
	width, ok := opaqueWidths[r.kind]
	if !ok {
		return 0, fmt.Errorf("no raw width for %s: %w", r.kind, script.ErrMalformedRecord)
	}
	raw, err := sr.Bytes(width)
	if err != nil {
		return 0, err
	}
	r.Raw = raw
	return int64(width), nil
}

// Execute implements Record.
func (r *Opaque) Execute(*Services) {
	r.done()
}

// ByteRecord keeps the single payload byte of a kind with no modelled effect.
type ByteRecord struct {
	Base
	Value uint8
}

func newByteRecord() Record { return &ByteRecord{} }

func (r *ByteRecord) decode(sr *script.Reader) (int64, error) {
	var err error
	r.Value, err = sr.Uint8()
	return 1, err
}

// Execute implements Record.
func (r *ByteRecord) Execute(*Services) {
	r.done()
}

// MaxTextBoxChars bounds the text length of a TextBoxWrite payload.
const MaxTextBoxChars = 10000

// TextBoxWrite keeps a length-prefixed text payload as raw bytes, prefix
// included.
type TextBoxWrite struct {
	Base
	Raw []byte
}

func (r *TextBoxWrite) decode(sr *script.Reader) (int64, error) {
	size, err := sr.Uint16()
	if err != nil {
		return 0, err
	}
	if size > MaxTextBoxChars {
		return 0, fmt.Errorf("text box write has %d chars, limit %d: %w", size, MaxTextBoxChars, script.ErrMalformedRecord)
	}
	text, err := sr.Bytes(int(size))
	if err != nil {
		return 0, err
	}
	r.Raw = append([]byte{byte(size), byte(size >> 8)}, text...)
	return int64(size) + 2, nil
}

// Execute implements Record.
func (r *TextBoxWrite) Execute(*Services) {
	r.done()
}

// TextBoxClear empties the scene text box.
type TextBoxClear struct {
	ByteRecord
}

// Execute implements Record.
func (r *TextBoxClear) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	svc.Scene.ClearTextBox()
	r.done()
}
