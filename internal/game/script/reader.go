// Package script decodes the fixed-layout little-endian fields of scene
// script records.
package script

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrMalformedRecord reports a width mismatch or a length field beyond
	// its sanity bound.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnexpectedEndOfStream reports script data truncated mid-field.
	ErrUnexpectedEndOfStream = errors.New("unexpected end of stream")
)

// Reader decodes primitive fields from a byte stream and counts the bytes it
// consumes. It never reads past the fields it is asked for, so consecutive
// records can be decoded from one stream.
//
// Reader is not safe for concurrent use.
type Reader struct {
	r        io.Reader
	consumed int64
	buf      [4]byte
}

// NewReader wraps r.
//
// Precondition: r must not be nil.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Consumed returns the number of bytes decoded so far.
func (r *Reader) Consumed() int64 { return r.consumed }

func (r *Reader) fill(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.consumed += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("reading %d bytes at offset %d: %w", len(p), r.consumed-int64(n), ErrUnexpectedEndOfStream)
		}
		return fmt.Errorf("reading %d bytes at offset %d: %w", len(p), r.consumed-int64(n), err)
	}
	return nil
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	if err := r.fill(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.fill(r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[:2]), nil
}

// Int16 reads a little-endian int16.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() (int32, error) {
	if err := r.fill(r.buf[:4]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(r.buf[:4])), nil
}

// Bytes reads exactly n bytes into a new slice.
//
// Precondition: n >= 0.
func (r *Reader) Bytes(n int) ([]byte, error) {
	p := make([]byte, n)
	if err := r.fill(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Skip discards exactly n bytes. Truncation is reported the same way as for
// reads.
func (r *Reader) Skip(n int64) error {
	copied, err := io.CopyN(io.Discard, r.r, n)
	r.consumed += copied
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("skipping %d bytes: %w", n, ErrUnexpectedEndOfStream)
		}
		return fmt.Errorf("skipping %d bytes: %w", n, err)
	}
	return nil
}

// String reads a fixed char buffer of n bytes and returns its text up to the
// first NUL, decoded from Windows-1252.
func (r *Reader) String(n int) (string, error) {
	p, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return DecodeText(p), nil
}

// DecodeText converts a NUL-terminated Windows-1252 buffer to UTF-8.
func DecodeText(p []byte) string {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(p)
	if err != nil {
		return string(p)
	}
	return string(out)
}
