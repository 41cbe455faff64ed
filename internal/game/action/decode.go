package action

import (
	"errors"
	"fmt"
	"io"

	"github.com/cory-johannsen/nancy/internal/game/script"
)

// DescriptionSize is the width of the free-text label preceding each entry
// of a scene script.
const DescriptionSize = 0x30

// Decode reads one record payload of kind k from r.
//
// Precondition: r is positioned at the first payload byte.
// Postcondition: on success r is positioned right after the payload and the
// bytes consumed equal the kind's declared width; on a width mismatch the
// error wraps script.ErrMalformedRecord.
func Decode(k Kind, r *script.Reader) (Record, error) {
	rec, err := New(k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", script.ErrMalformedRecord, err)
	}
	start := r.Consumed()
	declared, err := rec.decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", k, err)
	}
	if consumed := r.Consumed() - start; consumed != declared {
		return nil, fmt.Errorf("decoding %s: consumed %d bytes, declared width %d: %w",
			k, consumed, declared, script.ErrMalformedRecord)
	}
	return rec, nil
}

// DecodeStream reads scene script entries until the stream ends on an entry
// boundary. Each entry is a DescriptionSize label, a kind tag byte, an exec
// type byte, and the kind's payload.
//
// Postcondition: Returns records in stream order, or the first decode error.
func DecodeStream(in io.Reader) ([]Record, error) {
	r := script.NewReader(in)
	var records []Record
	for i := 0; ; i++ {
		start := r.Consumed()
		desc, err := r.String(DescriptionSize)
		if err != nil {
			if errors.Is(err, script.ErrUnexpectedEndOfStream) && r.Consumed() == start {
				return records, nil
			}
			return nil, fmt.Errorf("entry %d description: %w", i, err)
		}
		tag, err := r.Uint8()
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q) kind: %w", i, desc, err)
		}
		execByte, err := r.Uint8()
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q) exec type: %w", i, desc, err)
		}
		execType := ExecType(execByte)
		if execType != OneShot && execType != Repeating {
			return nil, fmt.Errorf("entry %d (%q): exec type %d: %w", i, desc, execByte, script.ErrMalformedRecord)
		}
		rec, err := Decode(Kind(tag), r)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, desc, err)
		}
		b := rec.base()
		b.description = desc
		b.execType = execType
		records = append(records, rec)
	}
}
