package formula

import (
	"encoding/json"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/sym"
)

// Truth is a three-valued (Kleene) truth value.
// The zero value is Unknown.
type Truth int8

const (
	Unknown Truth = iota
	True
	False
)

// FromBool converts a resolved Boolean into a Truth.
func FromBool(b bool) Truth {
	if b {
		return True
	}
	return False
}

// Known reports whether t is True or False.
func (t Truth) Known() bool {
	return t == True || t == False
}

// Bool returns the Boolean value of t and whether t is known.
func (t Truth) Bool() (value bool, known bool) {
	return t == True, t.Known()
}

// Not flips a known truth value; Unknown stays Unknown.
func (t Truth) Not() Truth {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

func (t Truth) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Glyph renders t with the canonical truth markers.
func (t Truth) Glyph() string {
	return sym.TruthGlyph(t.Bool())
}

// MarshalJSON encodes known values as JSON booleans and Unknown as null.
func (t Truth) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false or null.
func (t *Truth) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return errors.Wrapf(errors.ErrInvalidTruth, "decode %s", string(data))
	}
	if b == nil {
		*t = Unknown
		return nil
	}
	*t = FromBool(*b)
	return nil
}
