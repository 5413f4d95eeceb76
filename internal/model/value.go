package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a sealed interface for one table cell.
// Only Null, Int, Float and Text implement it.
type Value interface {
	cellValue() // Sealed - only these types implement it

	// String renders the cell for delimited output. Null renders empty.
	String() string
}

// Null is the universal missing-value marker.
type Null struct{}

func (Null) cellValue() {}

func (Null) String() string { return "" }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Int is an integer cell (counts, ids cast to integer, session numbers).
type Int int64

func (Int) cellValue() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating point cell (numeric coding properties).
type Float float64

func (Float) cellValue() {}

// String always keeps a decimal point so numeric columns stay visibly
// floating point (3 renders as "3.0").
func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Text is a string cell.
type Text string

func (Text) cellValue() {}

func (t Text) String() string { return string(t) }

// IsNull reports whether v is missing. A nil Value counts as missing.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Interface returns the Go native form of v: nil, int64, float64 or string.
func Interface(v Value) any {
	switch val := v.(type) {
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Text:
		return string(val)
	default:
		return nil
	}
}

// MarshalValues encodes a row of cells as a JSON array.
func MarshalValues(vals []Value) ([]byte, error) {
	native := make([]any, len(vals))
	for i, v := range vals {
		native[i] = Interface(v)
	}
	return json.Marshal(native)
}
