// Package domain holds the typed records and batches that flow between pipeline stages.
package domain

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the content of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	default:
		return "null"
	}
}

// Value is one output cell.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Null returns the empty cell.
func Null() Value { return Value{} }

// String returns a text cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Float returns a numeric cell. NaN is stored as Null.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: KindFloat, num: f}
}

// NullableFloat returns Float(*f), or Null when f is nil.
func NullableFloat(f *float64) Value {
	if f == nil {
		return Null()
	}
	return Float(*f)
}

// Kind returns the tag of the cell.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the cell is empty.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the text of a string cell.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Float64 returns the number of a float cell.
func (v Value) Float64() (float64, bool) {
	return v.num, v.kind == KindFloat
}

// Interface returns nil, a string or a float64, suitable as a SQL argument.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindFloat:
		return v.num
	default:
		return nil
	}
}

// Render returns the CSV text of the cell. Null renders as the empty string.
func (v Value) Render() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindFloat:
		return FormatFloat(v.num)
	default:
		return ""
	}
}

// Key identifies the cell for equality checks. Cells of different kinds never collide.
func (v Value) Key() string {
	if v.kind == KindNull {
		return "\x00"
	}
	return string(rune('0'+v.kind)) + v.Render()
}

// FormatFloat renders f the way the reference CSV exports do: the shortest round-trip
// digits, ".0" on integral values, and exponent notation when the decimal exponent is
// below -4 or at least 16 (1e-06, 1.5e+16).
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
