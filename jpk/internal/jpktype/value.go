package jpktype

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	KindText Kind = iota
	KindFloat
	KindInt
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	default:
		return "unknown"
	}
}

// Value is a property or metadata value: text, a float, or an integer.
//
// The zero Value is the empty text.
type Value struct {
	kind Kind
	s    string
	f    float64
	i    int64
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether v holds a float or an integer.
func (v Value) IsNumeric() bool { return v.kind == KindFloat || v.kind == KindInt }

// Float returns v as float64. ok is false for text values.
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Int returns v as int64, rounding floats half to even.
// ok is false for text values and non-finite floats.
func (v Value) Int() (i int64, ok bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return 0, false
		}
		return int64(math.RoundToEven(v.f)), true
	default:
		return 0, false
	}
}

// Text returns the text held by v. ok is false for numeric values.
func (v Value) Text() (s string, ok bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// String formats v. Numbers are printed without trailing zeros.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

// GoString implements fmt.GoStringer for readable test failures.
func (v Value) GoString() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.String())
}

// ParseValue coerces s to a float when it parses as one and returns text otherwise.
// Leading and trailing white space is ignored for the numeric attempt.
// Decimal literals out of range become ±Inf; hexadecimal literals stay text.
func ParseValue(s string) Value {
	t := strings.TrimSpace(s)
	if isHex(t) {
		return Text(s)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Text(s)
	}
	return Float(f)
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// Add returns the numeric sum of a and b. Two integers stay an integer.
func Add(a, b Value) (Value, error) {
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.i + b.i), nil
	}
	fa, okA := a.Float()
	fb, okB := b.Float()
	if !okA || !okB {
		return Value{}, fmt.Errorf("%w: cannot add %#v and %#v", ErrValidation, a, b)
	}
	return Float(fa + fb), nil
}

// Properties maps property keys to coerced values.
type Properties map[string]Value

// Clone returns a shallow copy of p.
func (p Properties) Clone() Properties {
	return maps.Clone(p)
}

// Keys returns the keys of p in sorted order.
func (p Properties) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Float returns the numeric value stored under key.
func (p Properties) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Text returns the value stored under key formatted as a string.
func (p Properties) Text(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Metadata maps canonical metadata keys (e.g. "spring constant") to values.
type Metadata map[string]Value

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	return maps.Clone(m)
}

// Float returns the numeric value stored under key.
func (m Metadata) Float(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Int returns the integer value stored under key.
func (m Metadata) Int(key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Text returns the value stored under key formatted as a string.
func (m Metadata) Text(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}
