package jpktype

import (
	"fmt"
	"slices"
)

// ColumnKind identifies the element type of a Column.
type ColumnKind uint8

// Column element types.
const (
	ColumnFloat ColumnKind = iota
	ColumnBool
	ColumnCode
)

// String returns the string representation of the column kind.
func (k ColumnKind) String() string {
	switch k {
	case ColumnFloat:
		return "float64"
	case ColumnBool:
		return "bool"
	case ColumnCode:
		return "uint8"
	default:
		return "unknown"
	}
}

// Column is one column of curve data. Numeric channels and "time" are
// float columns; the "segment" column is a bool column for curves with at
// most two segments and a uint8 code column otherwise.
type Column struct {
	kind   ColumnKind
	floats []float64
	bools  []bool
	codes  []uint8
}

// FloatColumn wraps v without copying.
func FloatColumn(v []float64) Column { return Column{kind: ColumnFloat, floats: v} }

// BoolColumn wraps v without copying.
func BoolColumn(v []bool) Column { return Column{kind: ColumnBool, bools: v} }

// CodeColumn wraps v without copying.
func CodeColumn(v []uint8) Column { return Column{kind: ColumnCode, codes: v} }

// Kind returns the element type.
func (c Column) Kind() ColumnKind { return c.kind }

// Len returns the number of rows.
func (c Column) Len() int {
	switch c.kind {
	case ColumnBool:
		return len(c.bools)
	case ColumnCode:
		return len(c.codes)
	default:
		return len(c.floats)
	}
}

// Floats returns the backing slice of a float column, nil otherwise.
func (c Column) Floats() []float64 { return c.floats }

// Bools returns the backing slice of a bool column, nil otherwise.
func (c Column) Bools() []bool { return c.bools }

// Codes returns the backing slice of a code column, nil otherwise.
func (c Column) Codes() []uint8 { return c.codes }

// Clone returns a deep copy of c.
func (c Column) Clone() Column {
	return Column{
		kind:   c.kind,
		floats: slices.Clone(c.floats),
		bools:  slices.Clone(c.bools),
		codes:  slices.Clone(c.codes),
	}
}

// Match returns a mask that is true for rows equal to flag.
// Bool rows compare as 0 (false) and 1 (true). Float columns are compared
// numerically.
func (c Column) Match(flag uint8) []bool {
	mask := make([]bool, c.Len())
	switch c.kind {
	case ColumnBool:
		want := flag != 0
		for i, b := range c.bools {
			mask[i] = b == want
		}
	case ColumnCode:
		for i, v := range c.codes {
			mask[i] = v == flag
		}
	default:
		for i, v := range c.floats {
			mask[i] = v == float64(flag)
		}
	}
	return mask
}

// Select returns a new column holding the rows where mask is true, in order.
// mask must have the same length as c.
func (c Column) Select(mask []bool) Column {
	out := Column{kind: c.kind}
	switch c.kind {
	case ColumnBool:
		out.bools = selectRows(c.bools, mask)
	case ColumnCode:
		out.codes = selectRows(c.codes, mask)
	default:
		out.floats = selectRows(c.floats, mask)
	}
	return out
}

func selectRows[T any](rows []T, mask []bool) []T {
	out := make([]T, 0, len(rows))
	for i, keep := range mask {
		if keep {
			out = append(out, rows[i])
		}
	}
	return out
}

// Concat joins columns of the same kind in order.
func Concat(cols ...Column) (Column, error) {
	if len(cols) == 0 {
		return FloatColumn(nil), nil
	}
	out := Column{kind: cols[0].kind}
	for _, c := range cols {
		if c.kind != out.kind {
			return Column{}, fmt.Errorf("%w: cannot concatenate %s and %s columns", ErrValidation, out.kind, c.kind)
		}
		out.floats = append(out.floats, c.floats...)
		out.bools = append(out.bools, c.bools...)
		out.codes = append(out.codes, c.codes...)
	}
	return out, nil
}
