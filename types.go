package afmformats

import "github.com/meigma/afmformats/jpk"

// --- Re-exports from jpk ---

// Value is a metadata value: text, a float, or an integer.
type Value = jpk.Value

// Metadata maps canonical metadata keys to values.
type Metadata = jpk.Metadata

// Column is one column of curve data.
type Column = jpk.Column

// ColumnKind identifies the element type of a Column.
type ColumnKind = jpk.ColumnKind

// Column kinds.
const (
	ColumnFloat = jpk.ColumnFloat
	ColumnBool  = jpk.ColumnBool
	ColumnCode  = jpk.ColumnCode
)

// Constructors re-exported from jpk.
var (
	Text        = jpk.Text
	Float       = jpk.Float
	Int         = jpk.Int
	FloatColumn = jpk.FloatColumn
	BoolColumn  = jpk.BoolColumn
	CodeColumn  = jpk.CodeColumn
)

// Imaging modes.
const (
	ModeForceDistance    = jpk.ModeForceDistance
	ModeCreepCompliance  = jpk.ModeCreepCompliance
	ModeStressRelaxation = jpk.ModeStressRelaxation
)
