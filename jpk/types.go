package jpk

import (
	"github.com/meigma/afmformats/jpk/internal/jpktype"
)

// Re-export types from internal/jpktype for public API.
type (
	// Value is a property or metadata value: text, a float, or an integer.
	Value = jpktype.Value

	// Kind identifies the variant held by a Value.
	Kind = jpktype.Kind

	// Properties maps property keys to coerced values.
	Properties = jpktype.Properties

	// Metadata maps canonical metadata keys to values.
	Metadata = jpktype.Metadata

	// Column is one column of curve data.
	Column = jpktype.Column

	// ColumnKind identifies the element type of a Column.
	ColumnKind = jpktype.ColumnKind

	// Hierarchy identifies the internal layout of an archive.
	Hierarchy = jpktype.Hierarchy

	// ProgressEvent represents a progress update while curves are loaded.
	ProgressEvent = jpktype.ProgressEvent

	// ProgressFunc receives progress updates during loading.
	ProgressFunc = jpktype.ProgressFunc
)

// Re-export constructors.
var (
	Text        = jpktype.Text
	Float       = jpktype.Float
	Int         = jpktype.Int
	FloatColumn = jpktype.FloatColumn
	BoolColumn  = jpktype.BoolColumn
	CodeColumn  = jpktype.CodeColumn
	Concat      = jpktype.Concat
	ParseValue  = jpktype.ParseValue
	Add         = jpktype.Add
)

// Re-export kind constants.
const (
	KindText  = jpktype.KindText
	KindFloat = jpktype.KindFloat
	KindInt   = jpktype.KindInt

	ColumnFloat = jpktype.ColumnFloat
	ColumnBool  = jpktype.ColumnBool
	ColumnCode  = jpktype.ColumnCode
)

// Re-export hierarchy constants.
const (
	HierarchySingle  = jpktype.HierarchySingle
	HierarchyIndexed = jpktype.HierarchyIndexed
)

// Segment codes as stored in the "segment" column of curves with more than
// two segments. Curves with two segments store false/true instead.
const (
	SegmentApproach     uint8 = 0
	SegmentIntermediate uint8 = 1
	SegmentRetract      uint8 = 2
)
