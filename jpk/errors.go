package jpk

import "github.com/meigma/afmformats/jpk/internal/jpktype"

// Sentinel errors re-exported from internal/jpktype.
var (
	// ErrFormat is returned when the archive layout cannot be interpreted.
	ErrFormat = jpktype.ErrFormat

	// ErrLookup is returned when an index, segment, channel or column does not exist.
	ErrLookup = jpktype.ErrLookup

	// ErrChannelNotFound is returned when a segment has no data file for a
	// column. It matches ErrLookup.
	ErrChannelNotFound = jpktype.ErrChannelNotFound

	// ErrMissingMetadata is returned when a mandatory metadata key cannot be resolved.
	ErrMissingMetadata = jpktype.ErrMissingMetadata

	// ErrValidation is returned when values are present but inconsistent.
	ErrValidation = jpktype.ErrValidation

	// ErrUnitMismatch is returned when a decoded channel unit differs from the
	// canonical unit of the requested column.
	ErrUnitMismatch = jpktype.ErrUnitMismatch
)
