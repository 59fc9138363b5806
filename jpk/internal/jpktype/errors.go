package jpktype

import (
	"errors"
	"fmt"
)

// Sentinel errors for JPK decoding.
var (
	// ErrFormat is returned when the archive layout cannot be interpreted,
	// e.g. an undeterminable hierarchy or an unexpected segment count.
	ErrFormat = errors.New("afmformats: unsupported archive layout")

	// ErrLookup is returned when an index, segment, channel or column does not exist.
	ErrLookup = errors.New("afmformats: not found")

	// ErrMissingMetadata is returned when a mandatory metadata key cannot be resolved.
	ErrMissingMetadata = errors.New("afmformats: missing metadata")

	// ErrValidation is returned when values are present but inconsistent.
	ErrValidation = errors.New("afmformats: validation failed")

	// ErrUnitMismatch is returned when a decoded channel unit differs from the
	// canonical unit of the requested column.
	ErrUnitMismatch = errors.New("afmformats: unit mismatch")
)

// ErrChannelNotFound is returned when a segment has no data file for a column.
// It matches ErrLookup.
var ErrChannelNotFound = fmt.Errorf("%w: channel file", ErrLookup)
