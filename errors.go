package afmformats

import (
	"errors"
	"fmt"

	"github.com/meigma/afmformats/jpk"
)

// Errors re-exported from jpk.
var (
	// ErrFormat is returned when the archive layout cannot be interpreted.
	ErrFormat = jpk.ErrFormat

	// ErrLookup is returned when a curve, segment, channel or column does not exist.
	ErrLookup = jpk.ErrLookup

	// ErrChannelNotFound is returned when a curve has no data file for a column.
	// It matches ErrLookup.
	ErrChannelNotFound = jpk.ErrChannelNotFound

	// ErrMissingMetadata is returned when a mandatory metadata key cannot be resolved.
	ErrMissingMetadata = jpk.ErrMissingMetadata

	// ErrValidation is returned when values are present but inconsistent.
	ErrValidation = jpk.ErrValidation

	// ErrUnitMismatch is returned when a decoded channel has an unexpected unit.
	ErrUnitMismatch = jpk.ErrUnitMismatch
)

var (
	// ErrUnsupportedFormat is returned by Load for unknown file suffixes and modes.
	ErrUnsupportedFormat = errors.New("afmformats: unsupported file format")

	// ErrLength is returned when a column does not match the dataset length.
	// It matches ErrValidation.
	ErrLength = fmt.Errorf("%w: column length mismatch", ErrValidation)
)
