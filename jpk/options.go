package jpk

import (
	"io"
	"log/slog"
	"maps"

	"github.com/meigma/afmformats/jpk/internal/channel"
)

// Channel identifies the data file that backs a column.
type Channel = channel.Channel

// ChannelLocator finds the channel file backing a column among the entries
// of one segment. Find returns an error matching ErrChannelNotFound when the
// segment does not record the column.
type ChannelLocator interface {
	Find(entries []string, column string) (Channel, error)
}

// ChannelDecoder decodes a channel file into physical values.
// It returns the samples and their unit.
type ChannelDecoder interface {
	Decode(r io.Reader, name string, p Properties, slot string) ([]float64, string, error)
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger for debug events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithRecipes replaces the primary and secondary metadata recipes.
// A nil recipe keeps the default.
func WithRecipes(primary, secondary Recipe) Option {
	return func(r *Reader) {
		if primary != nil {
			r.primary = primary.Clone()
		}
		if secondary != nil {
			r.secondary = secondary.Clone()
		}
	}
}

// WithLocator sets the channel locator used for data columns.
func WithLocator(l ChannelLocator) Option {
	return func(r *Reader) {
		if l != nil {
			r.locator = l
		}
	}
}

// WithDecoder sets the channel decoder used for data columns.
func WithDecoder(d ChannelDecoder) Option {
	return func(r *Reader) {
		if d != nil {
			r.decoder = d
		}
	}
}

// WithUnits replaces the canonical units that decoded columns are checked against.
func WithUnits(units map[string]string) Option {
	return func(r *Reader) {
		r.units = maps.Clone(units)
	}
}
