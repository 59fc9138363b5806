// Package props parses JPK property tables and resolves them into coerced
// key/value tables.
package props

import (
	"fmt"
	"io"
	"maps"
	"math"
	"slices"

	"github.com/magiconair/properties"

	"github.com/meigma/afmformats/jpk/internal/jpktype"
)

// Raw is a property table before numeric coercion.
type Raw map[string]string

// Parse reads a Java-properties style key=value table.
//
// JPK writes ISO-8859-1 property files. ${...} expansion is disabled because
// values are copied verbatim from the instrument.
func Parse(r io.Reader) (Raw, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	loader := &properties.Loader{
		Encoding:         properties.ISO_8859_1,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: parse properties: %w", jpktype.ErrFormat, err)
	}
	return Raw(p.Map()), nil
}

// Clone returns a copy of r.
func (r Raw) Clone() Raw {
	return maps.Clone(r)
}

// Overlay copies every key of src into r; keys of src win on conflict.
func (r Raw) Overlay(src Raw) {
	maps.Copy(r, src)
}

// Keys returns the keys of r in sorted order.
func (r Raw) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Coerce converts r into a Properties table. Values that parse as floats are
// stored as numbers, NaN results are dropped, anything else is kept as text.
func Coerce(r Raw) jpktype.Properties {
	out := make(jpktype.Properties, len(r))
	for k, s := range r {
		v := jpktype.ParseValue(s)
		if f, ok := v.Float(); ok && math.IsNaN(f) {
			continue
		}
		out[k] = v
	}
	return out
}
