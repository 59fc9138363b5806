package jpk

import (
	"github.com/meigma/afmformats/jpk/internal/props"
)

// Properties returns the resolved properties of a whole curve, without any
// segment-specific keys.
func (r *Reader) Properties(index int) (Properties, error) {
	return r.resolveProperties(index, noSegment)
}

// SegmentProperties returns the resolved properties of one segment of a curve.
func (r *Reader) SegmentProperties(index, segment int) (Properties, error) {
	return r.resolveProperties(index, segment)
}

// resolveProperties merges the property tables of a curve (and segment):
//
//  1. the index header,
//  2. the segment header, overriding (1),
//  3. values referenced through ".*" keys from the shared-data table,
//  4. the top-level header, overriding everything above,
//  5. numeric coercion, dropping NaN values.
//
// The result is memoized; callers receive a copy.
func (r *Reader) resolveProperties(index, segment int) (Properties, error) {
	key := memoKey{index: index, segment: segment}
	if p, ok := r.properties[key]; ok {
		return p.Clone(), nil
	}

	indexPath, err := r.IndexPath(index)
	if err != nil {
		return nil, err
	}
	var merged props.Raw
	if indexPath == "" {
		// Single archives keep the curve header at the top level.
		merged, err = r.generalProperties()
	} else {
		merged, err = r.readProperties(indexPath + generalHeader)
	}
	if err != nil {
		return nil, err
	}
	merged = merged.Clone()

	if segment != noSegment {
		segPath, err := r.SegmentPath(index, segment)
		if err != nil {
			return nil, err
		}
		segProps, err := r.readProperties(segPath + segmentHeader)
		if err != nil {
			return nil, err
		}
		merged.Overlay(segProps)
	}

	shared, err := r.sharedProperties()
	if err != nil {
		return nil, err
	}
	if n := props.Substitute(merged, shared); n > 0 {
		r.log().Debug("shared properties substituted", "path", r.path, "index", index, "segment", segment, "count", n)
	}

	general, err := r.generalProperties()
	if err != nil {
		return nil, err
	}
	merged.Overlay(general)

	p := props.Coerce(merged)
	r.properties[key] = p
	return p.Clone(), nil
}
