package jpk

import (
	"fmt"
	"strings"
)

// Derived columns that are computed from metadata instead of decoded.
const (
	columnTime    = "time"
	columnSegment = "segment"
)

// Data returns a column of a whole curve: the segments concatenated in
// ascending segment order.
func (r *Reader) Data(column string, index int) (Column, error) {
	segs, err := r.SegmentNumbers(index)
	if err != nil {
		return Column{}, err
	}
	parts := make([]Column, 0, len(segs))
	for _, seg := range segs {
		c, err := r.SegmentData(column, index, seg)
		if err != nil {
			return Column{}, err
		}
		parts = append(parts, c)
	}
	return Concat(parts...)
}

// SegmentData returns a column of one segment of a curve.
//
// "time" starts at the summed duration of all earlier segments and is spaced
// by duration/point count. "segment" holds the segment number; it is a bool
// column for curves with at most two segments. All other columns are
// decoded from the channel data files and must carry the canonical unit of
// the column.
func (r *Reader) SegmentData(column string, index, segment int) (Column, error) {
	segs, err := r.SegmentNumbers(index)
	if err != nil {
		return Column{}, err
	}
	md, err := r.SegmentMetadata(index, segment)
	if err != nil {
		return Column{}, err
	}

	switch column {
	case columnTime:
		points, err := pointCount(md)
		if err != nil {
			return Column{}, err
		}
		duration, err := requireFloat(md, "duration")
		if err != nil {
			return Column{}, err
		}
		var start float64
		for _, s := range segs {
			if s >= segment {
				continue
			}
			prev, err := r.SegmentMetadata(index, s)
			if err != nil {
				return Column{}, err
			}
			d, err := requireFloat(prev, "duration")
			if err != nil {
				return Column{}, err
			}
			start += d
		}
		return FloatColumn(linspace(start, duration, points)), nil

	case columnSegment:
		points, err := pointCount(md)
		if err != nil {
			return Column{}, err
		}
		if len(segs) <= 2 {
			v := make([]bool, points)
			for i := range v {
				v[i] = segment != 0
			}
			return BoolColumn(v), nil
		}
		v := make([]uint8, points)
		for i := range v {
			v[i] = uint8(segment)
		}
		return CodeColumn(v), nil
	}

	return r.decodeColumn(column, index, segment)
}

func (r *Reader) decodeColumn(column string, index, segment int) (Column, error) {
	want, ok := r.units[column]
	if !ok {
		return Column{}, fmt.Errorf("%w: no unit for column %q", ErrLookup, column)
	}
	segPath, err := r.SegmentPath(index, segment)
	if err != nil {
		return Column{}, err
	}
	var local []string
	for _, e := range r.entries {
		if strings.HasPrefix(e, segPath) {
			local = append(local, e)
		}
	}
	ch, err := r.locator.Find(local, column)
	if err != nil {
		return Column{}, fmt.Errorf("%s: curve %d segment %d: %w", r.path, index, segment, err)
	}
	p, err := r.SegmentProperties(index, segment)
	if err != nil {
		return Column{}, err
	}

	a, err := r.openArchive()
	if err != nil {
		return Column{}, err
	}
	rc, err := a.Open(ch.Path)
	if err != nil {
		return Column{}, fmt.Errorf("%s: %w", r.path, err)
	}
	defer rc.Close()

	data, unit, err := r.decoder.Decode(rc, ch.Name, p, ch.Slot)
	if err != nil {
		return Column{}, fmt.Errorf("%s: %s: %w", r.path, ch.Path, err)
	}
	if unit != want {
		return Column{}, fmt.Errorf("%w: column %q: got %q, want %q", ErrUnitMismatch, column, unit, want)
	}
	r.log().Debug("channel decoded",
		"path", r.path,
		"entry", ch.Path,
		"column", column,
		"slot", ch.Slot,
		"samples", len(data))
	return FloatColumn(data), nil
}

func pointCount(md Metadata) (int, error) {
	v, ok := md["point count"]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingMetadata, "point count")
	}
	n, ok := v.Int()
	if !ok || n < 0 {
		return 0, fmt.Errorf("%w: invalid point count %#v", ErrValidation, v)
	}
	return int(n), nil
}

// linspace returns n values from start over span, excluding start+span.
func linspace(start, span float64, n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	step := span / float64(n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
