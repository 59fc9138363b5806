package afmformats

import (
	"fmt"
	"maps"
	"slices"

	"github.com/meigma/afmformats/jpk"
)

// Segment designators accepted by Dataset.Segment.
const (
	Approach = "approach"
	Retract  = "retract"
)

const segmentColumn = "segment"

// Dataset is one force-distance curve.
//
// It holds the raw columns decoded from the file, which are never modified,
// derived columns written by the caller, and the curve metadata. Every
// column has Len rows.
type Dataset struct {
	raw      map[string]Column
	derived  map[string]Column
	metadata Metadata
	length   int
}

// NewDataset creates a dataset from raw columns and metadata.
// All raw columns must have the same length.
func NewDataset(raw map[string]Column, md Metadata) (*Dataset, error) {
	d := &Dataset{
		raw:      make(map[string]Column, len(raw)),
		derived:  make(map[string]Column),
		metadata: md.Clone(),
		length:   -1,
	}
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		c := raw[name]
		if d.length < 0 {
			d.length = c.Len()
		}
		if c.Len() != d.length {
			return nil, fmt.Errorf("%w: raw column %q has %d rows, want %d", ErrLength, name, c.Len(), d.length)
		}
		d.raw[name] = c
	}
	if d.length < 0 {
		d.length = 0
	}
	if d.metadata == nil {
		d.metadata = Metadata{}
	}
	return d, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.length
}

// Modality returns the imaging modality, always "force-distance".
func (d *Dataset) Modality() string {
	return ModeForceDistance
}

// Metadata returns a copy of the curve metadata.
func (d *Dataset) Metadata() Metadata {
	return d.metadata.Clone()
}

// Columns returns the names of all raw and derived columns in sorted order.
func (d *Dataset) Columns() []string {
	names := slices.Collect(maps.Keys(d.raw))
	for name := range d.derived {
		if _, ok := d.raw[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Column returns the named column. A derived column shadows a raw column of
// the same name. Raw columns are returned as copies.
func (d *Dataset) Column(name string) (Column, error) {
	if c, ok := d.derived[name]; ok {
		return c, nil
	}
	if c, ok := d.raw[name]; ok {
		return c.Clone(), nil
	}
	return Column{}, fmt.Errorf("%w: undefined column %q", ErrLookup, name)
}

// Set writes a derived column. The column must have Len rows. Raw columns
// are not modified; reads of name return c from now on.
func (d *Dataset) Set(name string, c Column) error {
	if c.Len() != d.length {
		return fmt.Errorf("%w: cannot set column %q of length %d for dataset of length %d", ErrLength, name, c.Len(), d.length)
	}
	d.derived[name] = c
	return nil
}

// Appr returns the approach segment.
func (d *Dataset) Appr() (*SegmentView, error) {
	return d.Segment(Approach)
}

// Retr returns the retract segment.
func (d *Dataset) Retr() (*SegmentView, error) {
	return d.Segment(Retract)
}

// Segment returns a view of the rows of one segment. which must be
// "approach" or "retract". The dataset must have a "segment" column.
func (d *Dataset) Segment(which string) (*SegmentView, error) {
	if which != Approach && which != Retract {
		return nil, fmt.Errorf("%w: segment must be %q or %q, got %q", ErrValidation, Approach, Retract, which)
	}
	if _, err := d.segments(); err != nil {
		return nil, err
	}
	return &SegmentView{d: d, which: which}, nil
}

// segments returns the segment column, derived before raw.
func (d *Dataset) segments() (Column, error) {
	if c, ok := d.derived[segmentColumn]; ok {
		return c, nil
	}
	if c, ok := d.raw[segmentColumn]; ok {
		return c, nil
	}
	return Column{}, fmt.Errorf("%w: could not identify segment data", ErrLookup)
}

// SegmentView is a read-only view of the rows of a Dataset that belong to
// one segment. The rows are selected at every read, so the view follows
// later writes to the dataset.
type SegmentView struct {
	d     *Dataset
	which string
}

// Which returns "approach" or "retract".
func (v *SegmentView) Which() string {
	return v.which
}

// mask selects the rows of the segment. Bool segment columns mark the
// retract rows true; code columns use the segment codes.
func (v *SegmentView) mask() ([]bool, error) {
	seg, err := v.d.segments()
	if err != nil {
		return nil, err
	}
	flag := jpk.SegmentApproach
	if v.which == Retract {
		flag = 1
		if seg.Kind() == ColumnCode {
			flag = jpk.SegmentRetract
		}
	}
	return seg.Match(flag), nil
}

// Column returns the rows of the named column in this segment, in dataset
// order. The result never aliases dataset storage.
func (v *SegmentView) Column(name string) (Column, error) {
	mask, err := v.mask()
	if err != nil {
		return Column{}, err
	}
	if c, ok := v.d.derived[name]; ok {
		return c.Select(mask), nil
	}
	if c, ok := v.d.raw[name]; ok {
		return c.Select(mask), nil
	}
	return Column{}, fmt.Errorf("%w: undefined column %q", ErrLookup, name)
}

// Len returns the number of rows in the segment.
func (v *SegmentView) Len() (int, error) {
	mask, err := v.mask()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, keep := range mask {
		if keep {
			n++
		}
	}
	return n, nil
}
