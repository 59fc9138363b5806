package jpk

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/meigma/afmformats/internal/pathutil"
)

const (
	singleRoot  = "segments/"
	indexedRoot = "index/"
)

// ResolveHierarchy classifies an entry listing. A "segments/" entry means a
// single curve, an "index/" entry means numbered curves. Anything else is
// ErrFormat.
func ResolveHierarchy(entries []string) (Hierarchy, error) {
	switch {
	case slices.Contains(entries, singleRoot):
		return HierarchySingle, nil
	case slices.Contains(entries, indexedRoot):
		return HierarchyIndexed, nil
	default:
		return 0, fmt.Errorf("%w: cannot determine hierarchy", ErrFormat)
	}
}

// EnumerateIndices returns the curve enum numbers of an entry listing.
//
// Single archives always have the one enum 0. Indexed archives list one
// "index/<enum>/" directory per curve; enums are returned in listing order,
// which is ascending for a naturally sorted listing. Duplicates and
// non-numeric directories are skipped.
func EnumerateIndices(entries []string, h Hierarchy) ([]int, error) {
	switch h {
	case HierarchySingle:
		return []int{0}, nil
	case HierarchyIndexed:
	default:
		return nil, fmt.Errorf("%w: no rule to enumerate hierarchy %q", ErrFormat, h)
	}
	var indices []int
	seen := make(map[int]struct{})
	for _, e := range entries {
		if strings.Count(e, "/") != 2 || !strings.HasSuffix(e, "/") {
			continue
		}
		name, _, ok := pathutil.Child(e, indexedRoot)
		if !ok || !pathutil.IsDigits(name) {
			continue
		}
		enum, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		if _, dup := seen[enum]; dup {
			continue
		}
		seen[enum] = struct{}{}
		indices = append(indices, enum)
	}
	return indices, nil
}

// Hierarchy returns the layout of the archive.
func (r *Reader) Hierarchy() (Hierarchy, error) {
	if r.hierarchy != 0 {
		return r.hierarchy, nil
	}
	if err := r.loadEntries(); err != nil {
		return 0, err
	}
	h, err := ResolveHierarchy(r.entries)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", r.path, err)
	}
	r.log().Debug("hierarchy resolved", "path", r.path, "hierarchy", h)
	r.hierarchy = h
	return h, nil
}

// Indices returns the enum numbers of the curves in the archive. The
// position of an enum in the result is its curve index.
func (r *Reader) Indices() ([]int, error) {
	if r.indices != nil {
		return slices.Clone(r.indices), nil
	}
	h, err := r.Hierarchy()
	if err != nil {
		return nil, err
	}
	indices, err := EnumerateIndices(r.entries, h)
	if err != nil {
		return nil, err
	}
	if indices == nil {
		indices = []int{}
	}
	r.indices = indices
	return slices.Clone(indices), nil
}

// Len returns the number of curves in the archive.
func (r *Reader) Len() (int, error) {
	indices, err := r.Indices()
	if err != nil {
		return 0, err
	}
	return len(indices), nil
}

// Enum returns the enum number of the curve at index.
func (r *Reader) Enum(index int) (int, error) {
	if _, err := r.Indices(); err != nil {
		return 0, err
	}
	if index < 0 || index >= len(r.indices) {
		return 0, fmt.Errorf("%w: curve index %d out of range [0, %d)", ErrLookup, index, len(r.indices))
	}
	return r.indices[index], nil
}

// IndexPath returns the archive directory of the curve at index: "" for
// single archives and "index/<enum>/" for indexed ones.
func (r *Reader) IndexPath(index int) (string, error) {
	enum, err := r.Enum(index)
	if err != nil {
		return "", err
	}
	var path string
	switch r.hierarchy {
	case HierarchySingle:
		path = ""
	case HierarchyIndexed:
		path = indexedRoot + strconv.Itoa(enum) + "/"
	default:
		return "", fmt.Errorf("%w: no rule to get path for hierarchy %q", ErrFormat, r.hierarchy)
	}
	if path != "" && !r.has(path) {
		return "", fmt.Errorf("%w: no path for index %d (enum %d)", ErrLookup, index, enum)
	}
	return path, nil
}

// SegmentPath returns the archive directory of one segment of a curve.
func (r *Reader) SegmentPath(index, segment int) (string, error) {
	enum, err := r.Enum(index)
	if err != nil {
		return "", err
	}
	var path string
	switch r.hierarchy {
	case HierarchySingle:
		path = singleRoot + strconv.Itoa(segment) + "/"
	case HierarchyIndexed:
		path = indexedRoot + strconv.Itoa(enum) + "/" + singleRoot + strconv.Itoa(segment) + "/"
	default:
		return "", fmt.Errorf("%w: no rule to get path for hierarchy %q", ErrFormat, r.hierarchy)
	}
	if !r.has(path) {
		return "", fmt.Errorf("%w: no path for index %d (enum %d) segment %d", ErrLookup, index, enum, segment)
	}
	return path, nil
}

// SegmentNumbers returns the segments of a curve, found by probing
// 0, 1, 2, ... until a segment directory is missing.
func (r *Reader) SegmentNumbers(index int) ([]int, error) {
	if segs, ok := r.segments[index]; ok {
		return slices.Clone(segs), nil
	}
	if _, err := r.Enum(index); err != nil {
		return nil, err
	}
	var segs []int
	for seg := 0; ; seg++ {
		_, err := r.SegmentPath(index, seg)
		if errors.Is(err, ErrLookup) {
			break
		}
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	r.segments[index] = segs
	return slices.Clone(segs), nil
}
