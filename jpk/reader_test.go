package jpk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/afmformats/internal/testutil"
	"github.com/meigma/afmformats/jpk/archive"
)

const testPoints = 10

// newReader writes j to a temporary archive and opens a Reader on it.
func newReader(t *testing.T, j testutil.JPK, opts ...Option) *Reader {
	t.Helper()
	path := testutil.WriteJPK(t, t.TempDir(), "curve.jpk-force", j)
	cache, err := archive.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	r, err := New(path, cache, opts...)
	require.NoError(t, err)
	return r
}

// indexedJPK returns an indexed archive whose curves copy the force-distance
// curve under the given enums. Curve i has position index i.
func indexedJPK(enums ...int) testutil.JPK {
	base := testutil.ForceDistance(testPoints).Curves[0]
	j := testutil.JPK{Indexed: true}
	for i, e := range enums {
		c := base
		c.Enum = e
		c.PositionIndex = i
		j.Curves = append(j.Curves, c)
	}
	return j
}

// withSegments returns a single-curve archive with the given segments.
func withSegments(segs ...testutil.Segment) testutil.JPK {
	j := testutil.ForceDistance(testPoints)
	j.Curves[0].Segments = segs
	return j
}

func segment(style string, duration float64) testutil.Segment {
	d := make([]int32, testPoints)
	for i := range d {
		d[i] = int32(i)
	}
	return testutil.Segment{Style: style, Duration: duration, ZStart: 1e-6, Deflection: d}
}

func TestNewRequiresCache(t *testing.T) {
	t.Parallel()

	_, err := New("curve.jpk-force", nil)
	assert.Error(t, err)
}

func TestReaderEntries(t *testing.T) {
	t.Parallel()

	r := newReader(t, testutil.ForceDistance(testPoints))
	assert.Equal(t, "curve.jpk-force", filepath.Base(r.Path()))

	entries, err := r.Entries()
	require.NoError(t, err)
	assert.Contains(t, entries, "segments/")
	assert.Contains(t, entries, "segments/1/channels/vDeflection.dat")
	assert.Contains(t, entries, "shared-data/header.properties")

	entries[0] = "changed"
	again, err := r.Entries()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again[0])
}

func TestReaderMissingArchive(t *testing.T) {
	t.Parallel()

	cache, err := archive.New()
	require.NoError(t, err)
	r, err := New(filepath.Join(t.TempDir(), "missing.jpk-force"), cache)
	require.NoError(t, err)

	_, err = r.Len()
	assert.Error(t, err)
}
