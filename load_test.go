package afmformats

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/afmformats/internal/testutil"
	"github.com/meigma/afmformats/jpk"
	"github.com/meigma/afmformats/jpk/archive"
)

const testPoints = 8

func forceMap(enums ...int) testutil.JPK {
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

func TestLoadForceDistance(t *testing.T) {
	t.Parallel()

	path := testutil.WriteJPK(t, t.TempDir(), "curve.jpk-force", testutil.ForceDistance(testPoints))

	curves, err := Load(path)
	require.NoError(t, err)
	require.Len(t, curves, 1)

	ds := curves[0]
	assert.Equal(t, 2*testPoints, ds.Len())
	assert.Equal(t, []string{"force", "height (piezo)", "segment", "time"}, ds.Columns(),
		"height (measured) is not recorded in the file")

	md := ds.Metadata()
	assert.Equal(t, Text("force-distance"), md["imaging mode"])
	assert.Equal(t, Float(3), md["duration"])
	assert.Equal(t, Text(path), md["path"])

	appr, err := ds.Appr()
	require.NoError(t, err)
	force, err := appr.Column("force")
	require.NoError(t, err)
	require.Equal(t, testPoints, force.Len())
	assert.InDelta(t, 0.0, force.Floats()[0], 1e-20)

	retr, err := ds.Retr()
	require.NoError(t, err)
	tm, err := retr.Column("time")
	require.NoError(t, err)
	require.Equal(t, testPoints, tm.Len())
	assert.InDelta(t, 1.0, tm.Floats()[0], 1e-12)
}

func TestLoadForceMapProgress(t *testing.T) {
	t.Parallel()

	path := testutil.WriteJPK(t, t.TempDir(), "map.jpk-force-map", forceMap(0, 1, 2, 10))

	var events []ProgressEvent
	curves, err := Load(path, LoadWithProgress(func(e ProgressEvent) {
		events = append(events, e)
	}))
	require.NoError(t, err)
	require.Len(t, curves, 4)
	require.Len(t, events, 4)

	for i, e := range events {
		assert.Equal(t, path, e.Path)
		assert.Equal(t, i+1, e.CurvesDone)
		assert.Equal(t, 4, e.CurvesTotal)
	}
	assert.InDelta(t, 1.0, events[3].Fraction(), 1e-12)

	for i, enum := range []int64{0, 1, 2, 10} {
		assert.Equal(t, Int(enum), curves[i].Metadata()["enum"])
	}
}

func TestLoadWithColumns(t *testing.T) {
	t.Parallel()

	path := testutil.WriteJPK(t, t.TempDir(), "curve.jpk-qi-data", testutil.ForceDistance(testPoints))

	curves, err := Load(path, LoadWithColumns("force", "segment"))
	require.NoError(t, err)
	require.Len(t, curves, 1)
	assert.Equal(t, []string{"force", "segment"}, curves[0].Columns())
}

func TestLoadMissingChannel(t *testing.T) {
	t.Parallel()

	j := testutil.ForceDistance(testPoints)
	for i := range j.Curves[0].Segments {
		j.Curves[0].Segments[i].Height = nil
	}
	path := testutil.WriteJPK(t, t.TempDir(), "curve.jpk-force", j)

	curves, err := Load(path)
	require.NoError(t, err)
	require.Len(t, curves, 1)
	assert.Equal(t, []string{"force", "segment", "time"}, curves[0].Columns(),
		"only the columns without a data file are skipped")
}

func TestLoadConversionFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// The channel file is present but its chain cannot reach the encoder slot.
	j := testutil.ForceDistance(testPoints)
	j.Shared = map[string]string{
		"lcd-info.0.conversion-set.conversion.distance.base-calibration-slot": "calibrated",
	}
	path := testutil.WriteJPK(t, dir, "broken.jpk-force", j)

	curves, err := Load(path)
	require.ErrorIs(t, err, ErrMissingMetadata)
	assert.NotErrorIs(t, err, ErrChannelNotFound)
	assert.Nil(t, curves)

	// A column no channel is known for fails the load as well.
	path = testutil.WriteJPK(t, dir, "curve.jpk-force", testutil.ForceDistance(testPoints))
	_, err = Load(path, LoadWithColumns("force", "viscosity"))
	assert.ErrorIs(t, err, ErrLookup)
}

func TestLoadWithSharedCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := testutil.WriteJPK(t, dir, "a.jpk-force", testutil.ForceDistance(testPoints))
	second := testutil.WriteJPK(t, dir, "b.jpk-force", testutil.ForceDistance(testPoints))

	cache, err := archive.New(archive.WithCapacity(1))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	for _, p := range []string{first, second, first} {
		curves, err := Load(p, LoadWithCache(cache))
		require.NoError(t, err)
		require.Len(t, curves, 1)
	}
	assert.Equal(t, []string{first}, cache.Paths(), "the caller's cache stays open")
}

func TestLoadWithReaderOptions(t *testing.T) {
	t.Parallel()

	path := testutil.WriteJPK(t, t.TempDir(), "curve.jpk-force", testutil.ForceDistance(testPoints))
	units := jpk.DefaultUnits()
	units["force"] = "pN"

	_, err := Load(path, LoadWithReaderOptions(jpk.WithUnits(units)))
	assert.ErrorIs(t, err, ErrUnitMismatch)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "curve.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	path := testutil.WriteJPK(t, dir, "curve.jpk-force", testutil.ForceDistance(testPoints))
	_, err = Load(path, LoadWithMode("creep-compliance"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	j := testutil.ForceDistance(testPoints)
	j.Omit = []string{"shared-data/header.properties"}
	broken := testutil.WriteJPK(t, dir, "broken.jpk-force", j)
	_, err = Load(broken)
	assert.ErrorIs(t, err, ErrMissingMetadata)

	_, err = Load(filepath.Join(dir, "missing.jpk-force"))
	assert.Error(t, err)
}

func TestSupportedExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{".jpk-force", ".jpk-force-map", ".jpk-qi-data"}, SupportedExtensions())
	for _, f := range Formats() {
		assert.Equal(t, ModeForceDistance, f.Mode)
	}
}
