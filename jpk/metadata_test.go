package jpk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/afmformats/internal/testutil"
)

func TestSegmentMetadataForceDistance(t *testing.T) {
	t.Parallel()

	r := newReader(t, testutil.ForceDistance(testPoints))

	approach, err := r.SegmentMetadata(0, 0)
	require.NoError(t, err)

	assert.Equal(t, Float(testutil.DefaultSpringConstant), approach["spring constant"])
	assert.Equal(t, Float(testutil.DefaultSensitivity), approach["sensitivity"])
	assert.Equal(t, Int(testPoints), approach["point count"])
	assert.Equal(t, Float(1), approach["duration"])
	assert.Equal(t, Float(1), approach["duration approach"])
	assert.Equal(t, Text("JPK"), approach["software"])
	assert.Equal(t, Text("SPM 6.1.86"), approach["software version"])
	assert.Equal(t, Text("JPK00000-CH"), approach["instrument"])
	assert.Equal(t, Int(0), approach["enum"])
	assert.Equal(t, Text(r.Path()), approach["path"])
	assert.Equal(t, Text(ModeForceDistance), approach["imaging mode"])
	assert.Equal(t, Text("session-1:7"), approach["curve id"])
	assert.Equal(t, Text("2019-02-25"), approach["date"])
	assert.Equal(t, Text("16:24:49"), approach["time"])

	rate, _ := approach.Float("rate approach")
	assert.InDelta(t, 10.0, rate, 1e-12)
	speed, _ := approach.Float("speed approach")
	assert.InDelta(t, 2e-6, speed, 1e-18)
	setpoint, _ := approach.Float("setpoint")
	assert.InDelta(t, 0.5*testutil.DefaultSpringConstant*testutil.DefaultSensitivity, setpoint, 1e-24)

	retract, err := r.SegmentMetadata(0, 1)
	require.NoError(t, err)
	assert.Equal(t, Float(2), retract["duration retract"])
	rate, _ = retract.Float("rate retract")
	assert.InDelta(t, 5.0, rate, 1e-12)
	speed, _ = retract.Float("speed retract")
	assert.InDelta(t, 1e-6, speed, 1e-18)
	assert.NotContains(t, retract, "date", "date is taken from the approach segment")
	assert.NotContains(t, retract, "setpoint")
	assert.NotContains(t, retract, "rate approach")
}

func TestMetadataWholeCurve(t *testing.T) {
	t.Parallel()

	r := newReader(t, testutil.ForceDistance(testPoints))

	md, err := r.Metadata(0)
	require.NoError(t, err)

	assert.Equal(t, Float(3), md["duration"], "durations are summed")
	assert.Equal(t, Int(2*testPoints), md["point count"], "point counts are summed")
	assert.Equal(t, Float(1), md["duration approach"])
	assert.Equal(t, Float(2), md["duration retract"])
	assert.Contains(t, md, "rate approach")
	assert.Contains(t, md, "rate retract")
	assert.Equal(t, Text("2019-02-25"), md["date"])
	assert.Equal(t, Text(ModeForceDistance), md["imaging mode"])

	md["duration"] = Float(-1)
	again, err := r.Metadata(0)
	require.NoError(t, err)
	assert.Equal(t, Float(3), again["duration"], "callers receive copies")
}

func TestMetadataIndexed(t *testing.T) {
	t.Parallel()

	r := newReader(t, indexedJPK(5, 6, 12))

	for i, enum := range []int64{5, 6, 12} {
		md, err := r.Metadata(i)
		require.NoError(t, err)
		assert.Equal(t, Int(enum), md["enum"])
		assert.Equal(t, Text("session-1:"+Int(int64(i)).String()), md["curve id"])
	}
}

func TestMetadataImagingMode(t *testing.T) {
	t.Parallel()

	pause := func(typ string) testutil.Segment {
		s := segment("pause", 4)
		s.PauseType = typ
		return s
	}

	tests := []struct {
		name     string
		segments []testutil.Segment
		want     string
		wantErr  error
	}{
		{
			name:     "creep compliance",
			segments: []testutil.Segment{segment("extend", 1), pause("constant-force-pause"), segment("retract", 1)},
			want:     ModeCreepCompliance,
		},
		{
			name:     "stress relaxation",
			segments: []testutil.Segment{segment("extend", 1), pause("constant-height-pause"), segment("retract", 1)},
			want:     ModeStressRelaxation,
		},
		{
			name:     "unknown pause type",
			segments: []testutil.Segment{segment("extend", 1), pause("wobble-pause"), segment("retract", 1)},
			wantErr:  ErrValidation,
		},
		{
			name:     "middle segment is not a pause",
			segments: []testutil.Segment{segment("extend", 1), segment("extend", 1), segment("retract", 1)},
			wantErr:  ErrValidation,
		},
		{
			name:     "too many segments",
			segments: []testutil.Segment{segment("extend", 1), pause("constant-force-pause"), segment("retract", 1), segment("retract", 1)},
			wantErr:  ErrFormat,
		},
		{
			name:     "single segment",
			segments: []testutil.Segment{segment("extend", 1)},
			wantErr:  ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newReader(t, withSegments(tt.segments...))

			md, err := r.Metadata(0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Text(tt.want), md["imaging mode"])
			assert.Equal(t, Float(4), md["duration intermediate"])
			assert.Equal(t, Float(6), md["duration"])
			assert.NotContains(t, md, "rate intermediate")

			// Only the pause segment carries the mode.
			approach, err := r.SegmentMetadata(0, 0)
			require.NoError(t, err)
			assert.NotContains(t, approach, "imaging mode")
		})
	}
}

func TestSegmentMetadataErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing spring constant", func(t *testing.T) {
		t.Parallel()
		j := testutil.ForceDistance(testPoints)
		j.Omit = []string{"shared-data/header.properties"}
		r := newReader(t, j)

		_, err := r.SegmentMetadata(0, 0)
		assert.ErrorIs(t, err, ErrMissingMetadata)
	})

	t.Run("unknown curve type", func(t *testing.T) {
		t.Parallel()
		r := newReader(t, withSegments(segment("extend", 1), segment("sideways", 1)))

		_, err := r.SegmentMetadata(0, 1)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("malformed time stamp", func(t *testing.T) {
		t.Parallel()
		s := segment("extend", 1)
		s.TimeStamp = "yesterday"
		r := newReader(t, withSegments(s, segment("retract", 1)))

		_, err := r.SegmentMetadata(0, 0)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing session id", func(t *testing.T) {
		t.Parallel()
		r := newReader(t, testutil.ForceDistance(testPoints), WithRecipes(Recipe{
			"spring constant": {"channel.vDeflection.conversion-set.conversion.force.scaling.multiplier"},
			"sensitivity":     {"channel.vDeflection.conversion-set.conversion.distance.scaling.multiplier"},
			"point count":     {"force-segment-header.num-points"},
		}, nil))

		_, err := r.SegmentMetadata(0, 0)
		assert.ErrorIs(t, err, ErrMissingMetadata)
	})

	t.Run("segment out of range", func(t *testing.T) {
		t.Parallel()
		r := newReader(t, testutil.ForceDistance(testPoints))

		_, err := r.SegmentMetadata(0, 5)
		assert.ErrorIs(t, err, ErrLookup)
		_, err = r.Metadata(1)
		assert.ErrorIs(t, err, ErrLookup)
	})
}

func TestWithRecipesExtraKey(t *testing.T) {
	t.Parallel()

	primary := DefaultPrimaryRecipe()
	primary["identifier"] = []string{"force-segment-header.settings.segment-settings.identifier"}
	r := newReader(t, testutil.ForceDistance(testPoints), WithRecipes(primary, nil))

	md, err := r.SegmentMetadata(0, 1)
	require.NoError(t, err)
	assert.Equal(t, Text("ExtendedForceSettings"), md["identifier"])
}

func TestRecipeClone(t *testing.T) {
	t.Parallel()

	r := DefaultSecondaryRecipe()
	c := r.Clone()
	c["position index"][0] = "changed"
	assert.NotEqual(t, "changed", r["position index"][0])
}
