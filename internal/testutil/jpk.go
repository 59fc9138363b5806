package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
)

// Segment describes one acquisition phase of a synthetic curve.
type Segment struct {
	// Style is "extend", "pause" or "retract".
	Style string

	// PauseType is written for pause segments, e.g. "constant-force-pause".
	PauseType string

	Duration float64
	ZStart   float64
	ZEnd     float64

	// Deflection holds the raw vDeflection samples; its length is the point count.
	Deflection []int32

	// Height holds piezo height samples in meters. Omitted when nil.
	Height []float32

	// SetpointV is written as the segment setpoint in volts when non-zero.
	SetpointV float64

	// TimeStamp defaults to "2019-02-25 16:24:49 UTC" for extend segments.
	TimeStamp string

	// Properties are extra segment-header properties; they win over generated ones.
	Properties map[string]string
}

// Curve is one force curve with its segments.
type Curve struct {
	// Enum is the instrument's curve number (indexed archives only).
	Enum int

	PositionIndex int
	Segments      []Segment
}

// JPK describes a synthetic JPK archive.
type JPK struct {
	// Indexed selects the "index/<enum>/" layout; otherwise Curves must hold one curve.
	Indexed bool
	Curves  []Curve

	SpringConstant float64
	Sensitivity    float64
	SessionID      string

	// General holds extra properties for the top-level header.
	General map[string]string

	// Shared holds extra shared-data properties; they win over generated ones.
	Shared map[string]string

	// Omit lists entry names that are dropped from the archive.
	Omit []string

	Compression Compression
}

// Default spring constant and sensitivity of synthetic archives.
const (
	DefaultSpringConstant = 0.05
	DefaultSensitivity    = 2e-8
)

// ForceDistance returns a single-curve archive description with one
// approach and one retract segment of n points each.
func ForceDistance(n int) JPK {
	return JPK{
		Curves: []Curve{{
			PositionIndex: 7,
			Segments: []Segment{
				{Style: "extend", Duration: 1, ZStart: 2e-6, ZEnd: 0, Deflection: ramp(n, 0, 1), Height: heights(n, 2e-6, 0), SetpointV: 0.5},
				{Style: "retract", Duration: 2, ZStart: 0, ZEnd: 2e-6, Deflection: ramp(n, int32(n-1), -1), Height: heights(n, 0, 2e-6)},
			},
		}},
	}
}

// ForceMap returns an indexed archive description with the given number of
// force-distance curves, enumerated from 0.
func ForceMap(curves, n int) JPK {
	base := ForceDistance(n).Curves[0]
	j := JPK{Indexed: true, Curves: make([]Curve, curves)}
	for i := range j.Curves {
		c := base
		c.Enum = i
		c.PositionIndex = i
		j.Curves[i] = c
	}
	return j
}

func ramp(n int, start, step int32) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = start + int32(i)*step
	}
	return out
}

func heights(n int, from, to float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = from + (to-from)*float32(i)/float32(n)
	}
	return out
}

// Files returns the archive entries of j.
func (j JPK) Files() map[string][]byte {
	k := j.SpringConstant
	if k == 0 {
		k = DefaultSpringConstant
	}
	sens := j.Sensitivity
	if sens == 0 {
		sens = DefaultSensitivity
	}
	session := j.SessionID
	if session == "" {
		session = "session-1"
	}

	files := make(map[string][]byte)

	general := map[string]string{
		"force-scan-series.description.instrument":      "JPK00000-CH",
		"force-scan-series.description.source-software": "SPM 6.1.86",
		"force-scan-series.header.session-id":           session,
	}
	maps.Copy(general, j.General)
	files["header.properties"] = formatProperties(general)

	// Conversions and encoder are stored once in shared data and referenced
	// by the channel's lcd-info pointer. Conversion chains end at the encoder
	// slot "volts", which has no conversion block of its own.
	shared := map[string]string{
		"lcd-infos.count":                                                     "2",
		"lcd-info.0.channel.name":                                             "vDeflection",
		"lcd-info.0.encoder.scaling.multiplier":                               "1.0",
		"lcd-info.0.encoder.scaling.offset":                                   "0.0",
		"lcd-info.0.encoder.scaling.unit.unit":                                "V",
		"lcd-info.0.conversion-set.conversions.base":                          "volts",
		"lcd-info.0.conversion-set.conversions.default":                       "force",
		"lcd-info.0.conversion-set.conversion.distance.base-calibration-slot": "volts",
		"lcd-info.0.conversion-set.conversion.distance.scaling.multiplier":    formatFloat(sens),
		"lcd-info.0.conversion-set.conversion.distance.scaling.offset":        "0.0",
		"lcd-info.0.conversion-set.conversion.distance.scaling.unit.unit":     "m",
		"lcd-info.0.conversion-set.conversion.force.base-calibration-slot":    "distance",
		"lcd-info.0.conversion-set.conversion.force.scaling.multiplier":       formatFloat(k),
		"lcd-info.0.conversion-set.conversion.force.scaling.offset":           "0.0",
		"lcd-info.0.conversion-set.conversion.force.scaling.unit.unit":        "N",
		"lcd-info.1.channel.name":                                             "height",
		"lcd-info.1.conversion-set.conversions.base":                          "volts",
		"lcd-info.1.conversion-set.conversion.nominal.base-calibration-slot":  "volts",
		"lcd-info.1.conversion-set.conversion.nominal.scaling.multiplier":     "1.0",
		"lcd-info.1.conversion-set.conversion.nominal.scaling.unit.unit":      "m",
		"force-segment-header-info.0.settings.segment-settings.identifier":    "ExtendedForceSettings",
	}
	maps.Copy(shared, j.Shared)
	files["shared-data/header.properties"] = formatProperties(shared)

	for _, c := range j.Curves {
		prefix := ""
		if j.Indexed {
			prefix = "index/" + strconv.Itoa(c.Enum) + "/"
			files[prefix+"header.properties"] = formatProperties(map[string]string{
				"quantitative-imaging-series.header.position-index": strconv.Itoa(c.PositionIndex),
			})
		}
		for n, s := range c.Segments {
			segPath := prefix + "segments/" + strconv.Itoa(n) + "/"
			files[segPath+"segment-header.properties"] = formatProperties(segmentProperties(c, s))
			files[segPath+"channels/vDeflection.dat"] = encode(s.Deflection)
			if s.Height != nil {
				files[segPath+"channels/height.dat"] = encode(s.Height)
			}
		}
	}
	for _, name := range j.Omit {
		delete(files, name)
	}
	return files
}

func segmentProperties(c Curve, s Segment) map[string]string {
	const settings = "force-segment-header.settings.segment-settings."
	p := map[string]string{
		"force-segment-header.num-points":                   strconv.Itoa(len(s.Deflection)),
		"force-segment-header.force-segment-header-info.*": "0",
		settings + "style":                                  s.Style,
		settings + "duration":                               formatFloat(s.Duration),
		settings + "z-start":                                formatFloat(s.ZStart),
		settings + "z-end":                                  formatFloat(s.ZEnd),
		"force-segment-header.environment.xy-scanner-position-map.xy-scanners.position-index": strconv.Itoa(c.PositionIndex),
		"channel.vDeflection.lcd-info.*":   "0",
		"channel.vDeflection.data.type":    "integer-data",
		"channel.vDeflection.data.file.name": "channels/vDeflection.dat",
	}
	if s.PauseType != "" {
		p[settings+"type"] = s.PauseType
	}
	if s.SetpointV != 0 {
		p[settings+"setpoint.value"] = formatFloat(s.SetpointV)
	}
	if s.Style == "extend" || s.TimeStamp != "" {
		ts := s.TimeStamp
		if ts == "" {
			ts = "2019-02-25 16:24:49 UTC"
		}
		p["force-segment-header.time-stamp"] = ts
	}
	if s.Height != nil {
		p["channel.height.lcd-info.*"] = "1"
		p["channel.height.data.type"] = "float-data"
	}
	maps.Copy(p, s.Properties)
	return p
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func encode[T int32 | float32](v []T) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = binary.Write(&buf, binary.BigEndian, v)
	return buf.Bytes()
}

// formatProperties renders p as a properties file with sorted keys.
func formatProperties(p map[string]string) []byte {
	var b strings.Builder
	b.WriteString("#Mon Feb 25 16:24:49 CET 2019\n")
	for _, k := range slices.Sorted(maps.Keys(p)) {
		fmt.Fprintf(&b, "%s=%s\n", k, escape(p[k]))
	}
	return []byte(b.String())
}

func escape(v string) string {
	return strings.NewReplacer(`\`, `\\`, ":", `\:`).Replace(v)
}

// Write writes j as a zip archive to path.
func (j JPK) Write(path string) error {
	return CreateZip(path, j.Files(), j.Compression)
}

// WriteJPK writes j to dir/name and returns the path.
func WriteJPK(tb testing.TB, dir, name string, j JPK) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := j.Write(path); err != nil {
		tb.Fatalf("write jpk: %v", err)
	}
	return path
}
