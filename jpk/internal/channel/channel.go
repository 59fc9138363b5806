// Package channel locates and decodes JPK channel data files.
//
// Each segment stores its channels as big-endian binary files under
// "<segment>/channels/<name>.dat". The raw samples are scaled by the channel
// encoder and then converted through the conversion set of the channel
// (e.g. raw -> volts -> distance -> force) to reach the requested slot.
package channel

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/meigma/afmformats/internal/pathutil"
	"github.com/meigma/afmformats/jpk/internal/jpktype"
)

// Channel identifies the data file that backs a column.
type Channel struct {
	// Name is the JPK channel name, e.g. "vDeflection".
	Name string

	// Slot is the conversion slot the column is expressed in, e.g. "force".
	Slot string

	// Path is the archive entry holding the samples.
	Path string
}

// column lists the candidate channels and the slot of a known column.
type column struct {
	channels []string
	slot     string
}

var columns = map[string]column{
	"force": {
		channels: []string{"vDeflection"},
		slot:     "force",
	},
	"height (measured)": {
		channels: []string{"strainGaugeHeight", "capacitiveSensorHeight", "measuredHeight"},
		slot:     "nominal",
	},
	"height (piezo)": {
		channels: []string{"height"},
		slot:     "nominal",
	},
}

// Units lists the canonical physical unit of every column the locator knows.
var Units = map[string]string{
	"force":             "N",
	"height (measured)": "m",
	"height (piezo)":    "m",
	"time":              "s",
}

// Locator finds channel files by column name.
type Locator struct{}

// Find returns the channel backing column among entries.
// Channels are tried in order of preference. It fails with
// ErrChannelNotFound when none of them has a data file.
func (Locator) Find(entries []string, col string) (Channel, error) {
	c, ok := columns[col]
	if !ok {
		return Channel{}, fmt.Errorf("%w: no channel for column %q", jpktype.ErrLookup, col)
	}
	for _, name := range c.channels {
		want := name + ".dat"
		for _, e := range entries {
			if pathutil.Base(e) != want || pathutil.Base(strings.TrimSuffix(e, want)) != "channels" {
				continue
			}
			return Channel{Name: name, Slot: c.slot, Path: e}, nil
		}
	}
	return Channel{}, fmt.Errorf("%w: column %q (tried %s)", jpktype.ErrChannelNotFound, col, strings.Join(c.channels, ", "))
}

// maxConversionDepth bounds base-calibration-slot chains.
const maxConversionDepth = 16

// Decoder decodes JPK channel files.
type Decoder struct{}

// Decode reads the samples of channel name from r and converts them to slot.
// A slot of "default" resolves to the channel's default conversion.
// It returns the converted samples and their unit.
func (Decoder) Decode(r io.Reader, name string, p jpktype.Properties, slot string) ([]float64, string, error) {
	data, unit, err := decodeRaw(r, name, p)
	if err != nil {
		return nil, "", err
	}
	if slot == "default" {
		def, ok := p.Text(channelKey(name, "conversion-set.conversions.default"))
		if !ok {
			return nil, "", fmt.Errorf("%w: channel %s has no default conversion", jpktype.ErrMissingMetadata, name)
		}
		slot = def
	}
	unit, err = convert(data, unit, name, p, slot, 0)
	if err != nil {
		return nil, "", err
	}
	return data, unit, nil
}

func channelKey(name, suffix string) string {
	return "channel." + name + "." + suffix
}

// lookup returns the first key present in p, trying "channel.<name>.data.<suffix>"
// before the lcd-info resolved "channel.<name>.<suffix>".
func lookup(p jpktype.Properties, name, suffix string) (jpktype.Value, bool) {
	for _, key := range []string{channelKey(name, "data."+suffix), channelKey(name, suffix)} {
		if v, ok := p[key]; ok {
			return v, true
		}
	}
	return jpktype.Value{}, false
}

func decodeRaw(r io.Reader, name string, p jpktype.Properties) ([]float64, string, error) {
	typ, ok := lookup(p, name, "type")
	if !ok {
		return nil, "", fmt.Errorf("%w: channel %s has no data type", jpktype.ErrMissingMetadata, name)
	}
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read channel %s: %w", name, err)
	}

	var data []float64
	scaled := true
	switch typ.String() {
	case "short", "short-data", "memory-short-data":
		data = decodeInts(buf, 2, func(b []byte) float64 { return float64(int16(binary.BigEndian.Uint16(b))) })
	case "integer-data", "memory-integer-data":
		data = decodeInts(buf, 4, func(b []byte) float64 { return float64(int32(binary.BigEndian.Uint32(b))) })
	case "float", "float-data":
		data = decodeInts(buf, 4, func(b []byte) float64 { return float64(math.Float32frombits(binary.BigEndian.Uint32(b))) })
		scaled = false
	case "double", "double-data":
		data = decodeInts(buf, 8, func(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) })
		scaled = false
	default:
		return nil, "", fmt.Errorf("%w: channel %s has unsupported data type %q", jpktype.ErrFormat, name, typ.String())
	}

	unit := ""
	if u, ok := lookup(p, name, "encoder.scaling.unit.unit"); ok {
		unit = u.String()
	}
	if !scaled {
		return data, unit, nil
	}
	mult, ok := lookupFloat(p, name, "encoder.scaling.multiplier")
	if !ok {
		return nil, "", fmt.Errorf("%w: channel %s has no encoder multiplier", jpktype.ErrMissingMetadata, name)
	}
	off, _ := lookupFloat(p, name, "encoder.scaling.offset")
	for i := range data {
		data[i] = data[i]*mult + off
	}
	return data, unit, nil
}

func lookupFloat(p jpktype.Properties, name, suffix string) (float64, bool) {
	v, ok := lookup(p, name, suffix)
	if !ok {
		return 0, false
	}
	return v.Float()
}

func decodeInts(buf []byte, size int, conv func([]byte) float64) []float64 {
	n := len(buf) / size
	out := make([]float64, n)
	for i := range n {
		out[i] = conv(buf[i*size : (i+1)*size])
	}
	return out
}

// convert applies the conversion chain ending in slot to data in place.
// The chain stops at "raw" or at the encoder slot named by
// conversion-set.conversions.base, usually "volts".
func convert(data []float64, unit, name string, p jpktype.Properties, slot string, depth int) (string, error) {
	if slot == "raw" || slot == "" {
		return unit, nil
	}
	if base, ok := p.Text(channelKey(name, "conversion-set.conversions.base")); ok && slot == base {
		return unit, nil
	}
	if depth >= maxConversionDepth {
		return "", fmt.Errorf("%w: channel %s conversion chain too deep at %q", jpktype.ErrFormat, name, slot)
	}
	prefix := channelKey(name, "conversion-set.conversion."+slot+".")
	if defined, ok := p.Text(prefix + "defined"); ok && defined == "false" {
		return "", fmt.Errorf("%w: channel %s conversion %q is not defined", jpktype.ErrValidation, name, slot)
	}
	base, ok := p.Text(prefix + "base-calibration-slot")
	if !ok {
		return "", fmt.Errorf("%w: channel %s has no conversion %q", jpktype.ErrMissingMetadata, name, slot)
	}
	unit, err := convert(data, unit, name, p, base, depth+1)
	if err != nil {
		return "", err
	}
	mult, ok := p.Float(prefix + "scaling.multiplier")
	if !ok {
		return "", fmt.Errorf("%w: channel %s conversion %q has no multiplier", jpktype.ErrMissingMetadata, name, slot)
	}
	off, _ := p.Float(prefix + "scaling.offset")
	for i := range data {
		data[i] = data[i]*mult + off
	}
	if u, ok := p.Text(prefix + "scaling.unit.unit"); ok {
		unit = u
	}
	return unit, nil
}
