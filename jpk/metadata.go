package jpk

import (
	"fmt"
	"maps"
	"math"
	"strings"
)

// Segment kinds derived from the "curve type" of a segment.
const (
	kindApproach     = "approach"
	kindIntermediate = "intermediate"
	kindRetract      = "retract"
)

var curveKinds = map[string]string{
	"extend":  kindApproach,
	"pause":   kindIntermediate,
	"retract": kindRetract,
}

// Imaging modes.
const (
	ModeForceDistance     = "force-distance"
	ModeCreepCompliance   = "creep-compliance"
	ModeStressRelaxation  = "stress-relaxation"
	pauseConstantForce    = "constant-force-pause"
	pauseConstantHeight   = "constant-height-pause"
	requiredPauseSegment  = 1
	forceDistanceSegments = 2
	pauseSegments         = 3
)

// integerKeys are stored as rounded integers.
var integerKeys = []string{
	"grid shape x",
	"grid shape y",
	"grid index x",
	"grid index y",
	"point count",
}

// accumulatedKeys are summed over segments in whole-curve metadata.
var accumulatedKeys = []string{"duration", "point count"}

// Metadata returns the metadata of a whole curve.
//
// Segment metadata is merged from the last segment to the first. Durations
// and point counts are summed; for every other key the earliest segment
// wins, which keeps approach-only keys such as "date" and "time".
func (r *Reader) Metadata(index int) (Metadata, error) {
	key := memoKey{index: index, segment: noSegment}
	if md, ok := r.metadata[key]; ok {
		return md.Clone(), nil
	}
	segs, err := r.SegmentNumbers(index)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: %s: curve %d has no segments", ErrFormat, r.path, index)
	}

	md := Metadata{}
	for i := len(segs) - 1; i >= 0; i-- {
		segMD, err := r.SegmentMetadata(index, segs[i])
		if err != nil {
			return nil, err
		}
		for _, k := range accumulatedKeys {
			total, ok := md[k]
			v, ok2 := segMD[k]
			if !ok || !ok2 {
				continue
			}
			sum, err := Add(total, v)
			if err != nil {
				return nil, fmt.Errorf("%s: %q: %w", r.path, k, err)
			}
			md[k] = sum
			delete(segMD, k)
		}
		maps.Copy(md, segMD)
	}
	r.metadata[key] = md
	return md.Clone(), nil
}

// SegmentMetadata returns the metadata of one segment of a curve.
func (r *Reader) SegmentMetadata(index, segment int) (Metadata, error) {
	key := memoKey{index: index, segment: segment}
	if md, ok := r.metadata[key]; ok {
		return md.Clone(), nil
	}
	md, err := r.buildSegmentMetadata(index, segment)
	if err != nil {
		return nil, fmt.Errorf("%s: curve %d segment %d: %w", r.path, index, segment, err)
	}
	r.metadata[key] = md
	return md.Clone(), nil
}

func (r *Reader) buildSegmentMetadata(index, segment int) (Metadata, error) {
	p, err := r.SegmentProperties(index, segment)
	if err != nil {
		return nil, err
	}

	// Primary metadata ends up in the dataset.
	md := Metadata{}
	r.primary.resolve(p, md)
	for _, k := range []string{"spring constant", "sensitivity"} {
		if _, ok := md[k]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingMetadata, k)
		}
	}
	enum, err := r.Enum(index)
	if err != nil {
		return nil, err
	}
	md["software"] = Text("JPK")
	md["enum"] = Int(int64(enum))
	md["path"] = Text(r.path)

	// Secondary metadata is only used to derive values.
	im := Metadata{}
	r.secondary.resolve(p, im)

	kind, err := curveKind(im)
	if err != nil {
		return nil, err
	}
	duration, err := requireFloat(im, "segment duration")
	if err != nil {
		return nil, err
	}
	if kind == kindApproach || kind == kindRetract {
		points, err := requireFloat(md, "point count")
		if err != nil {
			return nil, err
		}
		zStart, err := requireFloat(im, "z start")
		if err != nil {
			return nil, err
		}
		zEnd, err := requireFloat(im, "z end")
		if err != nil {
			return nil, err
		}
		md["rate "+kind] = Float(points / duration)
		md["speed "+kind] = Float(math.Abs(zStart-zEnd) / duration)
	}
	md["duration "+kind] = Float(duration)

	if err := r.classifyMode(md, im, segment); err != nil {
		return nil, err
	}

	session, ok := md["session id"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingMetadata, "session id")
	}
	position, ok := im["position index"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingMetadata, "position index")
	}
	md["curve id"] = Text(session.String() + ":" + position.String())

	if _, ok := im["setpoint [V]"]; ok {
		setpoint, err := requireFloat(im, "setpoint [V]")
		if err != nil {
			return nil, err
		}
		k, err := requireFloat(md, "spring constant")
		if err != nil {
			return nil, err
		}
		sens, err := requireFloat(md, "sensitivity")
		if err != nil {
			return nil, err
		}
		md["setpoint"] = Float(setpoint * k * sens)
	}

	if kind == kindApproach {
		date, clock, err := splitTimeStamp(im)
		if err != nil {
			return nil, err
		}
		md["date"] = Text(date)
		md["time"] = Text(clock)
	}

	for _, k := range integerKeys {
		v, ok := md[k]
		if !ok {
			continue
		}
		i, ok := v.Int()
		if !ok {
			return nil, fmt.Errorf("%w: %q is not numeric: %#v", ErrValidation, k, v)
		}
		md[k] = Int(i)
	}
	return md, nil
}

// classifyMode sets "imaging mode" from the number of segments of the first
// curve. Three-segment curves are classified from the pause segment only.
func (r *Reader) classifyMode(md, im Metadata, segment int) error {
	segs, err := r.SegmentNumbers(0)
	if err != nil {
		return err
	}
	switch len(segs) {
	case forceDistanceSegments:
		md["imaging mode"] = Text(ModeForceDistance)
	case pauseSegments:
		if segment != requiredPauseSegment {
			return nil
		}
		if kind, _ := curveKind(im); kind != kindIntermediate {
			return fmt.Errorf("%w: segment 1 must be of type \"pause\"", ErrValidation)
		}
		pause, err := requireText(im, "segment pause type")
		if err != nil {
			return err
		}
		switch pause {
		case pauseConstantForce:
			md["imaging mode"] = Text(ModeCreepCompliance)
		case pauseConstantHeight:
			// Inherited assumption: constant height during the pause is
			// taken to mean a stress-relaxation measurement.
			md["imaging mode"] = Text(ModeStressRelaxation)
		default:
			return fmt.Errorf("%w: unexpected pause type %q", ErrValidation, pause)
		}
	default:
		return fmt.Errorf("%w: unexpected number of segments: %d", ErrFormat, len(segs))
	}
	return nil
}

func curveKind(im Metadata) (string, error) {
	typ, err := requireText(im, "curve type")
	if err != nil {
		return "", err
	}
	kind, ok := curveKinds[typ]
	if !ok {
		return "", fmt.Errorf("%w: unknown curve type %q", ErrValidation, typ)
	}
	return kind, nil
}

// splitTimeStamp splits "2019-02-25 16:24:49 UTC" into date and time.
func splitTimeStamp(im Metadata) (date, clock string, err error) {
	ts, err := requireText(im, "time stamp")
	if err != nil {
		return "", "", err
	}
	fields := strings.Fields(ts)
	if len(fields) < 2 {
		return "", "", fmt.Errorf("%w: malformed time stamp %q", ErrValidation, ts)
	}
	return fields[0], fields[1], nil
}

func requireFloat(m Metadata, key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingMetadata, key)
	}
	f, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: %q is not numeric: %#v", ErrValidation, key, v)
	}
	return f, nil
}

func requireText(m Metadata, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingMetadata, key)
	}
	return v.String(), nil
}
