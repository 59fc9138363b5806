package props

import (
	"strings"
)

// wildcard marks a key whose value points into the shared-data table.
const wildcard = ".*"

// Reference is a parsed pointer from a segment property into the shared-data
// table, e.g. "channel.vDeflection.lcd-info.*=3" yields
// {Mediator: "lcd-info", Pointer: "3", HeadKey: "channel.vDeflection"}.
type Reference struct {
	// Key is the referring property key.
	Key string

	// Mediator is the second-to-last dot-delimited component of Key.
	Mediator string

	// Pointer is the referring property value, a position in the shared table.
	Pointer string

	// HeadKey is Key with its last two components stripped.
	HeadKey string
}

// ParseReference parses key=value into a Reference.
// ok is false when key does not contain the ".*" token.
func ParseReference(key, value string) (ref Reference, ok bool) {
	if !strings.Contains(key, wildcard) {
		return Reference{}, false
	}
	parts := strings.Split(key, ".")
	ref = Reference{Key: key, Pointer: strings.TrimSpace(value)}
	if len(parts) >= 2 {
		ref.Mediator = parts[len(parts)-2]
	}
	if len(parts) >= 3 {
		ref.HeadKey = strings.Join(parts[:len(parts)-2], ".")
	} else {
		ref.HeadKey = parts[0]
	}
	return ref, true
}

// Prefix returns the shared-data key prefix selected by the reference.
// The trailing dot keeps pointer "1" from matching "10".
func (r Reference) Prefix() string {
	return r.Mediator + "." + r.Pointer + "."
}

// Target maps a shared-data key to the key it is copied to.
// ok is false when sharedKey is not selected by the reference.
func (r Reference) Target(sharedKey string) (key string, ok bool) {
	if !strings.HasPrefix(sharedKey, r.Prefix()) {
		return "", false
	}
	parts := strings.Split(sharedKey, ".")
	return r.HeadKey + "." + strings.Join(parts[2:], "."), true
}

// Substitute resolves every reference in r against shared, writing the
// referenced values into r. Keys are visited in sorted order so that
// colliding targets resolve deterministically. It returns the number of
// copied values.
func Substitute(r, shared Raw) int {
	if len(shared) == 0 {
		return 0
	}
	sharedKeys := shared.Keys()
	copied := 0
	for _, key := range r.Keys() {
		ref, ok := ParseReference(key, r[key])
		if !ok {
			continue
		}
		for _, sk := range sharedKeys {
			if target, ok := ref.Target(sk); ok {
				r[target] = shared[sk]
				copied++
			}
		}
	}
	return copied
}
