// Package pathutil provides path manipulation for slash-separated archive paths.
package pathutil

import (
	"cmp"
	"slices"
	"strings"
)

// Base returns the last element of a slash-separated path.
// A trailing slash is ignored. If path is empty, it returns "".
func Base(path string) string {
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Child extracts the immediate child name from a full path given a prefix.
// Returns the child name and whether it's a directory (followed by a slash).
// If path doesn't have the prefix, ok is false.
func Child(path, prefix string) (name string, isDir, ok bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false, false
	}
	relPath := path[len(prefix):]
	if idx := strings.Index(relPath, "/"); idx >= 0 {
		return relPath[:idx], true, true
	}
	return relPath, false, true
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CompareNatural orders slash-separated paths component by component.
// Components made only of digits compare by numeric value, so "index/2/"
// sorts before "index/10/". Everything else compares bytewise.
func CompareNatural(a, b string) int {
	for {
		ca, restA, moreA := strings.Cut(a, "/")
		cb, restB, moreB := strings.Cut(b, "/")
		if c := compareComponent(ca, cb); c != 0 {
			return c
		}
		switch {
		case !moreA && !moreB:
			return 0
		case !moreA:
			return -1
		case !moreB:
			return 1
		}
		a, b = restA, restB
	}
}

func compareComponent(a, b string) int {
	if IsDigits(a) && IsDigits(b) {
		ta := strings.TrimLeft(a, "0")
		tb := strings.TrimLeft(b, "0")
		if c := cmp.Compare(len(ta), len(tb)); c != 0 {
			return c
		}
		if c := strings.Compare(ta, tb); c != 0 {
			return c
		}
		// Equal values: fall back to the spelling so the order is total.
		return strings.Compare(a, b)
	}
	return strings.Compare(a, b)
}

// SortNatural sorts paths in place using CompareNatural.
func SortNatural(paths []string) {
	slices.SortStableFunc(paths, CompareNatural)
}
