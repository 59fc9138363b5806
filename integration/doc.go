//go:build integration

// Package integration provides end-to-end tests for the afmformats library.
//
// Tests load synthetic archives that stress the archive cache and, when
// AFMFORMATS_TESTDATA points to a directory of instrument files, every
// supported file found there.
// Run with: go test -tags=integration ./integration/...
package integration
