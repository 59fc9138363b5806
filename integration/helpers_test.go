//go:build integration

package integration

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/afmformats"
)

// testdataFiles returns the supported files below $AFMFORMATS_TESTDATA.
// The test is skipped when the variable is unset.
func testdataFiles(tb testing.TB) []string {
	tb.Helper()

	root := os.Getenv("AFMFORMATS_TESTDATA")
	if root == "" {
		tb.Skip("AFMFORMATS_TESTDATA is not set")
	}

	exts := afmformats.SupportedExtensions()
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(exts, filepath.Ext(path)) {
			paths = append(paths, path)
		}
		return nil
	})
	require.NoError(tb, err)
	if len(paths) == 0 {
		tb.Skipf("no supported files in %s", root)
	}
	return paths
}

// requireConsistent checks the invariants every loaded curve must hold.
func requireConsistent(tb testing.TB, ds *afmformats.Dataset) {
	tb.Helper()

	md := ds.Metadata()
	for _, key := range []string{"spring constant", "sensitivity", "curve id", "path", "enum", "duration", "point count"} {
		require.Contains(tb, md, key)
	}

	for _, name := range ds.Columns() {
		c, err := ds.Column(name)
		require.NoError(tb, err)
		require.Equal(tb, ds.Len(), c.Len(), "column %q", name)
	}

	appr, err := ds.Appr()
	require.NoError(tb, err)
	retr, err := ds.Retr()
	require.NoError(tb, err)
	na, err := appr.Len()
	require.NoError(tb, err)
	nr, err := retr.Len()
	require.NoError(tb, err)
	require.LessOrEqual(tb, na+nr, ds.Len())
	require.Positive(tb, na)
}
