// Package testutil builds zip archives and JPK files for tests.
package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/afmformats/internal/pathutil"
)

// Compression selects how WriteZip stores entries.
type Compression uint16

// Supported compression methods.
const (
	Store   Compression = Compression(zip.Store)
	Deflate Compression = Compression(zip.Deflate)
	Zstd    Compression = Compression(zstd.ZipMethodWinZip)
)

// WriteZip writes files to a new zip archive at path and fails tb on error.
func WriteZip(tb testing.TB, path string, files map[string][]byte, method Compression) {
	tb.Helper()
	if err := CreateZip(path, files, method); err != nil {
		tb.Fatalf("write zip: %v", err)
	}
}

// CreateZip writes files to a new zip archive at path.
//
// Directory entries are added for every parent directory, the way JPK
// instruments write their archives. Entries are written in natural order.
func CreateZip(path string, files map[string][]byte, method Compression) (err error) {
	names := make([]string, 0, len(files))
	seen := make(map[string]bool)
	for name := range files {
		names = append(names, name)
		seen[name] = true
	}
	for name := range files {
		for dir := parentDir(name); dir != ""; dir = parentDir(dir) {
			if !seen[dir] {
				seen[dir] = true
				names = append(names, dir)
			}
		}
	}
	pathutil.SortNatural(names)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			if _, err := zw.Create(name); err != nil {
				return fmt.Errorf("create dir entry %s: %w", name, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: uint16(method)})
		if err != nil {
			return fmt.Errorf("create entry %s: %w", name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			return fmt.Errorf("write entry %s: %w", name, err)
		}
	}
	return zw.Close()
}

// parentDir returns the parent directory of name with a trailing slash,
// or "" for top-level names.
func parentDir(name string) string {
	name = strings.TrimSuffix(name, "/")
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return ""
	}
	return name[:i+1]
}

// WriteEmptyZips writes n minimal archives into dir and returns their paths.
func WriteEmptyZips(tb testing.TB, dir string, n int) []string {
	tb.Helper()
	paths := make([]string, n)
	for i := range n {
		paths[i] = filepath.Join(dir, "archive-"+strconv.Itoa(i)+".zip")
		WriteZip(tb, paths[i], map[string][]byte{"header.properties": []byte("k=v\n")}, Store)
	}
	return paths
}
