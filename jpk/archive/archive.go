// Package archive keeps a bounded set of open JPK archives.
//
// A JPK file is a zip container. Opening it is comparatively expensive and
// keeping every file open runs into the process limit on open files when many
// curves are loaded, so handles are shared through a [Cache] that closes the
// least recently used handle once its capacity is exceeded.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"slices"
	"sync/atomic"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/afmformats/internal/pathutil"
)

// Archive is an open, read-only JPK archive.
//
// Archives are owned by the [Cache] that opened them. Callers must not close
// them and must not keep them across calls to [Cache.Get], which may evict
// and close them.
type Archive struct {
	path    string
	zr      *zip.ReadCloser
	files   map[string]*zip.File
	entries []string
	closed  atomic.Bool
}

// Open opens the archive at path.
func Open(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	a := &Archive{
		path:    path,
		zr:      zr,
		files:   make(map[string]*zip.File, len(zr.File)),
		entries: make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		if _, dup := a.files[f.Name]; dup {
			continue
		}
		a.files[f.Name] = f
		a.entries = append(a.entries, f.Name)
	}
	pathutil.SortNatural(a.entries)
	return a, nil
}

// Path returns the file path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Entries returns the entry names in natural order.
// The returned slice is a copy.
func (a *Archive) Entries() []string {
	return slices.Clone(a.entries)
}

// Has reports whether the archive contains an entry with exactly this name.
func (a *Archive) Has(name string) bool {
	_, ok := a.files[name]
	return ok
}

// Open opens the named entry for reading. The caller must close it.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	if a.closed.Load() {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrClosed}
	}
	f, ok := a.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return rc, nil
}

// Closed reports whether the archive has been closed.
func (a *Archive) Closed() bool {
	return a.closed.Load()
}

// close releases the underlying file. Only the owning cache calls it.
func (a *Archive) close() error {
	if a.closed.Swap(true) {
		return nil
	}
	return a.zr.Close()
}
