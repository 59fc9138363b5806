package jpk

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/meigma/afmformats/jpk/archive"
	"github.com/meigma/afmformats/jpk/internal/channel"
	"github.com/meigma/afmformats/jpk/internal/props"
)

const (
	generalHeader = "header.properties"
	sharedHeader  = "shared-data/header.properties"
	segmentHeader = "segment-header.properties"
)

// noSegment selects whole-curve results in memo keys.
const noSegment = -1

type memoKey struct {
	index   int
	segment int
}

// Reader decodes curves from one JPK archive.
//
// A Reader memoizes everything it derives (entry listing, hierarchy,
// properties, metadata) for its lifetime. The archive file must not change
// while the Reader is in use. Archive handles are borrowed from the Cache
// for each read. A Reader is not safe for concurrent use.
type Reader struct {
	path      string
	cache     *archive.Cache
	logger    *slog.Logger
	primary   Recipe
	secondary Recipe
	locator   ChannelLocator
	decoder   ChannelDecoder
	units     map[string]string

	entries    []string
	entrySet   map[string]struct{}
	hierarchy  Hierarchy
	indices    []int
	general    props.Raw
	shared     props.Raw
	segments   map[int][]int
	properties map[memoKey]Properties
	metadata   map[memoKey]Metadata
}

// New creates a Reader for the archive at path. Archives are opened through
// cache, which the caller owns and closes.
func New(path string, cache *archive.Cache, opts ...Option) (*Reader, error) {
	if cache == nil {
		return nil, errors.New("jpk: archive cache is nil")
	}
	r := &Reader{
		path:       path,
		cache:      cache,
		primary:    DefaultPrimaryRecipe(),
		secondary:  DefaultSecondaryRecipe(),
		locator:    channel.Locator{},
		decoder:    channel.Decoder{},
		units:      DefaultUnits(),
		segments:   make(map[int][]int),
		properties: make(map[memoKey]Properties),
		metadata:   make(map[memoKey]Metadata),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Reader) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Path returns the archive path.
func (r *Reader) Path() string {
	return r.path
}

// openArchive returns the open archive from the cache.
func (r *Reader) openArchive() (*archive.Archive, error) {
	return r.cache.Get(r.path)
}

// Entries returns the archive entry names in natural order, so that
// "index/2/" sorts before "index/10/".
func (r *Reader) Entries() ([]string, error) {
	if err := r.loadEntries(); err != nil {
		return nil, err
	}
	return slices.Clone(r.entries), nil
}

func (r *Reader) loadEntries() error {
	if r.entries != nil {
		return nil
	}
	a, err := r.openArchive()
	if err != nil {
		return err
	}
	entries := a.Entries()
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	r.entries, r.entrySet = entries, set
	return nil
}

// has reports whether name is an archive entry. Entries must be loaded.
func (r *Reader) has(name string) bool {
	_, ok := r.entrySet[name]
	return ok
}

// readProperties parses one property file from the archive.
func (r *Reader) readProperties(name string) (props.Raw, error) {
	a, err := r.openArchive()
	if err != nil {
		return nil, err
	}
	rc, err := a.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	defer rc.Close()
	p, err := props.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", r.path, name, err)
	}
	return p, nil
}

// generalProperties returns the top-level header table.
func (r *Reader) generalProperties() (props.Raw, error) {
	if r.general != nil {
		return r.general, nil
	}
	p, err := r.readProperties(generalHeader)
	if err != nil {
		return nil, err
	}
	r.general = p
	return p, nil
}

// sharedProperties returns the shared-data table, empty if the archive has none.
func (r *Reader) sharedProperties() (props.Raw, error) {
	if r.shared != nil {
		return r.shared, nil
	}
	if err := r.loadEntries(); err != nil {
		return nil, err
	}
	if !r.has(sharedHeader) {
		r.shared = props.Raw{}
		return r.shared, nil
	}
	p, err := r.readProperties(sharedHeader)
	if err != nil {
		return nil, err
	}
	r.shared = p
	return p, nil
}
