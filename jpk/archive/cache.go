package archive

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is the number of archives kept open by default.
const DefaultCapacity = 32

// Cache keeps at most Capacity archives open, keyed by file path, and closes
// the least recently used one when a new archive pushes it over capacity.
//
// Cache is not safe for concurrent use. Callers that share a Cache between
// goroutines must serialize calls to Get and Close themselves; alternatively
// give each goroutine its own Cache.
type Cache struct {
	lru      *simplelru.LRU[string, *Archive]
	capacity int
	open     func(path string) (*Archive, error)
	closeErr error
	logger   *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity sets the maximum number of open archives. Defaults to 32.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		c.capacity = n
	}
}

// WithLogger sets the logger used for open and eviction events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithOpener replaces the function used to open archives.
// It exists so callers can observe or wrap archive opening.
func WithOpener(open func(path string) (*Archive, error)) Option {
	return func(c *Cache) {
		if open != nil {
			c.open = open
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		capacity: DefaultCapacity,
		open:     Open,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.capacity < 1 {
		return nil, fmt.Errorf("archive cache: capacity must be >= 1, got %d", c.capacity)
	}
	lru, err := simplelru.NewLRU[string, *Archive](c.capacity, c.evict)
	if err != nil {
		return nil, err
	}
	c.lru = lru
	return c, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Cache) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// evict is the LRU eviction callback. It closes the evicted archive.
func (c *Cache) evict(path string, a *Archive) {
	if err := a.close(); err != nil {
		c.log().Warn("close evicted archive", "path", path, "error", err)
		c.closeErr = errors.Join(c.closeErr, err)
		return
	}
	c.log().Debug("archive evicted", "path", path)
}

// Get returns the open archive for path, opening it if necessary.
// The archive becomes the most recently used entry. Opening a new archive
// may evict and close the least recently used one.
func (c *Cache) Get(path string) (*Archive, error) {
	if a, ok := c.lru.Get(path); ok {
		return a, nil
	}
	a, err := c.open(path)
	if err != nil {
		return nil, err
	}
	c.log().Debug("archive opened", "path", path)
	c.lru.Add(path, a)
	return a, nil
}

// Contains reports whether path is open, without updating its recency.
func (c *Cache) Contains(path string) bool {
	return c.lru.Contains(path)
}

// Paths returns the open archive paths from least to most recently used.
func (c *Cache) Paths() []string {
	return c.lru.Keys()
}

// Len returns the number of open archives.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Capacity returns the maximum number of open archives.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Close closes every open archive and empties the cache.
// It returns the joined close errors, including errors from earlier evictions.
func (c *Cache) Close() error {
	c.lru.Purge()
	err := c.closeErr
	c.closeErr = nil
	return err
}
