package archive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/afmformats/internal/testutil"
)

func TestNewCapacity(t *testing.T) {
	t.Parallel()

	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, c.Capacity())
	assert.Equal(t, 0, c.Len())

	for _, n := range []int{0, -1} {
		_, err := New(WithCapacity(n))
		assert.Error(t, err, "capacity %d", n)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	paths := testutil.WriteEmptyZips(t, t.TempDir(), DefaultCapacity+1)
	c, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	first, err := c.Get(paths[0])
	require.NoError(t, err)
	for _, p := range paths[1:DefaultCapacity] {
		_, err := c.Get(p)
		require.NoError(t, err)
	}
	assert.Equal(t, DefaultCapacity, c.Len())
	assert.False(t, first.Closed())

	_, err = c.Get(paths[DefaultCapacity])
	require.NoError(t, err)

	assert.Equal(t, DefaultCapacity, c.Len())
	assert.False(t, c.Contains(paths[0]))
	assert.True(t, first.Closed(), "evicted archive is closed")
	assert.Equal(t, paths[1:], c.Paths())
}

func TestCacheGetPromotes(t *testing.T) {
	t.Parallel()

	paths := testutil.WriteEmptyZips(t, t.TempDir(), 3)
	c, err := New(WithCapacity(2))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	a0, err := c.Get(paths[0])
	require.NoError(t, err)
	a1, err := c.Get(paths[1])
	require.NoError(t, err)

	again, err := c.Get(paths[0])
	require.NoError(t, err)
	assert.Same(t, a0, again, "hit returns the open handle")

	_, err = c.Get(paths[2])
	require.NoError(t, err)

	assert.True(t, c.Contains(paths[0]))
	assert.False(t, c.Contains(paths[1]))
	assert.True(t, a1.Closed())
	assert.False(t, a0.Closed())
	assert.Equal(t, []string{paths[0], paths[2]}, c.Paths())
}

func TestCacheReopensEvicted(t *testing.T) {
	t.Parallel()

	paths := testutil.WriteEmptyZips(t, t.TempDir(), 2)
	opened := 0
	c, err := New(WithCapacity(1), WithOpener(func(path string) (*Archive, error) {
		opened++
		return Open(path)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	for _, p := range []string{paths[0], paths[1], paths[0], paths[0]} {
		a, err := c.Get(p)
		require.NoError(t, err)
		assert.False(t, a.Closed())
		assert.True(t, a.Has("header.properties"))
	}
	assert.Equal(t, 3, opened)
}

func TestCacheGetError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c, err := New(WithOpener(func(string) (*Archive, error) { return nil, boom }))
	require.NoError(t, err)

	_, err = c.Get("any.jpk-force")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestCacheClose(t *testing.T) {
	t.Parallel()

	paths := testutil.WriteEmptyZips(t, t.TempDir(), 3)
	c, err := New()
	require.NoError(t, err)

	var open []*Archive
	for _, p := range paths {
		a, err := c.Get(p)
		require.NoError(t, err)
		open = append(open, a)
	}

	require.NoError(t, c.Close())
	assert.Equal(t, 0, c.Len())
	for _, a := range open {
		assert.True(t, a.Closed())
	}
	require.NoError(t, c.Close(), "closing an empty cache is a no-op")
}
