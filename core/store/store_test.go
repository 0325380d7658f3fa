package store_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webcore/core/store"
)

type appConfig struct {
	Banner string
}

type counter int

func TestSharedSetGetRemove(t *testing.T) {
	t.Parallel()

	s := store.NewShared()

	_, ok := store.Get[*appConfig](s)
	assert.False(t, ok, "empty store should not return a value")

	first := &appConfig{Banner: "first"}
	prev, replaced := store.Set(s, first)
	assert.False(t, replaced)
	assert.Nil(t, prev)

	got, ok := store.Get[*appConfig](s)
	require.True(t, ok)
	assert.Same(t, first, got, "store should hand out the same shared pointer")

	second := &appConfig{Banner: "second"}
	prev, replaced = store.Set(s, second)
	assert.True(t, replaced)
	assert.Same(t, first, prev, "Set should return the replaced value")
	assert.Equal(t, 1, store.Len(s), "one slot per type")

	removed, ok := store.Remove[*appConfig](s)
	require.True(t, ok)
	assert.Same(t, second, removed)

	_, ok = store.Get[*appConfig](s)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(s))
}

func TestStoreKeysByType(t *testing.T) {
	t.Parallel()

	s := store.NewLocal()

	store.Set(s, counter(7))
	store.Set(s, 42)
	store.Set(s, appConfig{Banner: "value"})
	store.Set(s, &appConfig{Banner: "pointer"})

	c, ok := store.Get[counter](s)
	require.True(t, ok)
	assert.Equal(t, counter(7), c)

	n, ok := store.Get[int](s)
	require.True(t, ok)
	assert.Equal(t, 42, n, "named and underlying types use different slots")

	v, ok := store.Get[appConfig](s)
	require.True(t, ok)
	assert.Equal(t, "value", v.Banner)

	p, ok := store.Get[*appConfig](s)
	require.True(t, ok)
	assert.Equal(t, "pointer", p.Banner)

	assert.Equal(t, 4, store.Len(s))
}

func TestNilStores(t *testing.T) {
	t.Parallel()

	var local *store.Local
	_, ok := store.Get[int](local)
	assert.False(t, ok)
	_, ok = store.Remove[int](local)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(local))

	var shared *store.Shared
	_, ok = store.Get[int](shared)
	assert.False(t, ok)

	_, ok = store.Get[int](nil)
	assert.False(t, ok)
}

func TestMustGet(t *testing.T) {
	t.Parallel()

	s := store.NewShared()
	assert.Panics(t, func() { store.MustGet[*appConfig](s) })

	store.Set(s, &appConfig{Banner: "hi"})
	assert.Equal(t, "hi", store.MustGet[*appConfig](s).Banner)
}

func TestSharedConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := store.NewShared()
	store.Set(s, &appConfig{Banner: "initial"})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cfg, ok := store.Get[*appConfig](s)
			assert.True(t, ok)
			assert.NotNil(t, cfg)
		}()
		go func() {
			defer wg.Done()
			store.Set(s, counter(i))
		}()
	}
	wg.Wait()

	_, ok := store.Get[counter](s)
	assert.True(t, ok)
}
