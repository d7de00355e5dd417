package store

import (
	"testing"

	"github.com/iov-one/barrel/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect reads all remaining items of the iterator.
func collect(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Release()

	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, Model{Key: key, Value: value})
	}
}

func m(key, value string) Model {
	return Model{Key: []byte(key), Value: []byte(value)}
}

func TestMemStoreGetSet(t *testing.T) {
	db := MemStore()

	val, err := db.Get([]byte("foo"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, db.Set([]byte("foo"), []byte("bar")))
	val, err = db.Get([]byte("foo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), val)

	has, err := db.Has([]byte("foo"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("foo")))
	has, err = db.Has([]byte("foo"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCacheWrapDiscard(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("2")))
	require.NoError(t, cache.Set([]byte("b"), []byte("3")))

	val, err := cache.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)

	cache.Discard()

	val, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	has, err := db.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCacheWrapWrite(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	require.NoError(t, db.Set([]byte("c"), []byte("5")))

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("3")))
	require.NoError(t, cache.Delete([]byte("c")))

	// Parent is not modified until the cache is written.
	has, err := db.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, cache.Write())

	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []Model{m("a", "1"), m("b", "3")}, collect(t, it))
}

func TestCacheWrapNested(t *testing.T) {
	db := MemStore()
	outer := db.CacheWrap()
	require.NoError(t, outer.Set([]byte("a"), []byte("1")))

	inner := outer.CacheWrap()
	require.NoError(t, inner.Set([]byte("b"), []byte("2")))
	require.NoError(t, inner.Write())

	val, err := outer.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)

	has, err := db.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has, "inner write must not reach the root store")

	require.NoError(t, outer.Write())
	val, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
}

func TestCacheIterator(t *testing.T) {
	db := MemStore()
	for _, kv := range []Model{m("a", "1"), m("c", "3"), m("e", "5"), m("g", "7")} {
		require.NoError(t, db.Set(kv.Key, kv.Value))
	}

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Set([]byte("c"), []byte("33")))
	require.NoError(t, cache.Delete([]byte("e")))
	require.NoError(t, cache.Set([]byte("h"), []byte("8")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"all ascending": {
			want: []Model{m("a", "1"), m("b", "2"), m("c", "33"), m("g", "7"), m("h", "8")},
		},
		"all descending": {
			reverse: true,
			want:    []Model{m("h", "8"), m("g", "7"), m("c", "33"), m("b", "2"), m("a", "1")},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("g"),
			want:  []Model{m("b", "2"), m("c", "33")},
		},
		"bounded range descending": {
			start:   []byte("b"),
			end:     []byte("h"),
			reverse: true,
			want:    []Model{m("g", "7"), m("c", "33"), m("b", "2")},
		},
		"open end": {
			start: []byte("d"),
			want:  []Model{m("g", "7"), m("h", "8")},
		},
		"open start": {
			end:  []byte("c"),
			want: []Model{m("a", "1"), m("b", "2")},
		},
		"empty range": {
			start: []byte("x"),
			end:   []byte("z"),
			want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, collect(t, it))
		})
	}
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	batch := db.NewBatch().(*NonAtomicBatch)
	require.NoError(t, batch.Set([]byte("a"), []byte("1")))
	require.NoError(t, batch.Delete([]byte("a")))
	require.NoError(t, batch.Set([]byte("b"), []byte("2")))
	assert.Len(t, batch.ShowOps(), 3)

	has, err := db.Has([]byte("b"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, batch.Write())
	assert.Empty(t, batch.ShowOps())

	it, err := db.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []Model{m("b", "2")}, collect(t, it))
}
