package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the DB holding values of type V under
// keys of type K.
type Bucket[K, V any] struct {
	name   string
	prefix []byte
	keys   KeyCodec[K]
}

// NewBucket creates a bucket to store data. It panics if the name is not a
// valid bucket name.
func NewBucket[K, V any](name string, keys KeyCodec[K]) *Bucket[K, V] {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return &Bucket[K, V]{
		name:   name,
		prefix: append([]byte(name), ':'),
		keys:   keys,
	}
}

// Name returns the name of this bucket.
func (b *Bucket[K, V]) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
func (b *Bucket[K, V]) DBKey(key K) []byte {
	return append(append([]byte(nil), b.prefix...), b.keys.EncodeKey(key)...)
}

// Get returns the value stored under given key. The second result is false
// if there is no entry for the key.
func (b *Bucket[K, V]) Get(db barrel.ReadOnlyKVStore, key K) (V, bool, error) {
	var value V
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return value, false, errors.Wrapf(err, "%s get", b.name)
	}
	if raw == nil {
		return value, false, nil
	}
	if err := Unmarshal(raw, &value); err != nil {
		return value, false, errors.Wrapf(err, "%s get", b.name)
	}
	return value, true, nil
}

// Has returns true if there is an entry for given key.
func (b *Bucket[K, V]) Has(db barrel.ReadOnlyKVStore, key K) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrapf(err, "%s has", b.name)
	}
	return ok, nil
}

// Insert writes the value under given key, replacing any previous entry.
func (b *Bucket[K, V]) Insert(db barrel.KVStore, key K, value V) error {
	if err := validate(value); err != nil {
		return errors.Wrapf(err, "%s insert", b.name)
	}
	raw, err := Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "%s insert", b.name)
	}
	return db.Set(b.DBKey(key), raw)
}

// Mutate loads the entry for given key, passes it to fn and stores the
// result. exists is false if there was no entry, in which case value is
// the zero value of V. Nothing is written if fn returns an error.
func (b *Bucket[K, V]) Mutate(db barrel.KVStore, key K, fn func(value V, exists bool) (V, error)) error {
	value, exists, err := b.Get(db, key)
	if err != nil {
		return err
	}
	value, err = fn(value, exists)
	if err != nil {
		return err
	}
	return b.Insert(db, key, value)
}

// Entry is a single record of a bucket.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Iterate calls fn for every record of this bucket, in the binary order of
// the keys. Iteration stops at the first error, which is returned.
func (b *Bucket[K, V]) Iterate(db barrel.ReadOnlyKVStore, fn func(key K, value V) error) error {
	it, err := db.Iterator(prefixRange(b.prefix))
	if err != nil {
		return errors.Wrapf(err, "%s iterate", b.name)
	}
	defer it.Release()

	for {
		rawKey, rawValue, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "%s iterate", b.name)
		}
		key, err := b.keys.DecodeKey(rawKey[len(b.prefix):])
		if err != nil {
			return errors.Wrapf(err, "%s key", b.name)
		}
		var value V
		if err := Unmarshal(rawValue, &value); err != nil {
			return errors.Wrapf(err, "%s value", b.name)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
}

// All returns all records of this bucket.
func (b *Bucket[K, V]) All(db barrel.ReadOnlyKVStore) ([]Entry[K, V], error) {
	var res []Entry[K, V]
	err := b.Iterate(db, func(key K, value V) error {
		res = append(res, Entry[K, V]{Key: key, Value: value})
		return nil
	})
	return res, err
}

// prefixRange turns a prefix into (start, end) to create an iterator over
// all keys that start with the prefix.
func prefixRange(prefix []byte) ([]byte, []byte) {
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return start, end[:i+1]
		}
	}
	// Prefix was all 0xFF, iterate until the end of the store.
	return start, nil
}
