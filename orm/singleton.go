package orm

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

// Singleton stores a single value of type V under a fixed key.
type Singleton[V any] struct {
	key []byte
}

// NewSingleton returns a singleton stored under given name.
func NewSingleton[V any](name string) *Singleton[V] {
	return &Singleton[V]{key: []byte("_s:" + name)}
}

// Load returns the stored value. The second result is false if the value
// was never written.
func (s *Singleton[V]) Load(db barrel.ReadOnlyKVStore) (V, bool, error) {
	var value V
	raw, err := db.Get(s.key)
	if err != nil {
		return value, false, errors.Wrapf(err, "get %q", s.key)
	}
	if raw == nil {
		return value, false, nil
	}
	if err := Unmarshal(raw, &value); err != nil {
		return value, false, err
	}
	return value, true, nil
}

// Get returns the stored value, or the zero value of V if nothing was ever
// written.
func (s *Singleton[V]) Get(db barrel.ReadOnlyKVStore) (V, error) {
	value, _, err := s.Load(db)
	return value, err
}

// Put replaces the stored value.
func (s *Singleton[V]) Put(db barrel.KVStore, value V) error {
	if err := validate(value); err != nil {
		return errors.Wrapf(err, "put %q", s.key)
	}
	raw, err := Marshal(value)
	if err != nil {
		return err
	}
	return db.Set(s.key, raw)
}

// Mutate passes the current value to fn and stores the result. Nothing is
// written if fn returns an error.
func (s *Singleton[V]) Mutate(db barrel.KVStore, fn func(V) (V, error)) error {
	value, err := s.Get(db)
	if err != nil {
		return err
	}
	if value, err = fn(value); err != nil {
		return err
	}
	return s.Put(db, value)
}
