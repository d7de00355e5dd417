/*
Package leveldb provides a persistent KVStore backed by goleveldb.

All writes done through a cache wrap are flushed with a single atomic
leveldb batch, so a commit is either fully applied or not at all.
*/
package leveldb

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/store"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// CommitStore is a KVStore persisted in a leveldb database.
type CommitStore struct {
	db *leveldb.DB
}

var (
	_ barrel.CommitKVStore    = (*CommitStore)(nil)
	_ barrel.CacheableKVStore = (*CommitStore)(nil)
)

// NewCommitStore opens, or creates if missing, a database in given
// directory.
func NewCommitStore(dir string) (*CommitStore, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", dir, err)
	}
	return &CommitStore{db: db}, nil
}

// NewMemCommitStore returns a store that keeps all data in memory. Useful
// for tests that want to exercise the leveldb code path.
func NewMemCommitStore() *CommitStore {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		// Memory storage cannot fail to open.
		panic(err)
	}
	return &CommitStore{db: db}
}

// Close releases the database.
func (s *CommitStore) Close() error {
	return s.db.Close()
}

// Get returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

// Has checks if a key exists.
func (s *CommitStore) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes the value directly to the database.
func (s *CommitStore) Set(key, value []byte) error {
	if err := s.db.Put(key, value, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes the key directly from the database.
func (s *CommitStore) Delete(key []byte) error {
	if err := s.db.Delete(key, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// NewBatch returns an atomic batch.
func (s *CommitStore) NewBatch() barrel.Batch {
	return &batch{db: s.db, b: new(leveldb.Batch)}
}

// CacheWrap returns a draft layer. Calling Write on it flushes all changes
// in a single atomic batch.
func (s *CommitStore) CacheWrap() barrel.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Iterator over a domain of keys in ascending order.
func (s *CommitStore) Iterator(start, end []byte) (barrel.Iterator, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &dbIterator{it: it, next: it.Next}, nil
}

// ReverseIterator over a domain of keys in descending order.
func (s *CommitStore) ReverseIterator(start, end []byte) (barrel.Iterator, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	di := &dbIterator{it: it}
	di.next = func() bool {
		di.next = it.Prev
		return it.Last()
	}
	return di, nil
}

type dbIterator struct {
	it   iterator.Iterator
	next func() bool
}

func (d *dbIterator) Next() ([]byte, []byte, error) {
	if !d.next() {
		if err := d.it.Error(); err != nil {
			return nil, nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		return nil, nil, errors.ErrIteratorDone
	}
	// Returned slices are reused by leveldb on the next call.
	key := append([]byte(nil), d.it.Key()...)
	value := append([]byte(nil), d.it.Value()...)
	return key, value, nil
}

func (d *dbIterator) Release() {
	d.it.Release()
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Set(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Write() error {
	if err := b.db.Write(b.b, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	b.b.Reset()
	return nil
}
