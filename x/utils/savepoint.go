package utils

import (
	"context"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

// Savepoint will isolate all data inside of the call, and commit/rollback
// to savepoint based on if error.
type Savepoint struct{}

var _ barrel.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// Deliver runs the next handler on a cache wrap of the store. The cache is
// written only if the handler succeeds.
func (s Savepoint) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg, next barrel.Handler) error {
	cstore, ok := db.(barrel.CacheableKVStore)
	if !ok {
		return next.Deliver(ctx, db, caller, msg)
	}

	cache := cstore.CacheWrap()
	if err := next.Deliver(ctx, cache, caller, msg); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
