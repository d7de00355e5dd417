package utils

import (
	"context"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

// Recovery is a decorator to recover from panics in handlers, so we can
// log them as errors.
type Recovery struct{}

var _ barrel.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg, next barrel.Handler) (err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, caller, msg)
}
