package utils

import (
	"context"
	"time"

	"github.com/iov-one/barrel"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ barrel.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg, next barrel.Handler) error {
	start := time.Now()
	ctx = barrel.WithLogInfo(ctx, "path", msg.Path(), "caller", caller)
	err := next.Deliver(ctx, db, caller, msg)

	logger := barrel.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
	if err != nil {
		logger.Error("call failed", "err", err)
	} else {
		logger.Info("call delivered")
	}
	return err
}
