/*
Package barrel defines all common interfaces to tie together the
ledger packages, as well as implementations of some of the simpler
components (when interfaces would be too much overhead).

We pass context through context.Context between app and handlers.
There exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithHeight panics if the value was previously set to avoid lower-level
modules overwriting the value.
*/
package barrel

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// BlockNumber is the height of a block as supplied by the host.
type BlockNumber uint64

type contextKey int // local to the barrel module

const (
	contextKeyHeight contextKey = iota
	contextKeyLogger
)

// DefaultLogger is used for all context that have not set anything
// themselves.
var DefaultLogger = log.NewNopLogger()

// WithHeight sets the block height for the context. It can only be set
// once.
func WithHeight(ctx context.Context, height BlockNumber) context.Context {
	if _, ok := GetHeight(ctx); ok {
		panic("block height already set")
	}
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height.
func GetHeight(ctx context.Context) (BlockNumber, bool) {
	val, ok := ctx.Value(contextKeyHeight).(BlockNumber)
	return val, ok
}

// WithLogger sets the logger for this context.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another context like this,
// after passing all the keyvals to the Logger.
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or DefaultLogger if none was
// set.
func GetLogger(ctx context.Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}
