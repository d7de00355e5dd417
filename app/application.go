package app

import (
	"context"
	"fmt"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/orm"
	"github.com/tendermint/tendermint/libs/log"
)

// Store is the persistent state of the application. All writes go through
// a cache wrap. The state is persisted when the cache is written.
type Store interface {
	barrel.ReadOnlyKVStore
	CacheWrap() barrel.KVCacheWrap
}

// Application processes calls and blocks on top of a store.
//
// All changes are done in a working copy of the store. Commit persists
// them.
type Application struct {
	logger  log.Logger
	metrics *Metrics

	store   Store
	deliver barrel.KVCacheWrap

	handler     barrel.Handler
	initializer barrel.Initializer
	tickers     []barrel.Ticker

	height *orm.Singleton[barrel.BlockNumber]
}

// NewApplication returns an application that has no handlers, tickers or
// initializers registered.
func NewApplication(store Store) *Application {
	return &Application{
		logger:      log.NewNopLogger(),
		metrics:     NewMetrics(nil),
		store:       store,
		deliver:     store.CacheWrap(),
		handler:     NewRouter(),
		initializer: barrel.Initializers{},
		height:      orm.NewSingleton[barrel.BlockNumber]("height"),
	}
}

// WithLogger sets the logger passed to all handlers and tickers.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// WithMetrics sets the collector of the application statistics.
func (a *Application) WithMetrics(m *Metrics) *Application {
	a.metrics = m
	return a
}

// WithHandler sets the handler of all delivered messages.
func (a *Application) WithHandler(h barrel.Handler) *Application {
	a.handler = h
	return a
}

// WithInit sets the genesis initializer.
func (a *Application) WithInit(init barrel.Initializer) *Application {
	a.initializer = init
	return a
}

// WithTickers sets the tickers executed at the beginning of every block.
func (a *Application) WithTickers(tickers ...barrel.Ticker) *Application {
	a.tickers = tickers
	return a
}

// Logger returns the application logger.
func (a *Application) Logger() log.Logger {
	return a.logger
}

// ReadStore returns the current state, including changes that are not
// committed yet.
func (a *Application) ReadStore() barrel.ReadOnlyKVStore {
	return a.deliver
}

// InitChain loads the genesis state. It panics if the state was already
// initialized or any initializer fails, leaving the store untouched.
func (a *Application) InitChain(opts barrel.Options) {
	if _, ok, err := a.height.Load(a.deliver); err != nil {
		panic(fmt.Sprintf("cannot load height: %+v", err))
	} else if ok {
		panic("state already initialized")
	}

	cache := a.deliver.CacheWrap()
	defer cache.Discard()
	if err := a.initializer.FromGenesis(opts, cache); err != nil {
		panic(fmt.Sprintf("cannot initialize from genesis: %+v", err))
	}
	if err := a.height.Put(cache, 0); err != nil {
		panic(fmt.Sprintf("cannot store height: %+v", err))
	}
	if err := cache.Write(); err != nil {
		panic(fmt.Sprintf("cannot write genesis state: %+v", err))
	}
	if err := a.Commit(); err != nil {
		panic(fmt.Sprintf("cannot commit genesis state: %+v", err))
	}
	a.logger.Info("genesis loaded")
}

// Deliver processes a single message submitted by the caller.
func (a *Application) Deliver(ctx context.Context, caller barrel.Address, msg barrel.Msg) error {
	if err := caller.Validate(); err != nil {
		return errors.Wrap(err, "caller")
	}
	ctx = barrel.WithLogger(ctx, a.logger)
	return a.handler.Deliver(ctx, a.deliver, caller, msg)
}

// BeginBlock runs all tickers for the block of given height. Tickers
// cannot fail, so any error panics.
func (a *Application) BeginBlock(ctx context.Context, now barrel.BlockNumber) barrel.TickResult {
	ctx = barrel.WithLogger(ctx, a.logger.With("height", now))
	ctx = barrel.WithHeight(ctx, now)

	cache := a.deliver.CacheWrap()
	var res barrel.TickResult
	for _, t := range a.tickers {
		if r := t.Tick(ctx, cache); r.ValidatorsUpdated {
			res = r
		}
	}
	if err := cache.Write(); err != nil {
		panic(fmt.Sprintf("cannot write block %d: %+v", now, err))
	}
	a.metrics.observeTick(now, res)
	return res
}

// Height returns the height of the last processed block.
func (a *Application) Height() (barrel.BlockNumber, error) {
	h, ok, err := a.height.Load(a.deliver)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.Wrap(errors.ErrInvalidState, "state not initialized")
	}
	return h, nil
}

// NextBlock processes the block following the last processed one.
func (a *Application) NextBlock(ctx context.Context) (barrel.BlockNumber, barrel.TickResult) {
	last, err := a.Height()
	if err != nil {
		panic(fmt.Sprintf("cannot load height: %+v", err))
	}
	now := last + 1
	res := a.BeginBlock(ctx, now)
	if err := a.height.Put(a.deliver, now); err != nil {
		panic(fmt.Sprintf("cannot store height: %+v", err))
	}
	return now, res
}

// Commit persists all changes and starts a new working copy.
func (a *Application) Commit() error {
	if err := a.deliver.Write(); err != nil {
		return errors.Wrap(err, "commit")
	}
	a.deliver = a.store.CacheWrap()
	return nil
}
