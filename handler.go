package barrel

import "context"

// Msg is a single call submitted to the ledger.
type Msg interface {
	// Path returns the route under which the handler for this message is
	// registered.
	Path() string

	// Validate performs stateless checks of the message content.
	Validate() error
}

// Handler processes a single message. The caller is the authenticated
// identity of whoever submitted the message.
//
// A handler must finish all of its checks before it writes to the store.
// When an error is returned, the store content must be considered invalid
// and the host discards all writes done during the call.
type Handler interface {
	Deliver(ctx context.Context, db KVStore, caller Address, msg Msg) error
}

// HandlerFunc allows to use a function as a Handler.
type HandlerFunc func(ctx context.Context, db KVStore, caller Address, msg Msg) error

// Deliver implements Handler.
func (fn HandlerFunc) Deliver(ctx context.Context, db KVStore, caller Address, msg Msg) error {
	return fn(ctx, db, caller, msg)
}

// Registry is an interface to register your handler. The setup step of
// the application gets a Registry and every extension registers its
// handlers there.
type Registry interface {
	// Handle assigns given handler to handle the messages of given path.
	Handle(path string, h Handler)
}

// Decorator wraps a Handler to provide common functionality like
// transaction isolation, panic recovery or logging.
type Decorator interface {
	Deliver(ctx context.Context, db KVStore, caller Address, msg Msg, next Handler) error
}
