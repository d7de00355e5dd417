package barrel

import "context"

// Ticker is an interface used to call background tasks scheduled for
// execution.
type Ticker interface {
	// Tick is a method called at the beginning of the block. The height of
	// the block being processed is available via GetHeight.
	//
	// Because beginning of the block does not allow for an error response
	// this method does not return one as well. It is the implementation
	// responsibility to handle all error situations. In case of an error
	// that is an instance specific (ie database issues) the method must
	// panic, as this node state would diverge from the rest of the network.
	Tick(ctx context.Context, db KVStore) TickResult
}

// TickResult represents the result of a single tick run.
type TickResult struct {
	// ValidatorsUpdated is set when this tick replaced the active
	// validator set.
	ValidatorsUpdated bool

	// Validators is the active validator set after the update. It is
	// only set when ValidatorsUpdated is true.
	Validators []Address
}
