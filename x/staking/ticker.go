package staking

import (
	"context"
	"fmt"

	"github.com/iov-one/barrel"
)

// EraTicker runs the era scheduler at the beginning of every block.
type EraTicker struct {
	control *Controller
}

var _ barrel.Ticker = (*EraTicker)(nil)

// NewEraTicker returns a ticker that rotates the active validator set at
// every era boundary.
func NewEraTicker(control *Controller) *EraTicker {
	return &EraTicker{control: control}
}

// Tick reads the block height from the context. It panics if the height is
// missing or the store cannot be accessed.
func (t *EraTicker) Tick(ctx context.Context, db barrel.KVStore) barrel.TickResult {
	now, ok := barrel.GetHeight(ctx)
	if !ok {
		panic("block height not present in the context")
	}
	rotated, err := t.control.OnBlockAdvance(ctx, db, now)
	if err != nil {
		panic(fmt.Sprintf("era scheduler at height %d: %+v", now, err))
	}
	if !rotated {
		return barrel.TickResult{}
	}
	active, err := t.control.ActiveValidators(db)
	if err != nil {
		panic(fmt.Sprintf("active validators at height %d: %+v", now, err))
	}
	return barrel.TickResult{
		ValidatorsUpdated: true,
		Validators:        active,
	}
}
