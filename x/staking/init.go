package staking

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/coin"
	"github.com/iov-one/barrel/errors"
)

const optKey = "staking"

// GenesisValidator is a validator registered at genesis.
type GenesisValidator struct {
	Address barrel.Address `json:"address"`
	Stake   coin.Balance   `json:"stake"`
}

// GenesisDelegator is a delegation made at genesis.
type GenesisDelegator struct {
	Address barrel.Address `json:"address"`
	To      barrel.Address `json:"to"`
	Stake   coin.Balance   `json:"stake"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file. Balances must be initialized first, because validators and
// delegators must be able to cover their stake.
type Initializer struct {
	Control *Controller
}

var _ barrel.Initializer = Initializer{}

// FromGenesis registers all validators and then applies all delegations,
// both in the declared order. Genesis is expected to be consistent, so
// any rejected entry panics.
func (i Initializer) FromGenesis(opts barrel.Options, db barrel.KVStore) error {
	var state struct {
		Validators []GenesisValidator `json:"validators"`
		Delegators []GenesisDelegator `json:"delegators"`
	}
	if err := opts.ReadOptions(optKey, &state); err != nil {
		return err
	}
	for _, v := range state.Validators {
		mustValidate(v.Address)
		i.Control.MustRegister(db, v.Address, v.Stake)
	}
	for _, d := range state.Delegators {
		mustValidate(d.Address)
		mustValidate(d.To)
		i.Control.MustDelegate(db, d.Address, d.To, d.Stake)
	}
	return nil
}

func mustValidate(a barrel.Address) {
	if err := a.Validate(); err != nil {
		panic(errors.Wrap(err, "genesis address"))
	}
}
