package currency

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/coin"
	"github.com/iov-one/barrel/errors"
)

const optKey = "currency"

// GenesisAccount is used to parse the json from genesis file. Address is
// in hex, not base64.
type GenesisAccount struct {
	Address barrel.Address `json:"address"`
	Amount  coin.Balance   `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	Control *Controller
}

var _ barrel.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis and mint the
// declared amounts. An address may be declared only once.
func (i Initializer) FromGenesis(opts barrel.Options, db barrel.KVStore) error {
	var state struct {
		Balances []GenesisAccount `json:"balances"`
	}
	if err := opts.ReadOptions(optKey, &state); err != nil {
		return err
	}
	control := i.Control
	if control == nil {
		control = NewController()
	}

	for n, acct := range state.Balances {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "balance %d", n)
		}
		switch _, ok, err := control.Balance(db, acct.Address); {
		case err != nil:
			return err
		case ok:
			return errors.Wrapf(errors.ErrDuplicate, "balance %d: account %s declared twice", n, acct.Address)
		}
		if err := control.Mint(db, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "balance %d", n)
		}
	}
	return nil
}
