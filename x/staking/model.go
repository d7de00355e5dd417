package staking

import (
	"github.com/iov-one/barrel/coin"
)

// ValidatorStake is the stake registered by a validator together with the
// stake delegated to it by other accounts.
type ValidatorStake struct {
	Own       coin.Balance `json:"own" cbor:"1,keyasint"`
	Delegated coin.Balance `json:"delegated" cbor:"2,keyasint"`
}

// Total returns the stake that is used to rank the validator.
func (v ValidatorStake) Total() (coin.Balance, error) {
	return v.Own.Add(v.Delegated)
}
