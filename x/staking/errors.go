package staking

import (
	"github.com/iov-one/barrel/errors"
)

// x/staking reserves 40 ~ 49.
var (
	ErrAlreadyRegistered = errors.Register(40, "already registered")
	ErrInsufficientFunds = errors.Register(41, "insufficient funds")
	ErrNotRegistered     = errors.Register(42, "not registered")
	ErrAlreadyDelegator  = errors.Register(43, "already delegator")
)
