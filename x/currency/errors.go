package currency

import (
	"github.com/iov-one/barrel/errors"
)

// x/currency reserves 30 ~ 39.
var (
	ErrNonExistentAccount  = errors.Register(30, "non existent account")
	ErrInsufficientBalance = errors.Register(31, "insufficient balance")
)
