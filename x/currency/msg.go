package currency

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/coin"
	"github.com/iov-one/barrel/errors"
)

// Ensure we implement the Msg interface
var (
	_ barrel.Msg = MintMsg{}
	_ barrel.Msg = TransferMsg{}
)

// MintMsg creates new funds on the recipient account.
type MintMsg struct {
	To     barrel.Address `json:"to"`
	Amount coin.Balance   `json:"amount"`
}

// Path returns the routing path for this message
func (MintMsg) Path() string {
	return "currency/mint"
}

// Validate makes sure that this is sensible
func (m MintMsg) Validate() error {
	return errors.Field("To", m.To.Validate(), "invalid recipient")
}

// TransferMsg moves funds from the caller account to the recipient.
type TransferMsg struct {
	To     barrel.Address `json:"to"`
	Amount coin.Balance   `json:"amount"`
}

// Path returns the routing path for this message
func (TransferMsg) Path() string {
	return "currency/transfer"
}

// Validate makes sure that this is sensible
func (m TransferMsg) Validate() error {
	return errors.Field("To", m.To.Validate(), "invalid recipient")
}
