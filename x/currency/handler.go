package currency

import (
	"context"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r barrel.Registry, control *Controller) {
	r.Handle(MintMsg{}.Path(), NewMintHandler(control))
	r.Handle(TransferMsg{}.Path(), NewTransferHandler(control))
}

// MintHandler creates new funds. Any caller may mint.
type MintHandler struct {
	control *Controller
}

var _ barrel.Handler = MintHandler{}

// NewMintHandler creates a handler for MintMsg
func NewMintHandler(control *Controller) MintHandler {
	return MintHandler{control: control}
}

func (h MintHandler) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg) error {
	m, ok := msg.(MintMsg)
	if !ok {
		return errors.WithType(errors.ErrInvalidMsg, msg)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := h.control.Mint(db, m.To, m.Amount); err != nil {
		return err
	}
	barrel.GetLogger(ctx).Debug("minted", "to", m.To, "amount", m.Amount, "caller", caller)
	return nil
}

// TransferHandler moves funds from the caller to the recipient.
type TransferHandler struct {
	control *Controller
}

var _ barrel.Handler = TransferHandler{}

// NewTransferHandler creates a handler for TransferMsg
func NewTransferHandler(control *Controller) TransferHandler {
	return TransferHandler{control: control}
}

func (h TransferHandler) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg) error {
	m, ok := msg.(TransferMsg)
	if !ok {
		return errors.WithType(errors.ErrInvalidMsg, msg)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "transfer")
	}
	if err := h.control.Transfer(db, caller, m.To, m.Amount); err != nil {
		return err
	}
	barrel.GetLogger(ctx).Debug("transferred", "from", caller, "to", m.To, "amount", m.Amount)
	return nil
}
