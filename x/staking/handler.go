package staking

import (
	"context"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/gconf"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r barrel.Registry, control *Controller) {
	r.Handle(RegisterMsg{}.Path(), NewRegisterHandler(control))
	r.Handle(DelegateMsg{}.Path(), NewDelegateHandler(control))
	r.Handle(UpdateConfigurationMsg{}.Path(), NewConfigHandler())
}

// RegisterHandler registers the caller as a validator.
type RegisterHandler struct {
	control *Controller
}

var _ barrel.Handler = RegisterHandler{}

// NewRegisterHandler creates a handler for RegisterMsg
func NewRegisterHandler(control *Controller) RegisterHandler {
	return RegisterHandler{control: control}
}

func (h RegisterHandler) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg) error {
	m, ok := msg.(RegisterMsg)
	if !ok {
		return errors.WithType(errors.ErrInvalidMsg, msg)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "register")
	}
	if err := h.control.Register(db, caller, m.Amount); err != nil {
		return err
	}
	barrel.GetLogger(ctx).Info("validator registered", "validator", caller, "stake", m.Amount)
	return nil
}

// DelegateHandler delegates stake of the caller.
type DelegateHandler struct {
	control *Controller
}

var _ barrel.Handler = DelegateHandler{}

// NewDelegateHandler creates a handler for DelegateMsg
func NewDelegateHandler(control *Controller) DelegateHandler {
	return DelegateHandler{control: control}
}

func (h DelegateHandler) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg) error {
	m, ok := msg.(DelegateMsg)
	if !ok {
		return errors.WithType(errors.ErrInvalidMsg, msg)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "delegate")
	}
	if err := h.control.Delegate(db, caller, m.To, m.Amount); err != nil {
		return err
	}
	barrel.GetLogger(ctx).Info("stake delegated", "delegator", caller, "validator", m.To, "stake", m.Amount)
	return nil
}

// NewConfigHandler returns a handler of UpdateConfigurationMsg.
func NewConfigHandler() barrel.Handler {
	return gconf.NewUpdateConfigurationHandler[Configuration](confPkg)
}
