package gconf

import (
	"context"
	"reflect"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

// OwnedConfig is a configuration that declares an owner. A configuration
// update message must be submitted by the owner in order to be authorized to
// apply the change.
type OwnedConfig interface {
	Configuration
	GetOwner() barrel.Address
}

// PatchMsg is implemented by a message that carries a configuration patch.
type PatchMsg[T OwnedConfig] interface {
	barrel.Msg
	GetPatch() T
}

// UpdateConfigurationHandler processes configuration patch messages of a
// single package.
type UpdateConfigurationHandler[T OwnedConfig] struct {
	pkg string
}

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message.
//
// Only the current configuration owner can submit an update. Zero value
// fields of the patch do not modify the configuration.
func NewUpdateConfigurationHandler[T OwnedConfig](pkg string) UpdateConfigurationHandler[T] {
	return UpdateConfigurationHandler[T]{pkg: pkg}
}

func (h UpdateConfigurationHandler[T]) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg) error {
	pm, ok := msg.(PatchMsg[T])
	if !ok {
		return errors.WithType(errors.ErrInvalidMsg, msg)
	}
	if err := pm.Validate(); err != nil {
		return err
	}

	var config T
	if err := Load(db, h.pkg, &config); err != nil {
		return errors.Wrap(err, "load current configuration")
	}
	owner := config.GetOwner()
	if owner == nil {
		return errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
	}
	if !owner.Equals(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "only the owner can update the configuration")
	}

	if err := Patch(&config, pm.GetPatch()); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(db, h.pkg, config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	barrel.GetLogger(ctx).Info("configuration updated", "pkg", h.pkg, "owner", caller)
	return nil
}

// Patch copies all non-zero fields of payload into config. config must be a
// pointer to a struct and payload a struct of the same type.
func Patch(config interface{}, payload interface{}) error {
	cval := reflect.ValueOf(config)
	if cval.Kind() != reflect.Ptr || cval.Elem().Kind() != reflect.Struct {
		return errors.Wrapf(errors.ErrInvalidType, "config must be a struct pointer, got %T", config)
	}
	cval = cval.Elem()
	pval := reflect.Indirect(reflect.ValueOf(payload))
	if pval.Type() != cval.Type() {
		return errors.Wrapf(errors.ErrInvalidType, "patch %T does not match config %T", payload, config)
	}

	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		// Zero values do not update the original configuration.
		if got.IsZero() {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}
