package staking

import (
	"context"
	"sort"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/coin"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/orm"
)

// BalanceReader gives read only access to account balances. It is
// implemented by the currency controller.
type BalanceReader interface {
	Balance(db barrel.ReadOnlyKVStore, who barrel.Address) (coin.Balance, bool, error)
}

// Controller is the stake ledger. All state is kept in the store passed to
// each call, so a single controller can be shared.
type Controller struct {
	balances   BalanceReader
	validators *orm.Bucket[barrel.Address, ValidatorStake]
	delegators *orm.Bucket[barrel.Address, coin.Balance]
	active     *orm.Singleton[[]barrel.Address]
}

// NewController returns a controller that checks funds using given
// balance ledger.
func NewController(balances BalanceReader) *Controller {
	return &Controller{
		balances:   balances,
		validators: orm.NewBucket[barrel.Address, ValidatorStake]("val", orm.AddressKey{}),
		delegators: orm.NewBucket[barrel.Address, coin.Balance]("dlg", orm.AddressKey{}),
		active:     orm.NewSingleton[[]barrel.Address]("active"),
	}
}

// Register creates a validator record for the caller with given amount of
// own stake. The caller balance must cover the amount, but it is not
// debited.
func (c *Controller) Register(db barrel.KVStore, caller barrel.Address, amount coin.Balance) error {
	switch ok, err := c.validators.Has(db, caller); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrAlreadyRegistered, "validator %s", caller)
	}
	if err := c.hasFunds(db, caller, amount); err != nil {
		return err
	}
	return c.validators.Insert(db, caller, ValidatorStake{Own: amount})
}

// Delegate adds amount to the delegated stake of a registered validator.
// An account can delegate only once. The caller balance must cover the
// amount, but it is not debited.
func (c *Controller) Delegate(db barrel.KVStore, caller, to barrel.Address, amount coin.Balance) error {
	switch ok, err := c.delegators.Has(db, caller); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrAlreadyDelegator, "delegator %s", caller)
	}
	stake, ok, err := c.validators.Get(db, to)
	switch {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(ErrNotRegistered, "validator %s", to)
	}
	if err := c.hasFunds(db, caller, amount); err != nil {
		return err
	}
	stake.Delegated, err = stake.Delegated.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "delegated stake of %s", to)
	}
	if _, err := stake.Total(); err != nil {
		return errors.Wrapf(err, "total stake of %s", to)
	}

	if err := c.delegators.Insert(db, caller, amount); err != nil {
		return err
	}
	return c.validators.Insert(db, to, stake)
}

func (c *Controller) hasFunds(db barrel.ReadOnlyKVStore, who barrel.Address, amount coin.Balance) error {
	balance, ok, err := c.balances.Balance(db, who)
	switch {
	case err != nil:
		return errors.Wrap(err, "balance")
	case !ok:
		return errors.Wrapf(ErrInsufficientFunds, "%s has no account", who)
	case balance.LessThan(amount):
		return errors.Wrapf(ErrInsufficientFunds, "%s has %s, requires %s", who, balance, amount)
	}
	return nil
}

// MustRegister calls Register and panics on failure.
func (c *Controller) MustRegister(db barrel.KVStore, caller barrel.Address, amount coin.Balance) {
	if err := c.Register(db, caller, amount); err != nil {
		panic(errors.Wrapf(err, "register %s", caller))
	}
}

// MustDelegate calls Delegate and panics on failure.
func (c *Controller) MustDelegate(db barrel.KVStore, caller, to barrel.Address, amount coin.Balance) {
	if err := c.Delegate(db, caller, to, amount); err != nil {
		panic(errors.Wrapf(err, "delegate from %s to %s", caller, to))
	}
}

// OnBlockAdvance must be called once for every block. If given height is an
// era boundary, the active validator set is recomputed and true is
// returned. Otherwise the active set is not accessed.
func (c *Controller) OnBlockAdvance(ctx context.Context, db barrel.KVStore, now barrel.BlockNumber) (bool, error) {
	conf, err := loadConf(db)
	if err != nil {
		return false, err
	}
	if !isEraBoundary(now, conf.EraDuration) {
		return false, nil
	}

	selected, err := c.SelectValidators(db, conf.ValidatorCount)
	if err != nil {
		return false, errors.Wrap(err, "select validators")
	}
	if err := c.active.Put(db, selected); err != nil {
		return false, errors.Wrap(err, "store active set")
	}
	barrel.GetLogger(ctx).Info("new era",
		"height", now,
		"era", uint64(now/conf.EraDuration),
		"validators", len(selected))
	return true, nil
}

func isEraBoundary(now, duration barrel.BlockNumber) bool {
	return now > 0 && duration > 0 && now%duration == 0
}

type rankedValidator struct {
	address barrel.Address
	total   coin.Balance
}

// SelectValidators returns at most count validator addresses, ordered by
// their total stake, highest first. Validators with the same total stake
// are ordered by ascending address.
func (c *Controller) SelectValidators(db barrel.ReadOnlyKVStore, count uint32) ([]barrel.Address, error) {
	var ranked []rankedValidator
	err := c.validators.Iterate(db, func(addr barrel.Address, stake ValidatorStake) error {
		total, err := stake.Total()
		if err != nil {
			return errors.Wrapf(err, "total stake of %s", addr)
		}
		ranked = append(ranked, rankedValidator{address: addr, total: total})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(ranked, func(i, j int) bool {
		if cmp := ranked[i].total.Cmp(ranked[j].total); cmp != 0 {
			return cmp > 0
		}
		return ranked[i].address.Compare(ranked[j].address) < 0
	})
	if uint64(len(ranked)) > uint64(count) {
		ranked = ranked[:count]
	}

	selected := make([]barrel.Address, len(ranked))
	for i, r := range ranked {
		selected[i] = r.address
	}
	return selected, nil
}

// Validator returns the stake of given validator. The second result is
// false if the account is not registered.
func (c *Controller) Validator(db barrel.ReadOnlyKVStore, who barrel.Address) (ValidatorStake, bool, error) {
	return c.validators.Get(db, who)
}

// Validators returns all registered validators ordered by address.
func (c *Controller) Validators(db barrel.ReadOnlyKVStore) ([]orm.Entry[barrel.Address, ValidatorStake], error) {
	return c.validators.All(db)
}

// Delegation returns the amount delegated by given account. The second
// result is false if the account never delegated.
func (c *Controller) Delegation(db barrel.ReadOnlyKVStore, who barrel.Address) (coin.Balance, bool, error) {
	return c.delegators.Get(db, who)
}

// ActiveValidators returns the validator set selected at the last era
// boundary. It is empty until the first boundary.
func (c *Controller) ActiveValidators(db barrel.ReadOnlyKVStore) ([]barrel.Address, error) {
	return c.active.Get(db)
}

// Config returns the current configuration.
func (c *Controller) Config(db barrel.ReadOnlyKVStore) (Configuration, error) {
	return loadConf(db)
}
