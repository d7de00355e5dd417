package currency

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/coin"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/orm"
)

// Controller is the balance ledger. All state is kept in the store passed
// to each call, so a single controller can be shared.
type Controller struct {
	balances *orm.Bucket[barrel.Address, coin.Balance]
	issuance *orm.Singleton[coin.Balance]
}

// NewController returns a controller using the default storage layout.
func NewController() *Controller {
	return &Controller{
		balances: orm.NewBucket[barrel.Address, coin.Balance]("bal", orm.AddressKey{}),
		issuance: orm.NewSingleton[coin.Balance]("issuance"),
	}
}

// Mint credits given account and increases the total issuance by the same
// amount. An account entry is created if it does not exist.
func (c *Controller) Mint(db barrel.KVStore, to barrel.Address, amount coin.Balance) error {
	balance, _, err := c.balances.Get(db, to)
	if err != nil {
		return errors.Wrap(err, "recipient balance")
	}
	balance, err = balance.Add(amount)
	if err != nil {
		return errors.Wrap(err, "recipient balance")
	}
	issuance, err := c.issuance.Get(db)
	if err != nil {
		return errors.Wrap(err, "issuance")
	}
	issuance, err = issuance.Add(amount)
	if err != nil {
		return errors.Wrap(err, "issuance")
	}

	if err := c.balances.Insert(db, to, balance); err != nil {
		return err
	}
	return c.issuance.Put(db, issuance)
}

// Transfer moves amount from one account to another. The sender must have
// an account entry with enough funds. The sender entry is kept even if its
// balance drops to zero.
func (c *Controller) Transfer(db barrel.KVStore, from, to barrel.Address, amount coin.Balance) error {
	sender, ok, err := c.balances.Get(db, from)
	switch {
	case err != nil:
		return errors.Wrap(err, "sender balance")
	case !ok:
		return errors.Wrapf(ErrNonExistentAccount, "sender %s", from)
	}
	sender, err = sender.Sub(amount)
	if err != nil {
		return errors.Wrapf(ErrInsufficientBalance, "sender %s cannot pay %s", from, amount)
	}

	// Funds sent to self do not change anything, but the sender must still
	// be able to cover them.
	if from.Equals(to) {
		return nil
	}

	recipient, _, err := c.balances.Get(db, to)
	if err != nil {
		return errors.Wrap(err, "recipient balance")
	}
	recipient, err = recipient.Add(amount)
	if err != nil {
		return errors.Wrap(err, "recipient balance")
	}

	if err := c.balances.Insert(db, from, sender); err != nil {
		return err
	}
	return c.balances.Insert(db, to, recipient)
}

// Balance returns the balance of given account. The second result is false
// if the account has no entry.
func (c *Controller) Balance(db barrel.ReadOnlyKVStore, who barrel.Address) (coin.Balance, bool, error) {
	return c.balances.Get(db, who)
}

// TotalIssuance returns the sum of all funds ever minted.
func (c *Controller) TotalIssuance(db barrel.ReadOnlyKVStore) (coin.Balance, error) {
	return c.issuance.Get(db)
}

// Accounts returns all account entries ordered by address.
func (c *Controller) Accounts(db barrel.ReadOnlyKVStore) ([]orm.Entry[barrel.Address, coin.Balance], error) {
	return c.balances.All(db)
}

// CheckInvariant returns ErrInvalidState if the total issuance is not equal
// to the sum of all balances.
func (c *Controller) CheckInvariant(db barrel.ReadOnlyKVStore) error {
	var sum coin.Balance
	err := c.balances.Iterate(db, func(who barrel.Address, b coin.Balance) error {
		var err error
		sum, err = sum.Add(b)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "sum balances")
	}
	issuance, err := c.issuance.Get(db)
	if err != nil {
		return errors.Wrap(err, "issuance")
	}
	if !issuance.Equals(sum) {
		return errors.Wrapf(errors.ErrInvalidState, "issuance %s, sum of balances %s", issuance, sum)
	}
	return nil
}
