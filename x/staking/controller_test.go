package staking

import (
	"context"
	"testing"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/barreltest"
	"github.com/iov-one/barrel/coin"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/gconf"
	"github.com/iov-one/barrel/store"
	"github.com/iov-one/barrel/x/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledger struct {
	db       store.CacheableKVStore
	currency *currency.Controller
	staking  *Controller
}

func newLedger(t testing.TB, conf Configuration, balances map[uint64]uint64) ledger {
	t.Helper()
	l := ledger{db: store.MemStore(), currency: currency.NewController()}
	l.staking = NewController(l.currency)
	require.NoError(t, gconf.Save(l.db, confPkg, conf))
	for n, amount := range balances {
		require.NoError(t, l.currency.Mint(l.db, barreltest.NewAddress(n), coin.NewBalance(amount)))
	}
	return l
}

func (l ledger) advance(t testing.TB, from, to barrel.BlockNumber) {
	t.Helper()
	for h := from; h <= to; h++ {
		_, err := l.staking.OnBlockAdvance(context.Background(), l.db, h)
		require.NoError(t, err)
	}
}

func (l ledger) active(t testing.TB) []barrel.Address {
	t.Helper()
	active, err := l.staking.ActiveValidators(l.db)
	require.NoError(t, err)
	return active
}

func addrs(ns ...uint64) []barrel.Address {
	res := make([]barrel.Address, len(ns))
	for i, n := range ns {
		res[i] = barreltest.NewAddress(n)
	}
	return res
}

var defaultConf = Configuration{EraDuration: 3, ValidatorCount: 2}

func TestRegister(t *testing.T) {
	cases := map[string]struct {
		caller  uint64
		amount  uint64
		before  func(t testing.TB, l ledger)
		wantErr *errors.Error
	}{
		"register part of the balance": {
			caller: 1,
			amount: 60,
		},
		"register the whole balance": {
			caller: 1,
			amount: 100,
		},
		"register more than the balance": {
			caller:  1,
			amount:  101,
			wantErr: ErrInsufficientFunds,
		},
		"register without an account": {
			caller:  2,
			amount:  0,
			wantErr: ErrInsufficientFunds,
		},
		"register twice": {
			caller: 1,
			amount: 10,
			before: func(t testing.TB, l ledger) {
				require.NoError(t, l.staking.Register(l.db, barreltest.NewAddress(1), coin.NewBalance(5)))
			},
			wantErr: ErrAlreadyRegistered,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newLedger(t, defaultConf, map[uint64]uint64{1: 100})
			if tc.before != nil {
				tc.before(t, l)
			}
			snapshot := barreltest.Snapshot(t, l.db)
			caller := barreltest.NewAddress(tc.caller)

			err := l.staking.Register(l.db, caller, coin.NewBalance(tc.amount))
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
				assert.Equal(t, snapshot, barreltest.Snapshot(t, l.db))
				return
			}
			require.NoError(t, err)

			stake, ok, err := l.staking.Validator(l.db, caller)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, ValidatorStake{Own: coin.NewBalance(tc.amount)}, stake)

			// Registration does not lock funds.
			balance, _, err := l.currency.Balance(l.db, caller)
			require.NoError(t, err)
			assert.Equal(t, coin.NewBalance(100), balance)
		})
	}
}

func TestFundsRemainSpendableAfterRegister(t *testing.T) {
	l := newLedger(t, defaultConf, map[uint64]uint64{1: 100})
	alice, bob := barreltest.NewAddress(1), barreltest.NewAddress(2)

	require.NoError(t, l.staking.Register(l.db, alice, coin.NewBalance(100)))
	require.NoError(t, l.currency.Transfer(l.db, alice, bob, coin.NewBalance(100)))

	stake, _, err := l.staking.Validator(l.db, alice)
	require.NoError(t, err)
	assert.Equal(t, coin.NewBalance(100), stake.Own)
}

func TestDelegate(t *testing.T) {
	cases := map[string]struct {
		caller, to    uint64
		amount        uint64
		before        func(t testing.TB, l ledger)
		wantErr       *errors.Error
		wantDelegated uint64
	}{
		"delegate to a validator": {
			caller:        42,
			to:            1,
			amount:        30,
			wantDelegated: 30,
		},
		"delegations of different accounts add up": {
			caller: 42,
			to:     1,
			amount: 30,
			before: func(t testing.TB, l ledger) {
				require.NoError(t, l.staking.Delegate(l.db, barreltest.NewAddress(2), barreltest.NewAddress(1), coin.NewBalance(7)))
			},
			wantDelegated: 37,
		},
		"validator delegating to itself": {
			caller:        1,
			to:            1,
			amount:        10,
			wantDelegated: 10,
		},
		"delegate twice": {
			caller: 42,
			to:     1,
			amount: 1,
			before: func(t testing.TB, l ledger) {
				require.NoError(t, l.staking.Delegate(l.db, barreltest.NewAddress(42), barreltest.NewAddress(1), coin.NewBalance(3)))
			},
			wantErr: ErrAlreadyDelegator,
		},
		"delegate to an unknown validator": {
			caller:  42,
			to:      2,
			amount:  1,
			wantErr: ErrNotRegistered,
		},
		"unknown validator is reported before missing funds": {
			caller:  43,
			to:      2,
			amount:  1000,
			wantErr: ErrNotRegistered,
		},
		"delegate more than the balance": {
			caller:  42,
			to:      1,
			amount:  51,
			wantErr: ErrInsufficientFunds,
		},
		"delegate without an account": {
			caller:  43,
			to:      1,
			amount:  1,
			wantErr: ErrInsufficientFunds,
		},
		"already delegator is checked first": {
			caller: 42,
			to:     2,
			amount: 1000,
			before: func(t testing.TB, l ledger) {
				require.NoError(t, l.staking.Delegate(l.db, barreltest.NewAddress(42), barreltest.NewAddress(1), coin.NewBalance(3)))
			},
			wantErr: ErrAlreadyDelegator,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newLedger(t, defaultConf, map[uint64]uint64{1: 10, 2: 10, 42: 50})
			require.NoError(t, l.staking.Register(l.db, barreltest.NewAddress(1), coin.NewBalance(10)))
			if tc.before != nil {
				tc.before(t, l)
			}
			snapshot := barreltest.Snapshot(t, l.db)
			caller, to := barreltest.NewAddress(tc.caller), barreltest.NewAddress(tc.to)

			err := l.staking.Delegate(l.db, caller, to, coin.NewBalance(tc.amount))
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
				assert.Equal(t, snapshot, barreltest.Snapshot(t, l.db))
				return
			}
			require.NoError(t, err)

			delegated, ok, err := l.staking.Delegation(l.db, caller)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, coin.NewBalance(tc.amount), delegated)

			stake, _, err := l.staking.Validator(l.db, to)
			require.NoError(t, err)
			assert.Equal(t, coin.NewBalance(tc.wantDelegated), stake.Delegated)
			assert.Equal(t, coin.NewBalance(10), stake.Own)
		})
	}
}

func TestDelegateTotalStakeOverflow(t *testing.T) {
	maxBalance, err := coin.ParseBalance("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	almostMax, err := maxBalance.Sub(coin.NewBalance(1))
	require.NoError(t, err)

	l := newLedger(t, defaultConf, map[uint64]uint64{2: 1})
	big, small, other := barreltest.NewAddress(1), barreltest.NewAddress(2), barreltest.NewAddress(3)
	require.NoError(t, l.currency.Mint(l.db, big, almostMax))
	require.NoError(t, l.staking.Register(l.db, big, almostMax))
	require.NoError(t, l.staking.Delegate(l.db, small, big, coin.NewBalance(1)))

	// Funds are not locked, so the same coin can back a second delegation.
	require.NoError(t, l.currency.Transfer(l.db, small, other, coin.NewBalance(1)))
	snapshot := barreltest.Snapshot(t, l.db)
	err = l.staking.Delegate(l.db, other, big, coin.NewBalance(1))
	require.True(t, errors.ErrOverflow.Is(err), "want overflow, got %+v", err)
	assert.Equal(t, snapshot, barreltest.Snapshot(t, l.db))

	l.advance(t, 1, defaultConf.EraDuration)
	assert.Equal(t, []barrel.Address{big}, l.active(t))
}

func TestEraSelection(t *testing.T) {
	type delegation struct{ from, to, amount uint64 }

	cases := map[string]struct {
		conf        Configuration
		validators  map[uint64]uint64
		delegations []delegation
		wantActive  []barrel.Address
	}{
		"highest stake first, truncated": {
			conf:       defaultConf,
			validators: map[uint64]uint64{1: 10, 2: 20, 3: 30},
			wantActive: addrs(3, 2),
		},
		"delegated stake counts": {
			conf:        defaultConf,
			validators:  map[uint64]uint64{1: 10, 2: 20, 3: 30},
			delegations: []delegation{{from: 42, to: 1, amount: 30}},
			wantActive:  addrs(1, 3),
		},
		"fewer validators than seats": {
			conf:       Configuration{EraDuration: 3, ValidatorCount: 5},
			validators: map[uint64]uint64{1: 10, 2: 20},
			wantActive: addrs(2, 1),
		},
		"equal stake ordered by address": {
			conf:       Configuration{EraDuration: 3, ValidatorCount: 3},
			validators: map[uint64]uint64{4: 10, 2: 10, 3: 10},
			wantActive: addrs(2, 3, 4),
		},
		"equal stake at the cut": {
			conf:        Configuration{EraDuration: 3, ValidatorCount: 2},
			validators:  map[uint64]uint64{1: 5, 5: 10, 7: 20},
			delegations: []delegation{{from: 42, to: 1, amount: 5}},
			wantActive:  addrs(7, 1),
		},
		"no seats": {
			conf:       Configuration{EraDuration: 3, ValidatorCount: 0},
			validators: map[uint64]uint64{1: 10},
			wantActive: addrs(),
		},
		"no validators": {
			conf:       defaultConf,
			wantActive: addrs(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			balances := map[uint64]uint64{42: 100}
			for n, amount := range tc.validators {
				balances[n] = amount
			}
			l := newLedger(t, tc.conf, balances)
			for n, amount := range tc.validators {
				require.NoError(t, l.staking.Register(l.db, barreltest.NewAddress(n), coin.NewBalance(amount)))
			}
			for _, d := range tc.delegations {
				require.NoError(t, l.staking.Delegate(l.db, barreltest.NewAddress(d.from), barreltest.NewAddress(d.to), coin.NewBalance(d.amount)))
			}

			l.advance(t, 1, 2)
			assert.Empty(t, l.active(t))

			rotated, err := l.staking.OnBlockAdvance(context.Background(), l.db, 3)
			require.NoError(t, err)
			assert.True(t, rotated)
			if len(tc.wantActive) == 0 {
				assert.Empty(t, l.active(t))
			} else {
				assert.Equal(t, tc.wantActive, l.active(t))
			}
		})
	}
}

func TestEraBoundary(t *testing.T) {
	cases := map[string]struct {
		now      barrel.BlockNumber
		duration barrel.BlockNumber
		want     bool
	}{
		"genesis block":    {now: 0, duration: 3, want: false},
		"first block":      {now: 1, duration: 3, want: false},
		"first boundary":   {now: 3, duration: 3, want: true},
		"later boundary":   {now: 300, duration: 3, want: true},
		"after boundary":   {now: 301, duration: 3, want: false},
		"every block":      {now: 1, duration: 1, want: true},
		"missing duration": {now: 5, duration: 0, want: false},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, isEraBoundary(tc.now, tc.duration))
		})
	}
}

func TestNonBoundaryDoesNotTouchActiveSet(t *testing.T) {
	l := newLedger(t, defaultConf, map[uint64]uint64{1: 10, 2: 20})
	require.NoError(t, l.staking.Register(l.db, barreltest.NewAddress(1), coin.NewBalance(10)))
	l.advance(t, 1, 3)
	require.Equal(t, addrs(1), l.active(t))

	// A validator registered mid era is not visible before the next boundary.
	require.NoError(t, l.staking.Register(l.db, barreltest.NewAddress(2), coin.NewBalance(20)))
	snapshot := barreltest.Snapshot(t, l.db)
	for h := barrel.BlockNumber(4); h <= 5; h++ {
		rotated, err := l.staking.OnBlockAdvance(context.Background(), l.db, h)
		require.NoError(t, err)
		assert.False(t, rotated)
	}
	assert.Equal(t, snapshot, barreltest.Snapshot(t, l.db))
	assert.Equal(t, addrs(1), l.active(t))

	l.advance(t, 6, 6)
	assert.Equal(t, addrs(2, 1), l.active(t))
}

func TestSelectionIsIdempotent(t *testing.T) {
	l := newLedger(t, defaultConf, map[uint64]uint64{1: 10, 2: 20, 3: 30})
	for n := uint64(1); n <= 3; n++ {
		require.NoError(t, l.staking.Register(l.db, barreltest.NewAddress(n), coin.NewBalance(n*10)))
	}
	l.advance(t, 3, 3)
	first := barreltest.Snapshot(t, l.db)
	l.advance(t, 3, 3)
	assert.Equal(t, first, barreltest.Snapshot(t, l.db))
}

func TestValidatorCountChangeTakesEffectAtBoundary(t *testing.T) {
	owner := barreltest.NewAddress(99)
	conf := Configuration{Owner: owner, EraDuration: 3, ValidatorCount: 3}
	l := newLedger(t, conf, map[uint64]uint64{1: 10, 2: 20, 3: 30})
	for n := uint64(1); n <= 3; n++ {
		require.NoError(t, l.staking.Register(l.db, barreltest.NewAddress(n), coin.NewBalance(n*10)))
	}

	l.advance(t, 1, 3)
	require.Equal(t, addrs(3, 2, 1), l.active(t))

	msg := UpdateConfigurationMsg{Patch: Configuration{ValidatorCount: 1}}
	require.NoError(t, NewConfigHandler().Deliver(context.Background(), l.db, owner, msg))
	l.advance(t, 4, 5)
	require.Equal(t, addrs(3, 2, 1), l.active(t))

	l.advance(t, 6, 6)
	assert.Equal(t, addrs(3), l.active(t))
}

func TestOnBlockAdvanceRequiresConfiguration(t *testing.T) {
	c := NewController(currency.NewController())
	_, err := c.OnBlockAdvance(context.Background(), store.MemStore(), 3)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}
