/*
Package coin implements the currency amount used by all ledgers.

A Balance is an unsigned 256-bit integer. All arithmetic is checked: an
addition that would overflow returns errors.ErrOverflow and a subtraction
that would go below zero returns errors.ErrInsufficientAmount. The receiver
is never modified.
*/
package coin

import (
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/holiman/uint256"
	"github.com/iov-one/barrel/errors"
)

// Balance is a non-negative quantity of currency units. The zero value is
// a valid zero amount.
type Balance struct {
	v uint256.Int
}

// NewBalance returns a balance of given amount.
func NewBalance(amount uint64) Balance {
	var b Balance
	b.v.SetUint64(amount)
	return b
}

// ParseBalance parses a decimal representation of an amount.
func ParseBalance(s string) (Balance, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Balance{}, errors.Wrapf(errors.ErrInvalidAmount, "parse %q: %s", s, err)
	}
	return Balance{v: *v}, nil
}

// Add returns the sum of both balances.
func (b Balance) Add(o Balance) (Balance, error) {
	var res Balance
	if _, overflow := res.v.AddOverflow(&b.v, &o.v); overflow {
		return Balance{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", b, o)
	}
	return res, nil
}

// Sub returns the difference of both balances. It fails if o is greater
// than b.
func (b Balance) Sub(o Balance) (Balance, error) {
	var res Balance
	if _, underflow := res.v.SubOverflow(&b.v, &o.v); underflow {
		return Balance{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", b, o)
	}
	return res, nil
}

// Cmp compares both balances and returns -1 if b < o, 0 if b == o and
// +1 if b > o.
func (b Balance) Cmp(o Balance) int {
	return b.v.Cmp(&o.v)
}

// LessThan returns true if b < o.
func (b Balance) LessThan(o Balance) bool {
	return b.v.Lt(&o.v)
}

// Equals returns true if both balances hold the same amount.
func (b Balance) Equals(o Balance) bool {
	return b.v.Eq(&o.v)
}

// IsZero returns true if the balance is zero.
func (b Balance) IsZero() bool {
	return b.v.IsZero()
}

// String returns the decimal representation.
func (b Balance) String() string {
	return b.v.Dec()
}

// MarshalCBOR encodes the balance as a big-endian byte string without
// leading zeros.
func (b Balance) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(b.v.Bytes())
}

func (b *Balance) UnmarshalCBOR(raw []byte) error {
	var buf []byte
	if err := cbor.Unmarshal(raw, &buf); err != nil {
		return errors.Wrap(err, "balance")
	}
	if len(buf) > 32 {
		return errors.Wrapf(errors.ErrOverflow, "balance of %d bytes", len(buf))
	}
	b.v.SetBytes(buf)
	return nil
}

// MarshalJSON encodes the balance as a decimal string, so that values
// beyond the float precision survive json parsers.
func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON accepts both a decimal string and a json number.
func (b *Balance) UnmarshalJSON(raw []byte) error {
	s := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return errors.Wrap(errors.ErrInvalidAmount, "malformed string")
		}
		s = unq
	}
	val, err := ParseBalance(s)
	if err != nil {
		return err
	}
	*b = val
	return nil
}
