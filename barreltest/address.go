package barreltest

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/barrel"
)

// NewAddress returns an address with the big-endian encoded n in its last
// eight bytes. Addresses created with a lower n sort first.
func NewAddress(n uint64) barrel.Address {
	addr := make(barrel.Address, barrel.AddressLength)
	binary.BigEndian.PutUint64(addr[barrel.AddressLength-8:], n)
	return addr
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. The test fails if the address cannot be parsed.
func ParseAddress(t testing.TB, encodedAddress string) barrel.Address {
	t.Helper()

	addr, err := barrel.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
