package barreltest

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

// Tester is implemented by *testing.T, *testing.B and *rapid.T.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// Snapshot returns a copy of every key and value in the store. It is used
// to assert that a failed call did not modify the state.
func Snapshot(t Tester, db barrel.ReadOnlyKVStore) map[string]string {
	t.Helper()

	it, err := db.Iterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot create iterator: %s", err)
	}
	defer it.Release()

	snap := make(map[string]string)
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return snap
		}
		if err != nil {
			t.Fatalf("iterator: %s", err)
		}
		snap[string(key)] = string(value)
	}
}
