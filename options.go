package barrel

import (
	"github.com/goccy/go-json"
	"github.com/iov-one/barrel/errors"
)

// Options are the app options. Each extension can look up its key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the
// json into the given obj. Returns an error if it cannot parse. Noop and no
// error if key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "option %q: %s", key, err)
	}
	return nil
}

// Initializer implementations actually handle parsing the genesis file,
// and writing the initial state of an extension into the store.
//
// Initializers are run once, before the first block. Any returned error
// aborts the whole chain initialization.
type Initializer interface {
	FromGenesis(opts Options, db KVStore) error
}

// Initializers chains many Initializers together to run them in order.
type Initializers []Initializer

// FromGenesis will pass opts to all Initializers in the list, aborting at
// the first error.
func (inits Initializers) FromGenesis(opts Options, db KVStore) error {
	for _, ini := range inits {
		if err := ini.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
