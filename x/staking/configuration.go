package staking

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/gconf"
)

const confPkg = "staking"

// Configuration of the era scheduler.
type Configuration struct {
	// Owner is the only account allowed to update the configuration.
	Owner barrel.Address `json:"owner" cbor:"1,keyasint,omitempty"`
	// EraDuration is the number of blocks in a single era.
	EraDuration barrel.BlockNumber `json:"era_duration" cbor:"2,keyasint"`
	// ValidatorCount is the maximum size of the active validator set.
	ValidatorCount uint32 `json:"validator_count" cbor:"3,keyasint"`
}

var _ gconf.OwnedConfig = Configuration{}

func (c Configuration) Validate() error {
	var errs error
	if c.EraDuration == 0 {
		errs = errors.AppendField(errs, "EraDuration", errors.ErrInvalidState.New("must be positive"))
	}
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	return errs
}

func (c Configuration) GetOwner() barrel.Address {
	return c.Owner
}

// ConfigInitializer loads the staking configuration from the genesis "conf"
// section.
type ConfigInitializer struct{}

var _ barrel.Initializer = ConfigInitializer{}

func (ConfigInitializer) FromGenesis(opts barrel.Options, db barrel.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, confPkg, &conf)
}

func loadConf(db barrel.ReadOnlyKVStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
