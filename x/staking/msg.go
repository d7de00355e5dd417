package staking

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/coin"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/gconf"
)

// Ensure we implement the Msg interface
var (
	_ barrel.Msg                    = RegisterMsg{}
	_ barrel.Msg                    = DelegateMsg{}
	_ gconf.PatchMsg[Configuration] = UpdateConfigurationMsg{}
)

// RegisterMsg registers the caller as a validator.
type RegisterMsg struct {
	Amount coin.Balance `json:"amount"`
}

// Path returns the routing path for this message
func (RegisterMsg) Path() string {
	return "staking/register"
}

func (RegisterMsg) Validate() error {
	return nil
}

// DelegateMsg delegates stake of the caller to a registered validator.
type DelegateMsg struct {
	To     barrel.Address `json:"to"`
	Amount coin.Balance   `json:"amount"`
}

// Path returns the routing path for this message
func (DelegateMsg) Path() string {
	return "staking/delegate"
}

// Validate makes sure that this is sensible
func (m DelegateMsg) Validate() error {
	return errors.Field("To", m.To.Validate(), "invalid validator")
}

// UpdateConfigurationMsg changes the staking configuration. Only non-zero
// fields of the patch are applied.
type UpdateConfigurationMsg struct {
	Patch Configuration `json:"patch"`
}

// Path returns the routing path for this message
func (UpdateConfigurationMsg) Path() string {
	return "staking/update_configuration"
}

// Validate makes sure that this is sensible
func (m UpdateConfigurationMsg) Validate() error {
	if len(m.Patch.Owner) != 0 {
		return errors.Field("Owner", m.Patch.Owner.Validate(), "invalid owner")
	}
	return nil
}

func (m UpdateConfigurationMsg) GetPatch() Configuration {
	return m.Patch
}
