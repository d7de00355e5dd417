package app

import (
	"os"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

// IsValidChainID is the RegExp to ensure valid chain IDs
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// Genesis file format.
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState barrel.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "unmarshal genesis file: %s", err)
	}
	if !IsValidChainID(gen.ChainID) {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "invalid chain id %q", gen.ChainID)
	}
	if len(gen.AppState) == 0 {
		return gen, errors.Wrap(errors.ErrEmpty, "app_state not set in genesis file")
	}
	return gen, nil
}
