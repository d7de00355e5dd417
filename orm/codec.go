package orm

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

// Marshal serializes given value using deterministic CBOR encoding. The same
// value always produces the same bytes.
func Marshal(v interface{}) ([]byte, error) {
	raw, err := encMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "marshal %T: %s", v, err)
	}
	return raw, nil
}

// Unmarshal deserializes CBOR data into given destination.
func Unmarshal(raw []byte, dst interface{}) error {
	if err := cbor.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "unmarshal %T: %s", dst, err)
	}
	return nil
}

// Validator is implemented by models that can check their own state.
type Validator interface {
	Validate() error
}

func validate(v interface{}) error {
	if m, ok := v.(Validator); ok {
		if err := m.Validate(); err != nil {
			return errors.Wrap(errors.ErrInvalidModel, err.Error())
		}
	}
	return nil
}

// KeyCodec converts a typed key into its binary representation and back.
type KeyCodec[K any] interface {
	EncodeKey(K) []byte
	DecodeKey([]byte) (K, error)
}

// AddressKey uses account addresses as keys.
type AddressKey struct{}

var _ KeyCodec[barrel.Address] = AddressKey{}

func (AddressKey) EncodeKey(a barrel.Address) []byte {
	return a
}

func (AddressKey) DecodeKey(raw []byte) (barrel.Address, error) {
	return barrel.Address(raw).Clone(), nil
}

// StringKey uses strings as keys.
type StringKey struct{}

var _ KeyCodec[string] = StringKey{}

func (StringKey) EncodeKey(s string) []byte {
	return []byte(s)
}

func (StringKey) DecodeKey(raw []byte) (string, error) {
	return string(raw), nil
}
