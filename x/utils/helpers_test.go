package utils

import (
	"context"

	"github.com/iov-one/barrel"
)

type testMsg struct{}

func (testMsg) Path() string    { return "test/msg" }
func (testMsg) Validate() error { return nil }

// writeHandler writes the key, value pair and returns the error.
func writeHandler(key, value []byte, err error) barrel.Handler {
	return barrel.HandlerFunc(func(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg) error {
		if werr := db.Set(key, value); werr != nil {
			return werr
		}
		return err
	})
}

func panicHandler(msg interface{}) barrel.Handler {
	return barrel.HandlerFunc(func(context.Context, barrel.KVStore, barrel.Address, barrel.Msg) error {
		panic(msg)
	})
}
