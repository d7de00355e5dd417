package app

import (
	"context"
	"testing"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMsg struct {
	path string
}

func (m testMsg) Path() string    { return m.path }
func (m testMsg) Validate() error { return nil }

func TestRouter(t *testing.T) {
	var called []string
	handler := func(name string) barrel.Handler {
		return barrel.HandlerFunc(func(context.Context, barrel.KVStore, barrel.Address, barrel.Msg) error {
			called = append(called, name)
			return nil
		})
	}

	r := NewRouter()
	r.Handle("a/first", handler("first"))
	r.Handle("a/second", handler("second"))
	assert.Equal(t, []string{"a/first", "a/second"}, r.Paths())

	db := store.MemStore()
	require.NoError(t, r.Deliver(context.Background(), db, nil, testMsg{path: "a/second"}))
	require.NoError(t, r.Deliver(context.Background(), db, nil, testMsg{path: "a/first"}))
	assert.Equal(t, []string{"second", "first"}, called)

	err := r.Deliver(context.Background(), db, nil, testMsg{path: "a/third"})
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

func TestRouterPanics(t *testing.T) {
	nop := barrel.HandlerFunc(func(context.Context, barrel.KVStore, barrel.Address, barrel.Msg) error { return nil })

	cases := map[string]func(r *Router){
		"duplicated path": func(r *Router) {
			r.Handle("a/b", nop)
			r.Handle("a/b", nop)
		},
		"path without a module": func(r *Router) {
			r.Handle("transfer", nop)
		},
		"upper case path": func(r *Router) {
			r.Handle("Currency/Mint", nop)
		},
	}
	for testName, fn := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Panics(t, func() { fn(NewRouter()) })
		})
	}
}
