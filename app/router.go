package app

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different paths and
// dispatch messages to them.
type Router struct {
	routes map[string]barrel.Handler
}

var (
	_ barrel.Registry = (*Router)(nil)
	_ barrel.Handler  = (*Router)(nil)
)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{routes: make(map[string]barrel.Handler)}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered or the path is malformed.
func (r *Router) Handle(path string, h barrel.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no handler is
// found, a handler that always fails with ErrNotFound is returned.
func (r *Router) Handler(path string) barrel.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Paths returns all registered paths in alphabetical order.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Deliver dispatches the message to the handler registered for its path.
func (r *Router) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg) error {
	return r.Handler(msg.Path()).Deliver(ctx, db, caller, msg)
}

func notFoundHandler(path string) barrel.Handler {
	return barrel.HandlerFunc(func(context.Context, barrel.KVStore, barrel.Address, barrel.Msg) error {
		return errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", path)
	})
}
