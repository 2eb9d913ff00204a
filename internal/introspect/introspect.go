// Package introspect contains the live-catalog introspecter registry: each
// dialect package registers a constructor here, and callers look one up by
// dialect name rather than importing a concrete driver package directly.
package introspect

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"ort/internal/catalog"
)

// Introspecter builds a catalog.Schema by querying a live database's own
// metadata tables, as an alternative to a checked-in TOML catalog.
type Introspecter interface {
	Introspect(ctx context.Context, db *sqlx.DB) (*catalog.Schema, error)
}

var (
	registry = make(map[string]func() Introspecter)
	mu       sync.RWMutex
)

// Register associates a dialect name with a constructor. Dialect packages
// call this from an init func.
func Register(dialect string, fn func() Introspecter) {
	mu.Lock()
	defer mu.Unlock()
	registry[dialect] = fn
}

// New returns a fresh Introspecter for dialect, or an error if no package
// registered that name.
func New(dialect string) (Introspecter, error) {
	mu.RLock()
	fn, ok := registry[dialect]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("introspect: unsupported dialect %q", dialect)
	}
	return fn(), nil
}
