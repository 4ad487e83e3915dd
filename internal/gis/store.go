package gis

import (
	"context"
)

// Reader is the read side of the geometry store. It is what the parser
// consumes: street lookup by spoken name plus the full name list for
// building the grammar vocabulary. Implementations are safe for concurrent
// readers once the load phase has completed.
type Reader interface {
	// Street returns the named street, or nil when the store has no street
	// by that name. Names are matched as stored (spoken form, uppercase).
	Street(ctx context.Context, name string) (*Street, error)

	// StreetNames returns every street name in the store.
	StreetNames(ctx context.Context) ([]string, error)
}

// Store adds the loader's write phase on top of Reader. Writes must finish
// before any reader starts; the store does not support concurrent
// writer/reader overlap.
type Store interface {
	Reader

	// ReplaceStreets replaces the entire store contents in one transaction.
	ReplaceStreets(ctx context.Context, streets []*Street) error

	// Migrate creates the schema if it does not exist.
	Migrate(ctx context.Context) error

	Close() error
}
