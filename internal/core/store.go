package core

import "context"

// Store is the durable products collection.
//
// Every mutating call has persisted its change before it returns. Name is a
// lookup key only: the store does not enforce uniqueness, callers do.
type Store interface {
	// Create assigns a fresh ID, persists the product and returns it.
	Create(ctx context.Context, d Draft) (Product, error)

	// UpdateByID overwrites quantity, price and date.
	// Returns a *NotFoundError if no product has that ID.
	UpdateByID(ctx context.Context, id int64, f Fields) error

	// FindByName returns the product with exactly this name. If several
	// exist, the lowest ID wins.
	FindByName(ctx context.Context, name string) (Product, bool, error)

	FindByID(ctx context.Context, id int64) (Product, bool, error)

	// ListAll returns every product ordered by ID ascending.
	ListAll(ctx context.Context) ([]Product, error)

	AllIDs(ctx context.Context) (IDSet, error)

	Close() error
}
