// Package sessions implements the durable side of the session store. Rows
// hold only ciphertext: session records are sealed with the process key
// before they reach this package, so nothing here can read a session.
package sessions

import "context"

// Row is one encrypted session record at rest.
type Row struct {
	ID         string
	Ciphertext []byte
	Nonce      []byte
}

// Repository is the session store's persistence contract.
type Repository interface {
	// Put inserts an encrypted session row.
	Put(ctx context.Context, row *Row) error

	// Get returns the row or common.ErrNotFound.
	Get(ctx context.Context, id string) (*Row, error)

	// Delete removes the row. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// All returns every stored row, for the expiry sweep.
	All(ctx context.Context) ([]Row, error)
}
