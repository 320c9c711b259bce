package repository

import "context"

// TxManager runs a function inside one database transaction. The transaction
// handle travels in the context; repository methods pick it up so that every
// read, lock, and write issued by the function shares the same transaction.
// If fn returns an error the transaction is rolled back with no partial
// writes; otherwise it is committed.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
