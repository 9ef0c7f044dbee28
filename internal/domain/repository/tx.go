package repository

import "context"

// TxManager runs fn in a transaction carried by the context passed to fn.
// Repositories called with that context join the transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
