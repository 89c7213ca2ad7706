package port

import "context"

// Transactor runs fn inside one database transaction. Repository calls made
// with the context passed to fn join that transaction; if fn returns an error
// the transaction rolls back and nothing it wrote persists.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
