package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// DB is the subset of pgxpool.Pool the repositories need. pgx transactions
// and pgxmock pools satisfy the query methods, which keeps every repository
// testable without a live database.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// executor is what a single statement runs against: the pool, or the
// transaction carried by the context.
type executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// TxManager implements port.Transactor by carrying a pgx transaction in the
// context so that repository calls inside fn join it transparently.
type TxManager struct {
	db DB
}

// NewTxManager constructs a TxManager over the provided pool.
func NewTxManager(db DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx begins a transaction, runs fn with the transaction bound to the
// context, and commits. Any error from fn rolls the whole transaction back.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rollback tx after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

var _ port.Transactor = (*TxManager)(nil)

// exec resolves the executor for the current context: the bound transaction
// when present, the pool otherwise.
func exec(ctx context.Context, db DB) executor {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// mapWriteError converts driver-level constraint violations into repository
// sentinels.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// applyListQuery layers the shared list parameters onto a select builder.
// searchColumns are OR-ed together with a case-insensitive match.
func applyListQuery(b squirrel.SelectBuilder, q port.ListQuery, orderColumns map[string]string, defaultOrder string, searchColumns ...string) squirrel.SelectBuilder {
	if q.Search != "" && len(searchColumns) > 0 {
		like := squirrel.Or{}
		for _, col := range searchColumns {
			like = append(like, squirrel.ILike{col: "%" + q.Search + "%"})
		}
		b = b.Where(like)
	}

	if q.StatusID != "" {
		b = b.Where(squirrel.Eq{"status_id": q.StatusID})
	}

	if q.StartDate != nil {
		b = b.Where(squirrel.GtOrEq{"created_at": *q.StartDate})
	}
	if q.EndDate != nil {
		b = b.Where(squirrel.LtOrEq{"created_at": *q.EndDate})
	}

	order := defaultOrder
	if q.Order != "" {
		if col, ok := orderColumns[q.Order]; ok {
			order = col
		}
	}
	if order != "" {
		b = b.OrderBy(order)
	}

	return b.Limit(uint64(q.Limit())).Offset(uint64(q.Offset()))
}

// applyListFilter is applyListQuery without paging, for count queries.
func applyListFilter(b squirrel.SelectBuilder, q port.ListQuery, searchColumns ...string) squirrel.SelectBuilder {
	if q.Search != "" && len(searchColumns) > 0 {
		like := squirrel.Or{}
		for _, col := range searchColumns {
			like = append(like, squirrel.ILike{col: "%" + q.Search + "%"})
		}
		b = b.Where(like)
	}

	if q.StatusID != "" {
		b = b.Where(squirrel.Eq{"status_id": q.StatusID})
	}

	if q.StartDate != nil {
		b = b.Where(squirrel.GtOrEq{"created_at": *q.StartDate})
	}
	if q.EndDate != nil {
		b = b.Where(squirrel.LtOrEq{"created_at": *q.EndDate})
	}

	return b
}
