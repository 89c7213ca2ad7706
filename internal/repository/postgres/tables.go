package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

var tableSelectColumns = []string{
	"id", "restaurant_id", "label", "seats", "status_id",
	"created_at", "updated_at", "deleted_at",
}

// TableRepository implements dining-table persistence.
type TableRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewTableRepository constructs a PostgreSQL-backed table repository.
func NewTableRepository(db DB) *TableRepository {
	return &TableRepository{db: db, builder: newBuilder()}
}

// Create inserts a new dining table.
func (r *TableRepository) Create(ctx context.Context, table domain.DiningTable) error {
	stmt, args, err := r.builder.Insert("backoffice.dining_tables").
		Columns("id", "restaurant_id", "label", "seats", "status_id", "created_at", "updated_at").
		Values(table.ID, table.RestaurantID, table.Label, table.Seats, table.StatusID, table.CreatedAt, table.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert table sql: %w", err)
	}

	if _, err := exec(ctx, r.db).Exec(ctx, stmt, args...); err != nil {
		return mapWriteError("insert table", err)
	}

	return nil
}

// GetByID retrieves a dining table by ID, excluding soft-deleted rows.
func (r *TableRepository) GetByID(ctx context.Context, id string) (*domain.DiningTable, error) {
	stmt, args, err := r.builder.Select(tableSelectColumns...).
		From("backoffice.dining_tables").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select table sql: %w", err)
	}

	var table domain.DiningTable
	err = exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(
		&table.ID, &table.RestaurantID, &table.Label, &table.Seats, &table.StatusID,
		&table.CreatedAt, &table.UpdatedAt, &table.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan table: %w", err)
	}

	return &table, nil
}

// List retrieves non-deleted dining tables with the shared list parameters
// applied.
func (r *TableRepository) List(ctx context.Context, query port.ListQuery) ([]domain.DiningTable, error) {
	b := r.builder.Select(tableSelectColumns...).
		From("backoffice.dining_tables").
		Where(squirrel.Eq{"deleted_at": nil})

	b = applyListQuery(b, query, map[string]string{
		"label":      "label ASC",
		"created_at": "created_at DESC",
	}, "label ASC", "label")

	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tables sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	tables := make([]domain.DiningTable, 0)
	for rows.Next() {
		var table domain.DiningTable
		if err := rows.Scan(
			&table.ID, &table.RestaurantID, &table.Label, &table.Seats, &table.StatusID,
			&table.CreatedAt, &table.UpdatedAt, &table.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, table)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return tables, nil
}

// Count returns the number of non-deleted dining tables matching the filter.
func (r *TableRepository) Count(ctx context.Context, query port.ListQuery) (int, error) {
	b := r.builder.Select("COUNT(*)").
		From("backoffice.dining_tables").
		Where(squirrel.Eq{"deleted_at": nil})
	b = applyListFilter(b, query, "label")

	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count tables sql: %w", err)
	}

	var count int
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}

	return count, nil
}

// CountAll returns the number of non-deleted dining tables without filters.
func (r *TableRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, port.ListQuery{})
}

// Update modifies an existing dining table.
func (r *TableRepository) Update(ctx context.Context, table domain.DiningTable) error {
	stmt, args, err := r.builder.Update("backoffice.dining_tables").
		Set("label", table.Label).
		Set("seats", table.Seats).
		Set("status_id", table.StatusID).
		Set("updated_at", table.UpdatedAt).
		Where(squirrel.Eq{"id": table.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update table sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return mapWriteError("update table", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the dining table deleted.
func (r *TableRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.dining_tables").
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete table sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete table: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.TableRepository = (*TableRepository)(nil)
