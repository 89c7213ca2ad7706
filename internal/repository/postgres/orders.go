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

var orderSelectColumns = []string{
	"id", "restaurant_id", "table_id", "total_cents", "status_id",
	"created_at", "updated_at",
}

// OrderRepository reads orders and advances their status.
type OrderRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewOrderRepository constructs a PostgreSQL-backed order repository.
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db, builder: newBuilder()}
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	stmt, args, err := r.builder.Select(orderSelectColumns...).
		From("backoffice.orders").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select order sql: %w", err)
	}

	var order domain.Order
	err = exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(
		&order.ID, &order.RestaurantID, &order.TableID, &order.TotalCents,
		&order.StatusID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	return &order, nil
}

// List retrieves orders with the shared list parameters applied.
func (r *OrderRepository) List(ctx context.Context, query port.ListQuery) ([]domain.Order, error) {
	b := r.builder.Select(orderSelectColumns...).
		From("backoffice.orders")

	b = applyListQuery(b, query, map[string]string{
		"total":      "total_cents DESC",
		"created_at": "created_at DESC",
	}, "created_at DESC")

	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list orders sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.RestaurantID, &order.TableID, &order.TotalCents,
			&order.StatusID, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

// Count returns the number of orders matching the filter.
func (r *OrderRepository) Count(ctx context.Context, query port.ListQuery) (int, error) {
	b := applyListFilter(r.builder.Select("COUNT(*)").From("backoffice.orders"), query)

	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count orders sql: %w", err)
	}

	var count int
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return count, nil
}

// CountAll returns the total number of orders.
func (r *OrderRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, port.ListQuery{})
}

// UpdateStatus advances the order's status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, statusID string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.orders").
		Set("status_id", statusID).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update order status sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.OrderRepository = (*OrderRepository)(nil)
