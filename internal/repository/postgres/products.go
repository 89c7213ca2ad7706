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

var productSelectColumns = []string{
	"id", "restaurant_id", "name", "description", "price_cents", "status_id",
	"created_at", "updated_at", "deleted_at",
}

// ProductRepository implements product persistence.
type ProductRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewProductRepository constructs a PostgreSQL-backed product repository.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db, builder: newBuilder()}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product domain.Product) error {
	stmt, args, err := r.builder.Insert("backoffice.products").
		Columns("id", "restaurant_id", "name", "description", "price_cents", "status_id", "created_at", "updated_at").
		Values(product.ID, product.RestaurantID, product.Name, product.Description, product.PriceCents, product.StatusID, product.CreatedAt, product.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert product sql: %w", err)
	}

	if _, err := exec(ctx, r.db).Exec(ctx, stmt, args...); err != nil {
		return mapWriteError("insert product", err)
	}

	return nil
}

// GetByID retrieves a product by ID, excluding soft-deleted rows.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	stmt, args, err := r.builder.Select(productSelectColumns...).
		From("backoffice.products").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select product sql: %w", err)
	}

	var product domain.Product
	err = exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(
		&product.ID, &product.RestaurantID, &product.Name, &product.Description,
		&product.PriceCents, &product.StatusID,
		&product.CreatedAt, &product.UpdatedAt, &product.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &product, nil
}

// List retrieves non-deleted products with the shared list parameters
// applied.
func (r *ProductRepository) List(ctx context.Context, query port.ListQuery) ([]domain.Product, error) {
	b := r.builder.Select(productSelectColumns...).
		From("backoffice.products").
		Where(squirrel.Eq{"deleted_at": nil})

	b = applyListQuery(b, query, map[string]string{
		"name":       "name ASC",
		"price":      "price_cents ASC",
		"created_at": "created_at DESC",
	}, "created_at DESC", "name", "description")

	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.RestaurantID, &product.Name, &product.Description,
			&product.PriceCents, &product.StatusID,
			&product.CreatedAt, &product.UpdatedAt, &product.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// Count returns the number of non-deleted products matching the filter.
func (r *ProductRepository) Count(ctx context.Context, query port.ListQuery) (int, error) {
	b := r.builder.Select("COUNT(*)").
		From("backoffice.products").
		Where(squirrel.Eq{"deleted_at": nil})
	b = applyListFilter(b, query, "name", "description")

	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count products sql: %w", err)
	}

	var count int
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

// CountAll returns the number of non-deleted products without filters.
func (r *ProductRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, port.ListQuery{})
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	stmt, args, err := r.builder.Update("backoffice.products").
		Set("name", product.Name).
		Set("description", product.Description).
		Set("price_cents", product.PriceCents).
		Set("status_id", product.StatusID).
		Set("updated_at", product.UpdatedAt).
		Where(squirrel.Eq{"id": product.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return mapWriteError("update product", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateStatus advances only the product's status.
func (r *ProductRepository) UpdateStatus(ctx context.Context, id, statusID string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.products").
		Set("status_id", statusID).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product status sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the product deleted.
func (r *ProductRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.products").
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete product sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ProductRepository = (*ProductRepository)(nil)
