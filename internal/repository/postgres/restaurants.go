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

var restaurantSelectColumns = []string{
	"id", "organization_id", "name", "address", "phone", "status_id",
	"created_at", "updated_at", "deleted_at",
}

// RestaurantRepository implements restaurant persistence.
type RestaurantRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewRestaurantRepository constructs a PostgreSQL-backed restaurant
// repository.
func NewRestaurantRepository(db DB) *RestaurantRepository {
	return &RestaurantRepository{db: db, builder: newBuilder()}
}

// Create inserts a new restaurant.
func (r *RestaurantRepository) Create(ctx context.Context, restaurant domain.Restaurant) error {
	stmt, args, err := r.builder.Insert("backoffice.restaurants").
		Columns("id", "organization_id", "name", "address", "phone", "status_id", "created_at", "updated_at").
		Values(restaurant.ID, restaurant.OrganizationID, restaurant.Name, restaurant.Address, restaurant.Phone, restaurant.StatusID, restaurant.CreatedAt, restaurant.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert restaurant sql: %w", err)
	}

	if _, err := exec(ctx, r.db).Exec(ctx, stmt, args...); err != nil {
		return mapWriteError("insert restaurant", err)
	}

	return nil
}

// GetByID retrieves a restaurant by ID, excluding soft-deleted rows.
func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	stmt, args, err := r.builder.Select(restaurantSelectColumns...).
		From("backoffice.restaurants").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select restaurant sql: %w", err)
	}

	var restaurant domain.Restaurant
	err = exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(
		&restaurant.ID, &restaurant.OrganizationID, &restaurant.Name,
		&restaurant.Address, &restaurant.Phone, &restaurant.StatusID,
		&restaurant.CreatedAt, &restaurant.UpdatedAt, &restaurant.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan restaurant: %w", err)
	}

	return &restaurant, nil
}

// List retrieves non-deleted restaurants with the shared list parameters
// applied.
func (r *RestaurantRepository) List(ctx context.Context, query port.ListQuery) ([]domain.Restaurant, error) {
	b := r.builder.Select(restaurantSelectColumns...).
		From("backoffice.restaurants").
		Where(squirrel.Eq{"deleted_at": nil})

	b = applyListQuery(b, query, map[string]string{
		"name":       "name ASC",
		"created_at": "created_at DESC",
	}, "created_at DESC", "name", "address")

	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list restaurants sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := make([]domain.Restaurant, 0)
	for rows.Next() {
		var restaurant domain.Restaurant
		if err := rows.Scan(
			&restaurant.ID, &restaurant.OrganizationID, &restaurant.Name,
			&restaurant.Address, &restaurant.Phone, &restaurant.StatusID,
			&restaurant.CreatedAt, &restaurant.UpdatedAt, &restaurant.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, restaurant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}

	return restaurants, nil
}

// Count returns the number of non-deleted restaurants matching the filter.
func (r *RestaurantRepository) Count(ctx context.Context, query port.ListQuery) (int, error) {
	b := r.builder.Select("COUNT(*)").
		From("backoffice.restaurants").
		Where(squirrel.Eq{"deleted_at": nil})
	b = applyListFilter(b, query, "name", "address")

	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count restaurants sql: %w", err)
	}

	var count int
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}

	return count, nil
}

// CountAll returns the number of non-deleted restaurants without filters.
func (r *RestaurantRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, port.ListQuery{})
}

// Update modifies an existing restaurant.
func (r *RestaurantRepository) Update(ctx context.Context, restaurant domain.Restaurant) error {
	stmt, args, err := r.builder.Update("backoffice.restaurants").
		Set("name", restaurant.Name).
		Set("address", restaurant.Address).
		Set("phone", restaurant.Phone).
		Set("status_id", restaurant.StatusID).
		Set("updated_at", restaurant.UpdatedAt).
		Where(squirrel.Eq{"id": restaurant.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update restaurant sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return mapWriteError("update restaurant", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the restaurant deleted.
func (r *RestaurantRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.restaurants").
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete restaurant sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete restaurant: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.RestaurantRepository = (*RestaurantRepository)(nil)
