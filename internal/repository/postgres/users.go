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

var userSelectColumns = []string{
	"id", "username", "email", "password_hash", "role_id",
	"organization_id", "restaurant_id", "status_id",
	"created_at", "updated_at", "deleted_at",
}

// UserRepository implements back-office user persistence.
type UserRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db, builder: newBuilder()}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Insert("backoffice.users").
		Columns("id", "username", "email", "password_hash", "role_id", "organization_id", "restaurant_id", "status_id", "created_at", "updated_at").
		Values(user.ID, user.Username, user.Email, user.PasswordHash, user.RoleID, user.OrganizationID, user.RestaurantID, user.StatusID, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := exec(ctx, r.db).Exec(ctx, stmt, args...); err != nil {
		return mapWriteError("insert user", err)
	}

	return nil
}

// GetByID retrieves a user by ID, excluding soft-deleted rows.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id, "deleted_at": nil}, "scan user by id")
}

// GetByUsername retrieves a user by username, excluding soft-deleted rows.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username, "deleted_at": nil}, "scan user by username")
}

func (r *UserRepository) getBy(ctx context.Context, where squirrel.Eq, op string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userSelectColumns...).
		From("backoffice.users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	var user domain.User
	err = exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.RoleID,
		&user.OrganizationID, &user.RestaurantID, &user.StatusID,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

// List retrieves non-deleted users with the shared list parameters applied.
func (r *UserRepository) List(ctx context.Context, query port.ListQuery) ([]domain.User, error) {
	b := r.builder.Select(userSelectColumns...).
		From("backoffice.users").
		Where(squirrel.Eq{"deleted_at": nil})

	b = applyListQuery(b, query, map[string]string{
		"username":   "username ASC",
		"created_at": "created_at DESC",
	}, "username ASC", "username", "email")

	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.RoleID,
			&user.OrganizationID, &user.RestaurantID, &user.StatusID,
			&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Count returns the number of non-deleted users matching the filter.
func (r *UserRepository) Count(ctx context.Context, query port.ListQuery) (int, error) {
	b := r.builder.Select("COUNT(*)").
		From("backoffice.users").
		Where(squirrel.Eq{"deleted_at": nil})
	b = applyListFilter(b, query, "username", "email")

	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count users sql: %w", err)
	}

	var count int
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

// CountAll returns the number of non-deleted users without filters.
func (r *UserRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, port.ListQuery{})
}

// Update modifies an existing user's profile fields.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Update("backoffice.users").
		Set("username", user.Username).
		Set("email", user.Email).
		Set("role_id", user.RoleID).
		Set("organization_id", user.OrganizationID).
		Set("restaurant_id", user.RestaurantID).
		Set("status_id", user.StatusID).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return mapWriteError("update user", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePasswordHash replaces a user's password hash.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.users").
		Set("password_hash", hash).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the user deleted.
func (r *UserRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.users").
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete user sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
