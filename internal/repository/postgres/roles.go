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

// RoleRepository implements role persistence operations.
type RoleRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a PostgreSQL-backed role repository.
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db, builder: newBuilder()}
}

// Create inserts a new role.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Insert("backoffice.roles").
		Columns("id", "name", "description", "organization_id", "created_at", "updated_at").
		Values(role.ID, role.Name, role.Description, role.OrganizationID, role.CreatedAt, role.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := exec(ctx, r.db).Exec(ctx, stmt, args...); err != nil {
		return mapWriteError("insert role", err)
	}

	return nil
}

// GetByID retrieves a role by ID, excluding soft-deleted rows.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "name", "description", "organization_id", "created_at", "updated_at", "deleted_at").
		From("backoffice.roles").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by id sql: %w", err)
	}

	return r.scanOne(exec(ctx, r.db).QueryRow(ctx, stmt, args...), "scan role by id")
}

// GetByName retrieves a role by name, excluding soft-deleted rows.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "name", "description", "organization_id", "created_at", "updated_at", "deleted_at").
		From("backoffice.roles").
		Where(squirrel.Eq{"name": name, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by name sql: %w", err)
	}

	return r.scanOne(exec(ctx, r.db).QueryRow(ctx, stmt, args...), "scan role by name")
}

func (r *RoleRepository) scanOne(row pgx.Row, op string) (*domain.Role, error) {
	var role domain.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.OrganizationID, &role.CreatedAt, &role.UpdatedAt, &role.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &role, nil
}

// List retrieves non-deleted roles with the shared list parameters applied.
func (r *RoleRepository) List(ctx context.Context, query port.ListQuery) ([]domain.Role, error) {
	b := r.builder.Select("id", "name", "description", "organization_id", "created_at", "updated_at", "deleted_at").
		From("backoffice.roles").
		Where(squirrel.Eq{"deleted_at": nil})

	b = applyListQuery(b, query, map[string]string{
		"name":       "name ASC",
		"created_at": "created_at DESC",
	}, "name ASC", "name", "description")

	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.OrganizationID, &role.CreatedAt, &role.UpdatedAt, &role.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// Count returns the number of non-deleted roles matching the filter.
func (r *RoleRepository) Count(ctx context.Context, query port.ListQuery) (int, error) {
	b := r.builder.Select("COUNT(*)").
		From("backoffice.roles").
		Where(squirrel.Eq{"deleted_at": nil})
	b = applyListFilter(b, query, "name", "description")

	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count roles sql: %w", err)
	}

	var count int
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}

	return count, nil
}

// CountAll returns the number of non-deleted roles without filters.
func (r *RoleRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, port.ListQuery{})
}

// Update modifies an existing role.
func (r *RoleRepository) Update(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Update("backoffice.roles").
		Set("name", role.Name).
		Set("description", role.Description).
		Set("organization_id", role.OrganizationID).
		Set("updated_at", role.UpdatedAt).
		Where(squirrel.Eq{"id": role.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return mapWriteError("update role", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the role deleted. RoleMenu rows are kept; the role simply
// stops resolving for reads and permission checks.
func (r *RoleRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.roles").
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete role sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete role: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
