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

// OrganizationRepository implements tenant persistence.
type OrganizationRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewOrganizationRepository constructs a PostgreSQL-backed organization
// repository.
func NewOrganizationRepository(db DB) *OrganizationRepository {
	return &OrganizationRepository{db: db, builder: newBuilder()}
}

// Create inserts a new organization.
func (r *OrganizationRepository) Create(ctx context.Context, org domain.Organization) error {
	stmt, args, err := r.builder.Insert("backoffice.organizations").
		Columns("id", "name", "description", "status_id", "created_at", "updated_at").
		Values(org.ID, org.Name, org.Description, org.StatusID, org.CreatedAt, org.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert organization sql: %w", err)
	}

	if _, err := exec(ctx, r.db).Exec(ctx, stmt, args...); err != nil {
		return mapWriteError("insert organization", err)
	}

	return nil
}

// GetByID retrieves an organization by ID, excluding soft-deleted rows.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	stmt, args, err := r.builder.Select("id", "name", "description", "status_id", "created_at", "updated_at", "deleted_at").
		From("backoffice.organizations").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select organization sql: %w", err)
	}

	var org domain.Organization
	err = exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(
		&org.ID, &org.Name, &org.Description, &org.StatusID,
		&org.CreatedAt, &org.UpdatedAt, &org.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan organization: %w", err)
	}

	return &org, nil
}

// List retrieves non-deleted organizations with the shared list parameters
// applied.
func (r *OrganizationRepository) List(ctx context.Context, query port.ListQuery) ([]domain.Organization, error) {
	b := r.builder.Select("id", "name", "description", "status_id", "created_at", "updated_at", "deleted_at").
		From("backoffice.organizations").
		Where(squirrel.Eq{"deleted_at": nil})

	b = applyListQuery(b, query, map[string]string{
		"name":       "name ASC",
		"created_at": "created_at DESC",
	}, "created_at DESC", "name", "description")

	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list organizations sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]domain.Organization, 0)
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(
			&org.ID, &org.Name, &org.Description, &org.StatusID,
			&org.CreatedAt, &org.UpdatedAt, &org.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}

	return orgs, nil
}

// Count returns the number of non-deleted organizations matching the filter.
func (r *OrganizationRepository) Count(ctx context.Context, query port.ListQuery) (int, error) {
	b := r.builder.Select("COUNT(*)").
		From("backoffice.organizations").
		Where(squirrel.Eq{"deleted_at": nil})
	b = applyListFilter(b, query, "name", "description")

	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count organizations sql: %w", err)
	}

	var count int
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}

	return count, nil
}

// CountAll returns the number of non-deleted organizations without filters.
func (r *OrganizationRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, port.ListQuery{})
}

// Update modifies an existing organization.
func (r *OrganizationRepository) Update(ctx context.Context, org domain.Organization) error {
	stmt, args, err := r.builder.Update("backoffice.organizations").
		Set("name", org.Name).
		Set("description", org.Description).
		Set("status_id", org.StatusID).
		Set("updated_at", org.UpdatedAt).
		Where(squirrel.Eq{"id": org.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update organization sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return mapWriteError("update organization", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the organization deleted.
func (r *OrganizationRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.Update("backoffice.organizations").
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete organization sql: %w", err)
	}

	res, err := exec(ctx, r.db).Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete organization: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.OrganizationRepository = (*OrganizationRepository)(nil)
