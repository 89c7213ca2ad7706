package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// StatusRepository reads the seeded per-entity-type status vocabulary.
type StatusRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewStatusRepository constructs a PostgreSQL-backed status repository.
func NewStatusRepository(db DB) *StatusRepository {
	return &StatusRepository{db: db, builder: newBuilder()}
}

// GetByID retrieves a status row by ID.
func (r *StatusRepository) GetByID(ctx context.Context, id string) (*domain.Status, error) {
	stmt, args, err := r.builder.Select("id", "entity_type", "code").
		From("backoffice.statuses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select status sql: %w", err)
	}

	return scanStatus(exec(ctx, r.db).QueryRow(ctx, stmt, args...))
}

// GetByCode retrieves a status by its (entity type, code) pair.
func (r *StatusRepository) GetByCode(ctx context.Context, entityType, code string) (*domain.Status, error) {
	stmt, args, err := r.builder.Select("id", "entity_type", "code").
		From("backoffice.statuses").
		Where(squirrel.Eq{"entity_type": entityType, "code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select status by code sql: %w", err)
	}

	return scanStatus(exec(ctx, r.db).QueryRow(ctx, stmt, args...))
}

func scanStatus(row pgx.Row) (*domain.Status, error) {
	var status domain.Status
	if err := row.Scan(&status.ID, &status.EntityType, &status.Code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan status: %w", err)
	}
	return &status, nil
}

// ListByEntityType returns the status vocabulary for one entity type.
func (r *StatusRepository) ListByEntityType(ctx context.Context, entityType string) ([]domain.Status, error) {
	stmt, args, err := r.builder.Select("id", "entity_type", "code").
		From("backoffice.statuses").
		Where(squirrel.Eq{"entity_type": entityType}).
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list statuses sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query statuses: %w", err)
	}
	defer rows.Close()

	statuses := make([]domain.Status, 0)
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.EntityType, &status.Code); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statuses: %w", err)
	}

	return statuses, nil
}

var _ port.StatusRepository = (*StatusRepository)(nil)
