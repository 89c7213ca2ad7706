package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
)

// AuditLogRepository appends and reads audit rows.
type AuditLogRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewAuditLogRepository constructs a PostgreSQL-backed audit log repository.
func NewAuditLogRepository(db DB) *AuditLogRepository {
	return &AuditLogRepository{db: db, builder: newBuilder()}
}

// Insert appends one audit row. Callers invoke this through the transaction
// that performs the mutation being described.
func (r *AuditLogRepository) Insert(ctx context.Context, entry domain.AuditLog) error {
	stmt, args, err := r.builder.Insert("backoffice.audit_logs").
		Columns("id", "action", "user_id", "entity_id", "entity_type", "created_at").
		Values(entry.ID, entry.Action, entry.UserID, entry.EntityID, entry.EntityType, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit log sql: %w", err)
	}

	if _, err := exec(ctx, r.db).Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}

	return nil
}

// List retrieves audit rows, newest first. Search matches entity type and
// action.
func (r *AuditLogRepository) List(ctx context.Context, query port.ListQuery) ([]domain.AuditLog, error) {
	b := r.builder.Select("id", "action", "user_id", "entity_id", "entity_type", "created_at").
		From("backoffice.audit_logs")

	b = applyListQuery(b, query, map[string]string{
		"created_at": "created_at DESC",
	}, "created_at DESC", "entity_type", "action")

	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit logs sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditLog, 0)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.UserID, &entry.EntityID, &entry.EntityType, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit logs: %w", err)
	}

	return entries, nil
}

// Count returns the number of audit rows matching the filter.
func (r *AuditLogRepository) Count(ctx context.Context, query port.ListQuery) (int, error) {
	b := applyListFilter(r.builder.Select("COUNT(*)").From("backoffice.audit_logs"), query, "entity_type", "action")

	stmt, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count audit logs sql: %w", err)
	}

	var count int
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit logs: %w", err)
	}

	return count, nil
}

// CountAll returns the total number of audit rows.
func (r *AuditLogRepository) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, port.ListQuery{})
}

var _ port.AuditLogRepository = (*AuditLogRepository)(nil)
