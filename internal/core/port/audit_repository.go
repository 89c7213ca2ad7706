package port

import (
	"context"

	"github.com/tablehive/backoffice/internal/core/domain"
)

// AuditLogRepository appends and reads audit rows. There are no update or
// delete operations; the log is append-only.
type AuditLogRepository interface {
	Insert(ctx context.Context, entry domain.AuditLog) error
	List(ctx context.Context, query ListQuery) ([]domain.AuditLog, error)
	Count(ctx context.Context, query ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
}
