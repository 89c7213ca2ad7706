package usecase

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
)

// AuditTrail writes audit rows and announces them to the message bus. Record
// participates in the caller's transaction; Announce runs after commit and
// never fails the request.
type AuditTrail struct {
	logs   port.AuditLogRepository
	events port.EventPublisher
	logger *zap.Logger
}

// NewAuditTrail constructs an AuditTrail. The event publisher may be nil, in
// which case Announce is a no-op.
func NewAuditTrail(logs port.AuditLogRepository, events port.EventPublisher, logger *zap.Logger) *AuditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditTrail{logs: logs, events: events, logger: logger}
}

// Record appends one audit row describing a mutation. Callers invoke it
// inside the transaction that performs the mutation so the row commits or
// rolls back together with it.
func (a *AuditTrail) Record(ctx context.Context, action, actorID, entityID, entityType string) (domain.AuditLog, error) {
	entry := domain.AuditLog{
		ID:         uuid.NewString(),
		Action:     action,
		UserID:     actorID,
		EntityID:   entityID,
		EntityType: entityType,
		CreatedAt:  time.Now().UTC(),
	}

	if err := a.logs.Insert(ctx, entry); err != nil {
		return domain.AuditLog{}, fmt.Errorf("record audit entry: %w", err)
	}

	return entry, nil
}

// Announce publishes the committed audit row to the message bus. Failures are
// logged and swallowed.
func (a *AuditTrail) Announce(ctx context.Context, entry domain.AuditLog) {
	if a.events == nil {
		return
	}

	event := domain.AuditRecordedEvent{
		EventID:    uuid.NewString(),
		Action:     entry.Action,
		UserID:     entry.UserID,
		EntityID:   entry.EntityID,
		EntityType: entry.EntityType,
		RecordedAt: entry.CreatedAt,
	}

	if err := a.events.PublishAuditRecorded(ctx, event); err != nil {
		a.logger.Warn("publish audit event",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
	}
}

// AuditLogListResult carries one page of audit rows plus the counters the
// list endpoints expose.
type AuditLogListResult struct {
	Entries         []domain.AuditLog
	RecordsFiltered int
	RecordsTotal    int
}

// AuditLogService reads the audit log.
type AuditLogService struct {
	logs port.AuditLogRepository
}

// NewAuditLogService constructs an AuditLogService.
func NewAuditLogService(logs port.AuditLogRepository) *AuditLogService {
	return &AuditLogService{logs: logs}
}

// List returns one page of audit rows together with filtered and total
// counts. Audit rows carry no status, so the status filter is ignored.
func (s *AuditLogService) List(ctx context.Context, query port.ListQuery) (AuditLogListResult, error) {
	query.StatusID = ""

	entries, err := s.logs.List(ctx, query)
	if err != nil {
		return AuditLogListResult{}, fmt.Errorf("list audit logs: %w", err)
	}

	filtered, err := s.logs.Count(ctx, query)
	if err != nil {
		return AuditLogListResult{}, fmt.Errorf("count audit logs: %w", err)
	}

	total, err := s.logs.CountAll(ctx)
	if err != nil {
		return AuditLogListResult{}, fmt.Errorf("count all audit logs: %w", err)
	}

	return AuditLogListResult{Entries: entries, RecordsFiltered: filtered, RecordsTotal: total}, nil
}
