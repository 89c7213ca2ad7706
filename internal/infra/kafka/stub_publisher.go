package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

// PublishAuditRecorded logs backoffice.audit.recorded events.
func (p *StubPublisher) PublishAuditRecorded(_ context.Context, event domain.AuditRecordedEvent) error {
	p.logger.Info("stub event published",
		zap.String("event_type", EventTypeAuditRecorded),
		zap.String("action", event.Action),
		zap.String("user_id", event.UserID),
		zap.String("entity_id", event.EntityID),
		zap.String("entity_type", event.EntityType),
		zap.Time("recorded_at", event.RecordedAt),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
