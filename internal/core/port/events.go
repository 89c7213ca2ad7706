package port

import (
	"context"

	"github.com/tablehive/backoffice/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus. Publishing is
// best effort and happens after the owning transaction commits; a publish
// failure never fails the request that produced the event.
type EventPublisher interface {
	PublishAuditRecorded(ctx context.Context, event domain.AuditRecordedEvent) error
}
