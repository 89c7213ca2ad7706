package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// ErrUnknownStatus indicates a referenced status does not exist or belongs to
// a different entity type.
var ErrUnknownStatus = errors.New("unknown status")

// StatusService reads the per-entity-type status vocabulary.
type StatusService struct {
	statuses port.StatusRepository
}

// NewStatusService constructs a StatusService.
func NewStatusService(statuses port.StatusRepository) *StatusService {
	return &StatusService{statuses: statuses}
}

// ListByEntityType returns the status vocabulary for one entity type.
func (s *StatusService) ListByEntityType(ctx context.Context, entityType string) ([]domain.Status, error) {
	statuses, err := s.statuses.ListByEntityType(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return statuses, nil
}

// requireStatus verifies statusID exists and is scoped to entityType.
func requireStatus(ctx context.Context, statuses port.StatusRepository, entityType, statusID string) error {
	status, err := statuses.GetByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownStatus, statusID)
		}
		return fmt.Errorf("get status: %w", err)
	}
	if status.EntityType != entityType {
		return fmt.Errorf("%w: %s is a %s status", ErrUnknownStatus, statusID, status.EntityType)
	}
	return nil
}

// defaultStatusID resolves the seeded ACTIVE status for entityType, used when
// a create payload omits the status.
func defaultStatusID(ctx context.Context, statuses port.StatusRepository, entityType string) (string, error) {
	status, err := statuses.GetByCode(ctx, entityType, domain.StatusActive)
	if err != nil {
		return "", fmt.Errorf("resolve default status: %w", err)
	}
	return status.ID, nil
}
