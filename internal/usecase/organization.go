package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// ErrOrganizationExists indicates an organization with the provided name
// already exists.
var ErrOrganizationExists = errors.New("organization already exists")

// OrganizationInput captures the payload for creating or updating an
// organization.
type OrganizationInput struct {
	Name        string
	Description *string
	StatusID    string
}

// OrganizationListResult carries one page of organizations plus the counters
// the list endpoints expose.
type OrganizationListResult struct {
	Organizations   []domain.Organization
	RecordsFiltered int
	RecordsTotal    int
}

// OrganizationService manages tenants.
type OrganizationService struct {
	organizations port.OrganizationRepository
	statuses      port.StatusRepository
	tx            port.Transactor
	audit         *AuditTrail
}

// NewOrganizationService constructs an OrganizationService.
func NewOrganizationService(organizations port.OrganizationRepository, statuses port.StatusRepository, tx port.Transactor, audit *AuditTrail) *OrganizationService {
	return &OrganizationService{organizations: organizations, statuses: statuses, tx: tx, audit: audit}
}

// CreateOrganization provisions a new tenant. An omitted status defaults to
// ACTIVE.
func (s *OrganizationService) CreateOrganization(ctx context.Context, actorID string, input OrganizationInput) (*domain.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrValidation)
	}

	statusID := input.StatusID
	if statusID == "" {
		var err error
		if statusID, err = defaultStatusID(ctx, s.statuses, domain.EntityOrganization); err != nil {
			return nil, err
		}
	} else if err := requireStatus(ctx, s.statuses, domain.EntityOrganization, statusID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        uuid.NewString(),
		Name:      name,
		StatusID:  statusID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != nil {
		if trimmed := strings.TrimSpace(*input.Description); trimmed != "" {
			org.Description = &trimmed
		}
	}

	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.organizations.Create(ctx, org); err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditCreate, actorID, org.ID, domain.EntityOrganization)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrOrganizationExists
		}
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return &org, nil
}

// GetOrganization retrieves an organization by ID.
func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	org, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

// ListOrganizations returns one page of organizations together with filtered
// and total counts.
func (s *OrganizationService) ListOrganizations(ctx context.Context, query port.ListQuery) (OrganizationListResult, error) {
	organizations, err := s.organizations.List(ctx, query)
	if err != nil {
		return OrganizationListResult{}, fmt.Errorf("list organizations: %w", err)
	}

	filtered, err := s.organizations.Count(ctx, query)
	if err != nil {
		return OrganizationListResult{}, fmt.Errorf("count organizations: %w", err)
	}

	total, err := s.organizations.CountAll(ctx)
	if err != nil {
		return OrganizationListResult{}, fmt.Errorf("count all organizations: %w", err)
	}

	return OrganizationListResult{Organizations: organizations, RecordsFiltered: filtered, RecordsTotal: total}, nil
}

// UpdateOrganization applies the full input to an existing organization.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, actorID, id string, input OrganizationInput) (*domain.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrValidation)
	}

	org, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}

	if input.StatusID != "" {
		if err := requireStatus(ctx, s.statuses, domain.EntityOrganization, input.StatusID); err != nil {
			return nil, err
		}
		org.StatusID = input.StatusID
	}

	org.Name = name
	org.Description = nil
	if input.Description != nil {
		if trimmed := strings.TrimSpace(*input.Description); trimmed != "" {
			org.Description = &trimmed
		}
	}
	org.UpdatedAt = time.Now().UTC()

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.organizations.Update(ctx, *org); err != nil {
			return fmt.Errorf("update organization: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditUpdate, actorID, org.ID, domain.EntityOrganization)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrOrganizationExists
		}
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return org, nil
}

// DeleteOrganization soft-deletes an organization. Its restaurants and users
// are left untouched; reads of the organization itself exclude it from then
// on.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, actorID, id string) error {
	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.organizations.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete organization: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditDelete, actorID, id, domain.EntityOrganization)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}
