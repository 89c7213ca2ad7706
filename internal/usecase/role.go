package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	uuid "github.com/google/uuid"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

var (
	// ErrRoleExists indicates a role with the provided name already exists.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleNameForbidden indicates the role name collides with a reserved
	// name after normalization.
	ErrRoleNameForbidden = errors.New("role name is reserved")
)

// forbiddenRoleNames are rejected after lowercasing and stripping every
// non-alphanumeric rune, so "Admin", "ad-min", and "A D M I N" all collide.
var forbiddenRoleNames = map[string]struct{}{
	"admin":      {},
	"superadmin": {},
	"root":       {},
}

func normalizeRoleName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CreateRoleInput captures the payload for creating a role.
type CreateRoleInput struct {
	Name           string
	Description    *string
	OrganizationID *string
}

// UpdateRoleInput captures the payload for updating a role.
type UpdateRoleInput struct {
	Name        string
	Description *string
}

// RoleListResult carries one page of roles plus the counters the list
// endpoints expose.
type RoleListResult struct {
	Roles           []domain.Role
	RecordsFiltered int
	RecordsTotal    int
}

// RoleService manages roles.
type RoleService struct {
	roles port.RoleRepository
	tx    port.Transactor
	audit *AuditTrail
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles port.RoleRepository, tx port.Transactor, audit *AuditTrail) *RoleService {
	return &RoleService{roles: roles, tx: tx, audit: audit}
}

// CreateRole provisions a new role after validating its name.
func (s *RoleService) CreateRole(ctx context.Context, actorID string, input CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrValidation)
	}
	if _, forbidden := forbiddenRoleNames[normalizeRoleName(name)]; forbidden {
		return nil, ErrRoleNameForbidden
	}

	if existing, err := s.roles.GetByName(ctx, name); err == nil && existing != nil {
		return nil, ErrRoleExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup role by name: %w", err)
	}

	now := time.Now().UTC()
	role := domain.Role{
		ID:             uuid.NewString(),
		Name:           name,
		OrganizationID: input.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.Description != nil {
		if trimmed := strings.TrimSpace(*input.Description); trimmed != "" {
			role.Description = &trimmed
		}
	}

	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.roles.Create(ctx, role); err != nil {
			return fmt.Errorf("create role: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditCreate, actorID, role.ID, domain.EntityRole)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRoleExists
		}
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return &role, nil
}

// GetRole retrieves a role by ID.
func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

// ListRoles returns one page of roles together with filtered and total
// counts.
func (s *RoleService) ListRoles(ctx context.Context, query port.ListQuery) (RoleListResult, error) {
	roles, err := s.roles.List(ctx, query)
	if err != nil {
		return RoleListResult{}, fmt.Errorf("list roles: %w", err)
	}

	filtered, err := s.roles.Count(ctx, query)
	if err != nil {
		return RoleListResult{}, fmt.Errorf("count roles: %w", err)
	}

	total, err := s.roles.CountAll(ctx)
	if err != nil {
		return RoleListResult{}, fmt.Errorf("count all roles: %w", err)
	}

	return RoleListResult{Roles: roles, RecordsFiltered: filtered, RecordsTotal: total}, nil
}

// UpdateRole renames a role or changes its description. The same name rules
// as creation apply.
func (s *RoleService) UpdateRole(ctx context.Context, actorID, roleID string, input UpdateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrValidation)
	}
	if _, forbidden := forbiddenRoleNames[normalizeRoleName(name)]; forbidden {
		return nil, ErrRoleNameForbidden
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	if existing, err := s.roles.GetByName(ctx, name); err == nil && existing != nil && existing.ID != role.ID {
		return nil, ErrRoleExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup role by name: %w", err)
	}

	role.Name = name
	role.Description = nil
	if input.Description != nil {
		if trimmed := strings.TrimSpace(*input.Description); trimmed != "" {
			role.Description = &trimmed
		}
	}
	role.UpdatedAt = time.Now().UTC()

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.roles.Update(ctx, *role); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditUpdate, actorID, role.ID, domain.EntityRole)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRoleExists
		}
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return role, nil
}

// DeleteRole soft-deletes a role. Its RoleMenu rows stay in place but stop
// mattering: the authorizer denies for any role it cannot load.
func (s *RoleService) DeleteRole(ctx context.Context, actorID, roleID string) error {
	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.roles.SoftDelete(ctx, roleID, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete role: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditDelete, actorID, roleID, domain.EntityRole)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}
