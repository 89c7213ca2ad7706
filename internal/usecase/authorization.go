package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// Authorizer answers "may this user perform this action on this menu". Every
// path that does not end in an explicit grant denies: no role, a soft-deleted
// role, no RoleMenu row, an unset boolean, and an unknown action all answer
// false.
type Authorizer struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
}

// NewAuthorizer constructs an Authorizer.
func NewAuthorizer(roles port.RoleRepository, permissions port.PermissionRepository) *Authorizer {
	return &Authorizer{roles: roles, permissions: permissions}
}

// HasPermission resolves the user's role permissions for menuID and reports
// whether action is granted. Action is either one of the four CRUD verbs or a
// specific-action name.
func (a *Authorizer) HasPermission(ctx context.Context, user *domain.User, menuID, action string) (bool, error) {
	if user == nil || user.RoleID == nil {
		return false, nil
	}

	// RoleMenu rows outlive a soft-deleted role, so role liveness is
	// checked first.
	if _, err := a.roles.GetByID(ctx, *user.RoleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load role: %w", err)
	}

	record, err := resolvePermission(ctx, a.permissions, *user.RoleID, menuID)
	if err != nil {
		return false, err
	}

	return record.Allows(action), nil
}

// Require is HasPermission as a gate: it returns ErrPermissionDenied when
// the action is not granted.
func (a *Authorizer) Require(ctx context.Context, user *domain.User, menuID, action string) error {
	allowed, err := a.HasPermission(ctx, user, menuID, action)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: %s on %s", ErrPermissionDenied, action, menuID)
	}
	return nil
}

// resolvePermission loads the RoleMenu row for (roleID, menuID) and its
// specific grants. An absent row yields the zero, default-deny record.
func resolvePermission(ctx context.Context, permissions port.PermissionRepository, roleID, menuID string) (domain.PermissionRecord, error) {
	roleMenu, err := permissions.GetRoleMenu(ctx, roleID, menuID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PermissionRecord{}, nil
		}
		return domain.PermissionRecord{}, fmt.Errorf("load role menu: %w", err)
	}

	grants, err := permissions.ListGrants(ctx, roleMenu.ID)
	if err != nil {
		return domain.PermissionRecord{}, fmt.Errorf("load specific grants: %w", err)
	}

	record := domain.PermissionRecord{
		CRUDFlags: domain.CRUDFlags{
			View:   roleMenu.CanView,
			Create: roleMenu.CanCreate,
			Update: roleMenu.CanUpdate,
			Delete: roleMenu.CanDelete,
		},
		SpecificGrants: make(map[string]bool, len(grants)),
	}
	for _, grant := range grants {
		record.SpecificGrants[grant.ActionName] = grant.Granted
	}

	return record, nil
}
