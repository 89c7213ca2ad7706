package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

var (
	// ErrUnknownMenu indicates a referenced menu id is not in the catalog.
	ErrUnknownMenu = errors.New("unknown menu")
	// ErrUnknownAction indicates a referenced specific action is not in the
	// catalog.
	ErrUnknownAction = errors.New("unknown specific action")
)

// GrantInput is one specific-permission assignment in a permission update.
type GrantInput struct {
	ActionName string
	Granted    bool
}

// SetPermissionsInput carries the full permission payload for one
// (role, menu) pair: the four CRUD booleans plus zero or more specific
// grants.
type SetPermissionsInput struct {
	Flags  domain.CRUDFlags
	Grants []GrantInput
}

// RoleMenuPermissions is one menu's resolved permissions as returned to
// clients.
type RoleMenuPermissions struct {
	MenuID string
	domain.PermissionRecord
}

// PermissionService manages role-to-menu assignments and their grants.
//
// Menu assignment and permission updates follow different contracts on
// purpose: AssignMenus replaces the role's whole menu set, while
// SetMenuPermissions only ever adds or overwrites rows for the one menu it
// names.
type PermissionService struct {
	roles       port.RoleRepository
	menus       port.MenuRepository
	permissions port.PermissionRepository
	tx          port.Transactor
	audit       *AuditTrail
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(roles port.RoleRepository, menus port.MenuRepository, permissions port.PermissionRepository, tx port.Transactor, audit *AuditTrail) *PermissionService {
	return &PermissionService{roles: roles, menus: menus, permissions: permissions, tx: tx, audit: audit}
}

// ResolvePermission returns what the role may do on the menu. An unassigned
// menu resolves to the default-deny record, not an error.
func (s *PermissionService) ResolvePermission(ctx context.Context, roleID, menuID string) (domain.PermissionRecord, error) {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PermissionRecord{}, err
		}
		return domain.PermissionRecord{}, fmt.Errorf("get role: %w", err)
	}

	return resolvePermission(ctx, s.permissions, roleID, menuID)
}

// ListRoleMenus returns every menu assigned to the role together with its
// resolved permissions.
func (s *PermissionService) ListRoleMenus(ctx context.Context, roleID string) ([]RoleMenuPermissions, error) {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get role: %w", err)
	}

	roleMenus, err := s.permissions.ListRoleMenus(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role menus: %w", err)
	}

	result := make([]RoleMenuPermissions, 0, len(roleMenus))
	for _, rm := range roleMenus {
		grants, err := s.permissions.ListGrants(ctx, rm.ID)
		if err != nil {
			return nil, fmt.Errorf("list grants for menu %s: %w", rm.MenuID, err)
		}

		record := domain.PermissionRecord{
			CRUDFlags: domain.CRUDFlags{
				View:   rm.CanView,
				Create: rm.CanCreate,
				Update: rm.CanUpdate,
				Delete: rm.CanDelete,
			},
			SpecificGrants: make(map[string]bool, len(grants)),
		}
		for _, grant := range grants {
			record.SpecificGrants[grant.ActionName] = grant.Granted
		}

		result = append(result, RoleMenuPermissions{MenuID: rm.MenuID, PermissionRecord: record})
	}

	return result, nil
}

// AssignMenus replaces the role's menu set with exactly menuIDs. Every new
// row starts default-deny; previous CRUD booleans and specific grants for
// the role are discarded, including for menus that stay assigned.
func (s *PermissionService) AssignMenus(ctx context.Context, actorID, roleID string, menuIDs []string) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("get role: %w", err)
	}

	unique := make([]string, 0, len(menuIDs))
	seen := make(map[string]struct{}, len(menuIDs))
	for _, id := range menuIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) > 0 {
		existing, err := s.menus.ExistingIDs(ctx, unique)
		if err != nil {
			return fmt.Errorf("check menu ids: %w", err)
		}
		if len(existing) != len(unique) {
			known := make(map[string]struct{}, len(existing))
			for _, id := range existing {
				known[id] = struct{}{}
			}
			for _, id := range unique {
				if _, ok := known[id]; !ok {
					return fmt.Errorf("%w: %s", ErrUnknownMenu, id)
				}
			}
		}
	}

	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.permissions.ReplaceMenus(ctx, roleID, unique); err != nil {
			return fmt.Errorf("replace role menus: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditAssignMenus, actorID, roleID, domain.EntityPermission)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}

// SetMenuPermissions writes the CRUD booleans for (roleID, menuID) and
// upserts the provided specific grants. The RoleMenu row is created when
// absent. Grants not named in the input keep their previous value.
func (s *PermissionService) SetMenuPermissions(ctx context.Context, actorID, roleID, menuID string, input SetPermissionsInput) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("get role: %w", err)
	}

	existing, err := s.menus.ExistingIDs(ctx, []string{menuID})
	if err != nil {
		return fmt.Errorf("check menu id: %w", err)
	}
	if len(existing) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownMenu, menuID)
	}

	// Resolve action names before opening the transaction so a bad name
	// fails without any write. CRUD verbs travel in the flags, never in the
	// grant list.
	actionIDs := make([]string, 0, len(input.Grants))
	for _, grant := range input.Grants {
		if domain.IsCRUDVerb(grant.ActionName) {
			return fmt.Errorf("%w: %s", ErrUnknownAction, grant.ActionName)
		}
		action, err := s.permissions.GetActionByName(ctx, grant.ActionName)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownAction, grant.ActionName)
			}
			return fmt.Errorf("get action %q: %w", grant.ActionName, err)
		}
		actionIDs = append(actionIDs, action.ID)
	}

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		roleMenuID, err := s.permissions.UpsertBase(ctx, roleID, menuID, input.Flags)
		if err != nil {
			return fmt.Errorf("upsert role menu: %w", err)
		}

		for i, grant := range input.Grants {
			if err := s.permissions.UpsertGrant(ctx, roleMenuID, actionIDs[i], grant.Granted); err != nil {
				return fmt.Errorf("upsert grant %q: %w", grant.ActionName, err)
			}
		}

		entry, err = s.audit.Record(ctx, domain.AuditSetPermission, actorID, roleID, domain.EntityPermission)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}

// ListActions returns the global specific-action catalog.
func (s *PermissionService) ListActions(ctx context.Context) ([]domain.SpecificAction, error) {
	actions, err := s.permissions.ListActions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	return actions, nil
}
