package port

import (
	"context"

	"github.com/tablehive/backoffice/internal/core/domain"
)

// SpecificGrant pairs a specific-action name with its granted flag for one
// RoleMenu row.
type SpecificGrant struct {
	ActionName string
	Granted    bool
}

// PermissionRepository manages RoleMenu rows and their specific-permission
// grants.
type PermissionRepository interface {
	// GetRoleMenu returns the row for (roleID, menuID), or
	// repository.ErrNotFound when no row exists.
	GetRoleMenu(ctx context.Context, roleID, menuID string) (*domain.RoleMenu, error)
	ListRoleMenus(ctx context.Context, roleID string) ([]domain.RoleMenu, error)
	// ListGrants returns the specific-permission grants attached to a
	// RoleMenu row.
	ListGrants(ctx context.Context, roleMenuID string) ([]SpecificGrant, error)
	// UpsertBase writes the four CRUD booleans for (roleID, menuID),
	// inserting the row when absent. Returns the row id.
	UpsertBase(ctx context.Context, roleID, menuID string, flags domain.CRUDFlags) (string, error)
	// UpsertGrant writes one specific-permission grant, inserting or
	// updating as needed.
	UpsertGrant(ctx context.Context, roleMenuID, actionID string, granted bool) error
	// ReplaceMenus removes every RoleMenu row for the role and inserts
	// default-deny rows for exactly menuIDs. Must run inside a transaction.
	ReplaceMenus(ctx context.Context, roleID string, menuIDs []string) error
	// GetActionByName resolves a specific action from the global catalog.
	GetActionByName(ctx context.Context, name string) (*domain.SpecificAction, error)
	ListActions(ctx context.Context) ([]domain.SpecificAction, error)
}
