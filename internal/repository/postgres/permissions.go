package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// PermissionRepository manages RoleMenu rows and their specific-permission
// grants.
type PermissionRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a PostgreSQL-backed permission
// repository.
func NewPermissionRepository(db DB) *PermissionRepository {
	return &PermissionRepository{db: db, builder: newBuilder()}
}

// GetRoleMenu returns the row for (roleID, menuID).
func (r *PermissionRepository) GetRoleMenu(ctx context.Context, roleID, menuID string) (*domain.RoleMenu, error) {
	stmt, args, err := r.builder.Select("id", "role_id", "menu_id", "can_view", "can_create", "can_update", "can_delete").
		From("backoffice.role_menus").
		Where(squirrel.Eq{"role_id": roleID, "menu_id": menuID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role menu sql: %w", err)
	}

	return scanRoleMenu(exec(ctx, r.db).QueryRow(ctx, stmt, args...), "scan role menu")
}

func scanRoleMenu(row pgx.Row, op string) (*domain.RoleMenu, error) {
	var rm domain.RoleMenu
	if err := row.Scan(&rm.ID, &rm.RoleID, &rm.MenuID, &rm.CanView, &rm.CanCreate, &rm.CanUpdate, &rm.CanDelete); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rm, nil
}

// ListRoleMenus returns every RoleMenu row for the role ordered by menu id.
func (r *PermissionRepository) ListRoleMenus(ctx context.Context, roleID string) ([]domain.RoleMenu, error) {
	stmt, args, err := r.builder.Select("id", "role_id", "menu_id", "can_view", "can_create", "can_update", "can_delete").
		From("backoffice.role_menus").
		Where(squirrel.Eq{"role_id": roleID}).
		OrderBy("menu_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list role menus sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query role menus: %w", err)
	}
	defer rows.Close()

	roleMenus := make([]domain.RoleMenu, 0)
	for rows.Next() {
		var rm domain.RoleMenu
		if err := rows.Scan(&rm.ID, &rm.RoleID, &rm.MenuID, &rm.CanView, &rm.CanCreate, &rm.CanUpdate, &rm.CanDelete); err != nil {
			return nil, fmt.Errorf("scan role menu: %w", err)
		}
		roleMenus = append(roleMenus, rm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role menus: %w", err)
	}

	return roleMenus, nil
}

// ListGrants returns the specific-permission grants attached to a RoleMenu
// row, joined with their action names.
func (r *PermissionRepository) ListGrants(ctx context.Context, roleMenuID string) ([]port.SpecificGrant, error) {
	stmt, args, err := r.builder.Select("a.name", "g.granted").
		From("backoffice.role_specific_permissions g").
		Join("backoffice.specific_actions a ON a.id = g.specific_action_id").
		Where(squirrel.Eq{"g.role_menu_id": roleMenuID}).
		OrderBy("a.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list grants sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query grants: %w", err)
	}
	defer rows.Close()

	grants := make([]port.SpecificGrant, 0)
	for rows.Next() {
		var grant port.SpecificGrant
		if err := rows.Scan(&grant.ActionName, &grant.Granted); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}

	return grants, nil
}

// UpsertBase writes the four CRUD booleans for (roleID, menuID), inserting
// the row when absent. The upsert is idempotent.
func (r *PermissionRepository) UpsertBase(ctx context.Context, roleID, menuID string, flags domain.CRUDFlags) (string, error) {
	stmt, args, err := r.builder.Insert("backoffice.role_menus").
		Columns("id", "role_id", "menu_id", "can_view", "can_create", "can_update", "can_delete").
		Values(uuid.NewString(), roleID, menuID, flags.View, flags.Create, flags.Update, flags.Delete).
		Suffix(`ON CONFLICT (role_id, menu_id) DO UPDATE SET
			can_view = EXCLUDED.can_view,
			can_create = EXCLUDED.can_create,
			can_update = EXCLUDED.can_update,
			can_delete = EXCLUDED.can_delete
			RETURNING id`).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build upsert role menu sql: %w", err)
	}

	var id string
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("upsert role menu: %w", err)
	}

	return id, nil
}

// UpsertGrant writes one specific-permission grant idempotently.
func (r *PermissionRepository) UpsertGrant(ctx context.Context, roleMenuID, actionID string, granted bool) error {
	stmt, args, err := r.builder.Insert("backoffice.role_specific_permissions").
		Columns("role_menu_id", "specific_action_id", "granted").
		Values(roleMenuID, actionID, granted).
		Suffix("ON CONFLICT (role_menu_id, specific_action_id) DO UPDATE SET granted = EXCLUDED.granted").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert grant sql: %w", err)
	}

	if _, err := exec(ctx, r.db).Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert grant: %w", err)
	}

	return nil
}

// ReplaceMenus removes every RoleMenu row for the role and inserts
// default-deny rows for exactly menuIDs. Specific grants on removed rows go
// with them via FK cascade. Callers run this inside a transaction.
func (r *PermissionRepository) ReplaceMenus(ctx context.Context, roleID string, menuIDs []string) error {
	ex := exec(ctx, r.db)

	delStmt, delArgs, err := r.builder.Delete("backoffice.role_menus").
		Where(squirrel.Eq{"role_id": roleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role menus sql: %w", err)
	}

	if _, err := ex.Exec(ctx, delStmt, delArgs...); err != nil {
		return fmt.Errorf("delete role menus: %w", err)
	}

	if len(menuIDs) == 0 {
		return nil
	}

	ins := r.builder.Insert("backoffice.role_menus").
		Columns("id", "role_id", "menu_id", "can_view", "can_create", "can_update", "can_delete")
	for _, menuID := range menuIDs {
		ins = ins.Values(uuid.NewString(), roleID, menuID, false, false, false, false)
	}

	insStmt, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert role menus sql: %w", err)
	}

	if _, err := ex.Exec(ctx, insStmt, insArgs...); err != nil {
		return fmt.Errorf("insert role menus: %w", err)
	}

	return nil
}

// GetActionByName resolves a specific action from the global catalog.
func (r *PermissionRepository) GetActionByName(ctx context.Context, name string) (*domain.SpecificAction, error) {
	stmt, args, err := r.builder.Select("id", "name").
		From("backoffice.specific_actions").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select action sql: %w", err)
	}

	var action domain.SpecificAction
	if err := exec(ctx, r.db).QueryRow(ctx, stmt, args...).Scan(&action.ID, &action.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan action: %w", err)
	}

	return &action, nil
}

// ListActions returns the full specific-action catalog.
func (r *PermissionRepository) ListActions(ctx context.Context) ([]domain.SpecificAction, error) {
	stmt, args, err := r.builder.Select("id", "name").
		From("backoffice.specific_actions").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list actions sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	actions := make([]domain.SpecificAction, 0)
	for rows.Next() {
		var action domain.SpecificAction
		if err := rows.Scan(&action.ID, &action.Name); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, action)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}

	return actions, nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
