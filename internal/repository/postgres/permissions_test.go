package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/repository"
)

func TestPermissionRepository_GetRoleMenu_NotFound(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewPermissionRepository(mock)

	// squirrel orders Eq conditions by key, so menu_id binds first.
	mock.ExpectQuery(`SELECT .+ FROM backoffice\.role_menus`).
		WithArgs("orders", "role-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetRoleMenu(context.Background(), "role-1", "orders")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_UpsertBase_ReturnsRowID(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewPermissionRepository(mock)

	mock.ExpectQuery(`INSERT INTO backoffice\.role_menus .+ ON CONFLICT \(role_id, menu_id\) DO UPDATE SET`).
		WithArgs(pgxmock.AnyArg(), "role-1", "orders", true, false, true, false).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("rm-1"))

	id, err := repo.UpsertBase(context.Background(), "role-1", "orders", domain.CRUDFlags{View: true, Update: true})
	if err != nil {
		t.Fatalf("UpsertBase returned error: %v", err)
	}
	if id != "rm-1" {
		t.Fatalf("expected rm-1, got %q", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_ReplaceMenus_DeletesThenInserts(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewPermissionRepository(mock)

	mock.ExpectExec(`DELETE FROM backoffice\.role_menus WHERE role_id = \$1`).
		WithArgs("role-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO backoffice\.role_menus`).
		WithArgs(
			pgxmock.AnyArg(), "role-1", "orders", false, false, false, false,
			pgxmock.AnyArg(), "role-1", "products", false, false, false, false,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	err := repo.ReplaceMenus(context.Background(), "role-1", []string{"orders", "products"})
	if err != nil {
		t.Fatalf("ReplaceMenus returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_ReplaceMenus_EmptySetOnlyDeletes(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewPermissionRepository(mock)

	mock.ExpectExec(`DELETE FROM backoffice\.role_menus WHERE role_id = \$1`).
		WithArgs("role-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	if err := repo.ReplaceMenus(context.Background(), "role-1", nil); err != nil {
		t.Fatalf("ReplaceMenus returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_ListGrants(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewPermissionRepository(mock)

	rows := pgxmock.NewRows([]string{"name", "granted"}).
		AddRow("EXPORT_DATA", true).
		AddRow("UPDATE_STATUS", false)

	mock.ExpectQuery(`SELECT a\.name, g\.granted FROM backoffice\.role_specific_permissions g JOIN backoffice\.specific_actions a`).
		WithArgs("rm-1").
		WillReturnRows(rows)

	grants, err := repo.ListGrants(context.Background(), "rm-1")
	if err != nil {
		t.Fatalf("ListGrants returned error: %v", err)
	}
	if len(grants) != 2 {
		t.Fatalf("expected 2 grants, got %d", len(grants))
	}
	if grants[0].ActionName != "EXPORT_DATA" || !grants[0].Granted {
		t.Fatalf("unexpected first grant: %+v", grants[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPermissionRepository_GetActionByName_NotFound(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewPermissionRepository(mock)

	mock.ExpectQuery(`SELECT id, name FROM backoffice\.specific_actions`).
		WithArgs("NO_SUCH_ACTION").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetActionByName(context.Background(), "NO_SUCH_ACTION")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
