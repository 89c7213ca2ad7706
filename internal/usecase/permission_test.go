package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tablehive/backoffice/internal/core/domain"
)

func permissionFixture(t *testing.T) (*PermissionService, *roleRepoMock, *permissionRepoMock, *auditRepoMock) {
	t.Helper()

	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "waiter"})
	menus := &menuRepoMock{menus: []domain.Menu{
		{ID: domain.MenuProducts, Name: "Products"},
		{ID: domain.MenuOrders, Name: "Orders"},
		{ID: domain.MenuTables, Name: "Tables"},
	}}
	perms := newPermissionRepoMock()
	perms.addAction("a1", domain.ActionUpdateStatus)
	perms.addAction("a2", domain.ActionExportData)
	logs := &auditRepoMock{}

	service := NewPermissionService(roles, menus, perms, &txMock{}, newTestAuditTrail(logs, nil))
	return service, roles, perms, logs
}

func TestResolvePermissionDefaultDeny(t *testing.T) {
	service, _, _, _ := permissionFixture(t)

	record, err := service.ResolvePermission(context.Background(), "r1", domain.MenuProducts)
	if err != nil {
		t.Fatalf("ResolvePermission returned error: %v", err)
	}
	if record.View || record.Create || record.Update || record.Delete {
		t.Errorf("expected all CRUD flags false, got %+v", record.CRUDFlags)
	}
	if len(record.SpecificGrants) != 0 {
		t.Errorf("expected no specific grants, got %v", record.SpecificGrants)
	}
}

func TestSetMenuPermissionsCreatesRowAndGrants(t *testing.T) {
	service, _, perms, logs := permissionFixture(t)

	input := SetPermissionsInput{
		Flags: domain.CRUDFlags{View: true, Create: true},
		Grants: []GrantInput{
			{ActionName: domain.ActionUpdateStatus, Granted: true},
		},
	}
	if err := service.SetMenuPermissions(context.Background(), "actor-1", "r1", domain.MenuProducts, input); err != nil {
		t.Fatalf("SetMenuPermissions returned error: %v", err)
	}

	record, err := service.ResolvePermission(context.Background(), "r1", domain.MenuProducts)
	if err != nil {
		t.Fatalf("ResolvePermission returned error: %v", err)
	}
	if !record.View || !record.Create || record.Update || record.Delete {
		t.Errorf("unexpected CRUD flags: %+v", record.CRUDFlags)
	}
	if !record.SpecificGrants[domain.ActionUpdateStatus] {
		t.Error("expected UPDATE_STATUS grant to be true")
	}

	if len(logs.entries) != 1 || logs.entries[0].Action != domain.AuditSetPermission {
		t.Errorf("unexpected audit entries: %+v", logs.entries)
	}
	if len(perms.roleMenus) != 1 {
		t.Errorf("role menu rows = %d, want 1", len(perms.roleMenus))
	}
}

func TestSetMenuPermissionsPreservesUnnamedGrants(t *testing.T) {
	service, _, _, _ := permissionFixture(t)

	first := SetPermissionsInput{
		Flags: domain.CRUDFlags{View: true},
		Grants: []GrantInput{
			{ActionName: domain.ActionUpdateStatus, Granted: true},
			{ActionName: domain.ActionExportData, Granted: true},
		},
	}
	if err := service.SetMenuPermissions(context.Background(), "actor-1", "r1", domain.MenuOrders, first); err != nil {
		t.Fatalf("first SetMenuPermissions returned error: %v", err)
	}

	second := SetPermissionsInput{
		Flags: domain.CRUDFlags{View: true, Update: true},
		Grants: []GrantInput{
			{ActionName: domain.ActionExportData, Granted: false},
		},
	}
	if err := service.SetMenuPermissions(context.Background(), "actor-1", "r1", domain.MenuOrders, second); err != nil {
		t.Fatalf("second SetMenuPermissions returned error: %v", err)
	}

	record, err := service.ResolvePermission(context.Background(), "r1", domain.MenuOrders)
	if err != nil {
		t.Fatalf("ResolvePermission returned error: %v", err)
	}
	if !record.SpecificGrants[domain.ActionUpdateStatus] {
		t.Error("grant not named in the second update should keep its value")
	}
	if record.SpecificGrants[domain.ActionExportData] {
		t.Error("EXPORT_DATA should have been revoked")
	}
	if !record.Update {
		t.Error("update flag should have been set")
	}
}

func TestSetMenuPermissionsUnknownAction(t *testing.T) {
	service, _, perms, logs := permissionFixture(t)

	input := SetPermissionsInput{
		Flags:  domain.CRUDFlags{View: true},
		Grants: []GrantInput{{ActionName: "NOT_SEEDED", Granted: true}},
	}
	err := service.SetMenuPermissions(context.Background(), "actor-1", "r1", domain.MenuProducts, input)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("error = %v, want ErrUnknownAction", err)
	}

	if len(perms.roleMenus) != 0 {
		t.Error("no RoleMenu row should be written when an action name is bad")
	}
	if len(logs.entries) != 0 {
		t.Error("no audit entry should be written when an action name is bad")
	}
}

func TestSetMenuPermissionsRejectsCRUDVerbAsGrant(t *testing.T) {
	service, _, perms, logs := permissionFixture(t)

	input := SetPermissionsInput{
		Flags:  domain.CRUDFlags{View: true},
		Grants: []GrantInput{{ActionName: domain.VerbDelete, Granted: true}},
	}
	err := service.SetMenuPermissions(context.Background(), "actor-1", "r1", domain.MenuProducts, input)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("error = %v, want ErrUnknownAction", err)
	}

	if len(perms.roleMenus) != 0 {
		t.Error("no RoleMenu row should be written when a CRUD verb is sent as a grant")
	}
	if len(logs.entries) != 0 {
		t.Error("no audit entry should be written when a CRUD verb is sent as a grant")
	}
}

func TestSetMenuPermissionsUnknownMenu(t *testing.T) {
	service, _, _, _ := permissionFixture(t)

	err := service.SetMenuPermissions(context.Background(), "actor-1", "r1", "bogus", SetPermissionsInput{})
	if !errors.Is(err, ErrUnknownMenu) {
		t.Fatalf("error = %v, want ErrUnknownMenu", err)
	}
}

func TestAssignMenusReplacesEverything(t *testing.T) {
	service, _, perms, logs := permissionFixture(t)

	// Seed products with full access plus a grant, then reassign a set that
	// still contains products.
	seed := SetPermissionsInput{
		Flags:  domain.CRUDFlags{View: true, Create: true, Update: true, Delete: true},
		Grants: []GrantInput{{ActionName: domain.ActionUpdateStatus, Granted: true}},
	}
	if err := service.SetMenuPermissions(context.Background(), "actor-1", "r1", domain.MenuProducts, seed); err != nil {
		t.Fatalf("seed SetMenuPermissions returned error: %v", err)
	}

	if err := service.AssignMenus(context.Background(), "actor-1", "r1", []string{domain.MenuProducts, domain.MenuOrders}); err != nil {
		t.Fatalf("AssignMenus returned error: %v", err)
	}

	assigned, err := service.ListRoleMenus(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ListRoleMenus returned error: %v", err)
	}
	if len(assigned) != 2 {
		t.Fatalf("assigned menus = %d, want 2", len(assigned))
	}
	for _, menu := range assigned {
		if menu.View || menu.Create || menu.Update || menu.Delete {
			t.Errorf("menu %s should be default-deny after reassignment, got %+v", menu.MenuID, menu.CRUDFlags)
		}
		if len(menu.SpecificGrants) != 0 {
			t.Errorf("menu %s should have no grants after reassignment, got %v", menu.MenuID, menu.SpecificGrants)
		}
	}

	if len(perms.grants) != 0 {
		t.Errorf("grants should be wiped by reassignment, got %v", perms.grants)
	}

	last := logs.entries[len(logs.entries)-1]
	if last.Action != domain.AuditAssignMenus || last.EntityID != "r1" {
		t.Errorf("unexpected audit entry: %+v", last)
	}
}

func TestAssignMenusDeduplicates(t *testing.T) {
	service, _, perms, _ := permissionFixture(t)

	if err := service.AssignMenus(context.Background(), "actor-1", "r1", []string{domain.MenuOrders, domain.MenuOrders}); err != nil {
		t.Fatalf("AssignMenus returned error: %v", err)
	}
	if len(perms.roleMenus) != 1 {
		t.Errorf("role menu rows = %d, want 1", len(perms.roleMenus))
	}
}

func TestAssignMenusUnknownMenu(t *testing.T) {
	service, _, perms, logs := permissionFixture(t)

	err := service.AssignMenus(context.Background(), "actor-1", "r1", []string{domain.MenuOrders, "bogus"})
	if !errors.Is(err, ErrUnknownMenu) {
		t.Fatalf("error = %v, want ErrUnknownMenu", err)
	}
	if len(perms.roleMenus) != 0 {
		t.Error("no rows should be written when a menu id is bad")
	}
	if len(logs.entries) != 0 {
		t.Error("no audit entry should be written when a menu id is bad")
	}
}

func TestAssignMenusEmptySetClearsRole(t *testing.T) {
	service, _, perms, _ := permissionFixture(t)

	if err := service.AssignMenus(context.Background(), "actor-1", "r1", []string{domain.MenuOrders}); err != nil {
		t.Fatalf("AssignMenus returned error: %v", err)
	}
	if err := service.AssignMenus(context.Background(), "actor-1", "r1", nil); err != nil {
		t.Fatalf("AssignMenus(nil) returned error: %v", err)
	}
	if len(perms.roleMenus) != 0 {
		t.Errorf("role menu rows = %d, want 0", len(perms.roleMenus))
	}
}
