package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tablehive/backoffice/internal/core/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestHasPermissionDeniesWithoutRole(t *testing.T) {
	authorizer := NewAuthorizer(newRoleRepoMock(), newPermissionRepoMock())

	allowed, err := authorizer.HasPermission(context.Background(), &domain.User{ID: "u1"}, domain.MenuProducts, domain.VerbView)
	if err != nil {
		t.Fatalf("HasPermission returned error: %v", err)
	}
	if allowed {
		t.Fatal("expected deny for user without role")
	}
}

func TestHasPermissionDeniesWithoutRoleMenuRow(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "waiter"})
	authorizer := NewAuthorizer(roles, newPermissionRepoMock())

	user := &domain.User{ID: "u1", RoleID: strPtr("r1")}
	allowed, err := authorizer.HasPermission(context.Background(), user, domain.MenuProducts, domain.VerbView)
	if err != nil {
		t.Fatalf("HasPermission returned error: %v", err)
	}
	if allowed {
		t.Fatal("expected deny when no row assigns the menu")
	}
}

func TestHasPermissionCRUDVerbs(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "waiter"})
	perms := newPermissionRepoMock()
	if _, err := perms.UpsertBase(context.Background(), "r1", domain.MenuProducts, domain.CRUDFlags{View: true, Update: true}); err != nil {
		t.Fatalf("seed role menu: %v", err)
	}

	authorizer := NewAuthorizer(roles, perms)
	user := &domain.User{ID: "u1", RoleID: strPtr("r1")}

	cases := []struct {
		action string
		want   bool
	}{
		{domain.VerbView, true},
		{domain.VerbCreate, false},
		{domain.VerbUpdate, true},
		{domain.VerbDelete, false},
	}
	for _, tc := range cases {
		allowed, err := authorizer.HasPermission(context.Background(), user, domain.MenuProducts, tc.action)
		if err != nil {
			t.Fatalf("HasPermission(%s) returned error: %v", tc.action, err)
		}
		if allowed != tc.want {
			t.Errorf("HasPermission(%s) = %v, want %v", tc.action, allowed, tc.want)
		}
	}
}

func TestHasPermissionSpecificGrant(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "manager"})
	perms := newPermissionRepoMock()
	perms.addAction("a1", domain.ActionUpdateStatus)
	perms.addAction("a2", domain.ActionExportData)

	rmID, err := perms.UpsertBase(context.Background(), "r1", domain.MenuOrders, domain.CRUDFlags{View: true})
	if err != nil {
		t.Fatalf("seed role menu: %v", err)
	}
	if err := perms.UpsertGrant(context.Background(), rmID, "a1", true); err != nil {
		t.Fatalf("seed grant: %v", err)
	}
	if err := perms.UpsertGrant(context.Background(), rmID, "a2", false); err != nil {
		t.Fatalf("seed grant: %v", err)
	}

	authorizer := NewAuthorizer(roles, perms)
	user := &domain.User{ID: "u1", RoleID: strPtr("r1")}

	allowed, err := authorizer.HasPermission(context.Background(), user, domain.MenuOrders, domain.ActionUpdateStatus)
	if err != nil {
		t.Fatalf("HasPermission returned error: %v", err)
	}
	if !allowed {
		t.Error("expected granted specific action to allow")
	}

	allowed, err = authorizer.HasPermission(context.Background(), user, domain.MenuOrders, domain.ActionExportData)
	if err != nil {
		t.Fatalf("HasPermission returned error: %v", err)
	}
	if allowed {
		t.Error("expected revoked specific action to deny")
	}

	allowed, err = authorizer.HasPermission(context.Background(), user, domain.MenuOrders, "NOT_A_THING")
	if err != nil {
		t.Fatalf("HasPermission returned error: %v", err)
	}
	if allowed {
		t.Error("expected unknown action to deny")
	}
}

func TestHasPermissionDeniesForSoftDeletedRole(t *testing.T) {
	deletedAt := time.Now().UTC()
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "waiter", DeletedAt: &deletedAt})
	perms := newPermissionRepoMock()
	if _, err := perms.UpsertBase(context.Background(), "r1", domain.MenuProducts, domain.CRUDFlags{View: true}); err != nil {
		t.Fatalf("seed role menu: %v", err)
	}

	authorizer := NewAuthorizer(roles, perms)
	user := &domain.User{ID: "u1", RoleID: strPtr("r1")}

	allowed, err := authorizer.HasPermission(context.Background(), user, domain.MenuProducts, domain.VerbView)
	if err != nil {
		t.Fatalf("HasPermission returned error: %v", err)
	}
	if allowed {
		t.Fatal("expected deny for soft-deleted role even with surviving rows")
	}
}

func TestRequireMapsDenialToError(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "waiter"})
	perms := newPermissionRepoMock()
	if _, err := perms.UpsertBase(context.Background(), "r1", domain.MenuProducts, domain.CRUDFlags{View: true}); err != nil {
		t.Fatalf("seed role menu: %v", err)
	}

	authorizer := NewAuthorizer(roles, perms)
	user := &domain.User{ID: "u1", RoleID: strPtr("r1")}

	if err := authorizer.Require(context.Background(), user, domain.MenuProducts, domain.VerbView); err != nil {
		t.Fatalf("Require returned error for granted action: %v", err)
	}

	err := authorizer.Require(context.Background(), user, domain.MenuProducts, domain.VerbDelete)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("error = %v, want ErrPermissionDenied", err)
	}
}

func newTestAuditTrail(logs *auditRepoMock, events *publisherMock) *AuditTrail {
	if events == nil {
		return NewAuditTrail(logs, nil, zap.NewNop())
	}
	return NewAuditTrail(logs, events, zap.NewNop())
}
