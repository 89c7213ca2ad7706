package domain

import "testing"

func TestPermissionRecordZeroValueDeniesEverything(t *testing.T) {
	var record PermissionRecord

	for _, action := range []string{VerbView, VerbCreate, VerbUpdate, VerbDelete, ActionUpdateStatus, "anything"} {
		if record.Allows(action) {
			t.Errorf("zero record must deny %q", action)
		}
	}
}

func TestPermissionRecordAllows(t *testing.T) {
	record := PermissionRecord{
		CRUDFlags:      CRUDFlags{View: true, Delete: true},
		SpecificGrants: map[string]bool{ActionExportData: true, ActionImportData: false},
	}

	cases := []struct {
		action string
		want   bool
	}{
		{VerbView, true},
		{VerbCreate, false},
		{VerbUpdate, false},
		{VerbDelete, true},
		{ActionExportData, true},
		{ActionImportData, false},
		{ActionUpdateStatus, false},
	}
	for _, tc := range cases {
		if got := record.Allows(tc.action); got != tc.want {
			t.Errorf("Allows(%q) = %v, want %v", tc.action, got, tc.want)
		}
	}
}

func TestBuildMenuTree(t *testing.T) {
	products := MenuProducts
	menus := []Menu{
		{ID: MenuProducts, Name: "Products", SortOrder: 1},
		{ID: "products-categories", Name: "Categories", ParentID: &products, SortOrder: 2},
		{ID: MenuOrders, Name: "Orders", SortOrder: 3},
	}

	tree := BuildMenuTree(menus)
	if len(tree) != 2 {
		t.Fatalf("roots = %d, want 2", len(tree))
	}
	if tree[0].ID != MenuProducts || len(tree[0].Children) != 1 {
		t.Errorf("unexpected first root: %+v", tree[0])
	}
	if tree[0].Children[0].ID != "products-categories" {
		t.Errorf("unexpected child: %+v", tree[0].Children[0])
	}
	if tree[1].ID != MenuOrders || len(tree[1].Children) != 0 {
		t.Errorf("unexpected second root: %+v", tree[1])
	}
}
