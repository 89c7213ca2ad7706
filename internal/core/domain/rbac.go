package domain

import "time"

// Role is a named bundle of menu permissions, optionally scoped to an
// organization. Roles are soft-deleted.
type Role struct {
	ID             string
	Name           string
	Description    *string
	OrganizationID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// RoleMenu holds the coarse-grained CRUD grant for one (role, menu) pair.
// There is at most one row per pair; absence of a row means no access.
type RoleMenu struct {
	ID        string
	RoleID    string
	MenuID    string
	CanView   bool
	CanCreate bool
	CanUpdate bool
	CanDelete bool
}

// SpecificAction is a named capability beyond the four CRUD verbs. The
// catalog is global and seeded once.
type SpecificAction struct {
	ID   string
	Name string
}

// Seeded specific-action names.
const (
	ActionUpdateStatus   = "UPDATE_STATUS"
	ActionUpdatePicture  = "UPDATE_PICTURE"
	ActionExportData     = "EXPORT_DATA"
	ActionImportData     = "IMPORT_DATA"
	ActionChangePassword = "CHANGE_PASSWORD"
)

// The four CRUD verbs accepted by the authorization check.
const (
	VerbView   = "view"
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"
)

// CRUDFlags carries the four booleans of a RoleMenu row.
type CRUDFlags struct {
	View   bool
	Create bool
	Update bool
	Delete bool
}

// PermissionRecord is the resolved answer to "what may role R do on menu M".
// The zero value is the default-deny shape.
type PermissionRecord struct {
	CRUDFlags
	SpecificGrants map[string]bool
}

// Allows reports whether the record permits the given action. Actions are
// either a CRUD verb or a specific-action name; unknown names deny.
func (p PermissionRecord) Allows(action string) bool {
	switch action {
	case VerbView:
		return p.View
	case VerbCreate:
		return p.Create
	case VerbUpdate:
		return p.Update
	case VerbDelete:
		return p.Delete
	default:
		return p.SpecificGrants[action]
	}
}

// IsCRUDVerb reports whether action is one of the four CRUD verbs.
func IsCRUDVerb(action string) bool {
	switch action {
	case VerbView, VerbCreate, VerbUpdate, VerbDelete:
		return true
	}
	return false
}
