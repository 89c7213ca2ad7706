package domain

import "time"

// AuditLog is one append-only row describing who did what to which entity.
// Rows are written in the same transaction as the mutation they describe and
// are never updated or deleted.
type AuditLog struct {
	ID         string
	Action     string
	UserID     string
	EntityID   string
	EntityType string
	CreatedAt  time.Time
}

// Audit action names.
const (
	AuditCreate         = "CREATE"
	AuditUpdate         = "UPDATE"
	AuditDelete         = "DELETE"
	AuditUpdateStatus   = "UPDATE_STATUS"
	AuditAssignMenus    = "ASSIGN_MENUS"
	AuditSetPermission  = "SET_PERMISSION"
	AuditChangePassword = "CHANGE_PASSWORD"
)

// AuditRecordedEvent is the post-commit notification published to the message
// bus for downstream consumers. It mirrors the committed AuditLog row.
type AuditRecordedEvent struct {
	EventID    string
	Action     string
	UserID     string
	EntityID   string
	EntityType string
	RecordedAt time.Time
}
