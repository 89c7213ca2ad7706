package domain

import "time"

// PasswordContext carries the user attributes a password must not resemble.
type PasswordContext struct {
	Username string
	Email    string
}

// User is a back-office operator. Effective permissions are exactly the
// permissions of the single assigned role; a user without a role has none.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	RoleID         *string
	OrganizationID *string
	RestaurantID   *string
	StatusID       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}
