package domain

// Status is an enumerated lookup row scoped by entity type. Entities
// reference statuses by foreign key so that per-type vocabularies can evolve
// without schema changes.
type Status struct {
	ID         string
	EntityType string
	Code       string
}

// Entity types used by statuses and audit rows.
const (
	EntityOrganization = "ORGANIZATION"
	EntityRestaurant   = "RESTAURANT"
	EntityProduct      = "PRODUCT"
	EntityTable        = "TABLE"
	EntityOrder        = "ORDER"
	EntityUser         = "USER"
	EntityRole         = "ROLE"
	EntityPermission   = "PERMISSION"
)

// Common status codes seeded for every soft-deletable entity type.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)
