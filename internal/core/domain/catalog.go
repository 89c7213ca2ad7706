package domain

import "time"

// Organization is the top-level tenant. It owns restaurants and scopes roles
// and users.
type Organization struct {
	ID          string
	Name        string
	Description *string
	StatusID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Restaurant belongs to an organization and owns products, tables, and
// orders.
type Restaurant struct {
	ID             string
	OrganizationID string
	Name           string
	Address        *string
	Phone          *string
	StatusID       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Product is a menu item sold by a restaurant. Price is stored in minor
// currency units.
type Product struct {
	ID           string
	RestaurantID string
	Name         string
	Description  *string
	PriceCents   int64
	StatusID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// DiningTable is a physical table in a restaurant.
type DiningTable struct {
	ID           string
	RestaurantID string
	Label        string
	Seats        int
	StatusID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Order is a customer order placed at a restaurant, optionally bound to a
// table. Orders are never soft-deleted; they only change status.
type Order struct {
	ID           string
	RestaurantID string
	TableID      *string
	TotalCents   int64
	StatusID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
