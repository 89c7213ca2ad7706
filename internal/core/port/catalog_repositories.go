package port

import (
	"context"
	"time"

	"github.com/tablehive/backoffice/internal/core/domain"
)

// OrganizationRepository handles tenant persistence.
type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	List(ctx context.Context, query ListQuery) ([]domain.Organization, error)
	Count(ctx context.Context, query ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, org domain.Organization) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// RestaurantRepository handles restaurant persistence.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant domain.Restaurant) error
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	List(ctx context.Context, query ListQuery) ([]domain.Restaurant, error)
	Count(ctx context.Context, query ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, restaurant domain.Restaurant) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// ProductRepository handles product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, query ListQuery) ([]domain.Product, error)
	Count(ctx context.Context, query ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, product domain.Product) error
	UpdateStatus(ctx context.Context, id, statusID string, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// TableRepository handles dining-table persistence.
type TableRepository interface {
	Create(ctx context.Context, table domain.DiningTable) error
	GetByID(ctx context.Context, id string) (*domain.DiningTable, error)
	List(ctx context.Context, query ListQuery) ([]domain.DiningTable, error)
	Count(ctx context.Context, query ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, table domain.DiningTable) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// OrderRepository reads orders and advances their status. Orders are never
// deleted.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, query ListQuery) ([]domain.Order, error)
	Count(ctx context.Context, query ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
	UpdateStatus(ctx context.Context, id, statusID string, at time.Time) error
}

// StatusRepository reads the per-entity-type status vocabulary.
type StatusRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Status, error)
	GetByCode(ctx context.Context, entityType, code string) (*domain.Status, error)
	ListByEntityType(ctx context.Context, entityType string) ([]domain.Status, error)
}
