package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// ErrUnknownRestaurant indicates a referenced restaurant does not exist or is
// soft-deleted.
var ErrUnknownRestaurant = errors.New("unknown restaurant")

// ProductInput captures the payload for creating or updating a product.
type ProductInput struct {
	RestaurantID string
	Name         string
	Description  *string
	PriceCents   int64
	StatusID     string
}

// ProductListResult carries one page of products plus the counters the list
// endpoints expose.
type ProductListResult struct {
	Products        []domain.Product
	RecordsFiltered int
	RecordsTotal    int
}

// ProductService manages products.
type ProductService struct {
	products    port.ProductRepository
	restaurants port.RestaurantRepository
	statuses    port.StatusRepository
	tx          port.Transactor
	audit       *AuditTrail
}

// NewProductService constructs a ProductService.
func NewProductService(products port.ProductRepository, restaurants port.RestaurantRepository, statuses port.StatusRepository, tx port.Transactor, audit *AuditTrail) *ProductService {
	return &ProductService{products: products, restaurants: restaurants, statuses: statuses, tx: tx, audit: audit}
}

// CreateProduct provisions a product under an existing restaurant.
func (s *ProductService) CreateProduct(ctx context.Context, actorID string, input ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if input.RestaurantID == "" {
		return nil, fmt.Errorf("%w: restaurant id is required", ErrValidation)
	}
	if input.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	if _, err := s.restaurants.GetByID(ctx, input.RestaurantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRestaurant, input.RestaurantID)
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	statusID := input.StatusID
	if statusID == "" {
		var err error
		if statusID, err = defaultStatusID(ctx, s.statuses, domain.EntityProduct); err != nil {
			return nil, err
		}
	} else if err := requireStatus(ctx, s.statuses, domain.EntityProduct, statusID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:           uuid.NewString(),
		RestaurantID: input.RestaurantID,
		Name:         name,
		Description:  trimmedPtr(input.Description),
		PriceCents:   input.PriceCents,
		StatusID:     statusID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditCreate, actorID, product.ID, domain.EntityProduct)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return &product, nil
}

// GetProduct retrieves a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// ListProducts returns one page of products together with filtered and total
// counts.
func (s *ProductService) ListProducts(ctx context.Context, query port.ListQuery) (ProductListResult, error) {
	products, err := s.products.List(ctx, query)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("list products: %w", err)
	}

	filtered, err := s.products.Count(ctx, query)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("count products: %w", err)
	}

	total, err := s.products.CountAll(ctx)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("count all products: %w", err)
	}

	return ProductListResult{Products: products, RecordsFiltered: filtered, RecordsTotal: total}, nil
}

// UpdateProduct applies the full input to an existing product. The owning
// restaurant never changes after creation.
func (s *ProductService) UpdateProduct(ctx context.Context, actorID, id string, input ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if input.PriceCents < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if input.StatusID != "" {
		if err := requireStatus(ctx, s.statuses, domain.EntityProduct, input.StatusID); err != nil {
			return nil, err
		}
		product.StatusID = input.StatusID
	}

	product.Name = name
	product.Description = trimmedPtr(input.Description)
	product.PriceCents = input.PriceCents
	product.UpdatedAt = time.Now().UTC()

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.Update(ctx, *product); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditUpdate, actorID, product.ID, domain.EntityProduct)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return product, nil
}

// UpdateProductStatus changes only the product's status. Callers reach this
// through the UPDATE_STATUS specific permission rather than the update verb.
func (s *ProductService) UpdateProductStatus(ctx context.Context, actorID, id, statusID string) error {
	if err := requireStatus(ctx, s.statuses, domain.EntityProduct, statusID); err != nil {
		return err
	}

	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.UpdateStatus(ctx, id, statusID, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("update product status: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditUpdateStatus, actorID, id, domain.EntityProduct)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}

// DeleteProduct soft-deletes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, actorID, id string) error {
	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete product: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditDelete, actorID, id, domain.EntityProduct)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}
