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

// ErrUnknownOrganization indicates a referenced organization does not exist
// or is soft-deleted.
var ErrUnknownOrganization = errors.New("unknown organization")

// RestaurantInput captures the payload for creating or updating a
// restaurant.
type RestaurantInput struct {
	OrganizationID string
	Name           string
	Address        *string
	Phone          *string
	StatusID       string
}

// RestaurantListResult carries one page of restaurants plus the counters the
// list endpoints expose.
type RestaurantListResult struct {
	Restaurants     []domain.Restaurant
	RecordsFiltered int
	RecordsTotal    int
}

// RestaurantService manages restaurants.
type RestaurantService struct {
	restaurants   port.RestaurantRepository
	organizations port.OrganizationRepository
	statuses      port.StatusRepository
	tx            port.Transactor
	audit         *AuditTrail
}

// NewRestaurantService constructs a RestaurantService.
func NewRestaurantService(restaurants port.RestaurantRepository, organizations port.OrganizationRepository, statuses port.StatusRepository, tx port.Transactor, audit *AuditTrail) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, organizations: organizations, statuses: statuses, tx: tx, audit: audit}
}

// CreateRestaurant provisions a restaurant under an existing organization.
func (s *RestaurantService) CreateRestaurant(ctx context.Context, actorID string, input RestaurantInput) (*domain.Restaurant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", ErrValidation)
	}
	if input.OrganizationID == "" {
		return nil, fmt.Errorf("%w: organization id is required", ErrValidation)
	}

	if _, err := s.organizations.GetByID(ctx, input.OrganizationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOrganization, input.OrganizationID)
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}

	statusID := input.StatusID
	if statusID == "" {
		var err error
		if statusID, err = defaultStatusID(ctx, s.statuses, domain.EntityRestaurant); err != nil {
			return nil, err
		}
	} else if err := requireStatus(ctx, s.statuses, domain.EntityRestaurant, statusID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	restaurant := domain.Restaurant{
		ID:             uuid.NewString(),
		OrganizationID: input.OrganizationID,
		Name:           name,
		Address:        trimmedPtr(input.Address),
		Phone:          trimmedPtr(input.Phone),
		StatusID:       statusID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.restaurants.Create(ctx, restaurant); err != nil {
			return fmt.Errorf("create restaurant: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditCreate, actorID, restaurant.ID, domain.EntityRestaurant)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return &restaurant, nil
}

// GetRestaurant retrieves a restaurant by ID.
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return restaurant, nil
}

// ListRestaurants returns one page of restaurants together with filtered and
// total counts.
func (s *RestaurantService) ListRestaurants(ctx context.Context, query port.ListQuery) (RestaurantListResult, error) {
	restaurants, err := s.restaurants.List(ctx, query)
	if err != nil {
		return RestaurantListResult{}, fmt.Errorf("list restaurants: %w", err)
	}

	filtered, err := s.restaurants.Count(ctx, query)
	if err != nil {
		return RestaurantListResult{}, fmt.Errorf("count restaurants: %w", err)
	}

	total, err := s.restaurants.CountAll(ctx)
	if err != nil {
		return RestaurantListResult{}, fmt.Errorf("count all restaurants: %w", err)
	}

	return RestaurantListResult{Restaurants: restaurants, RecordsFiltered: filtered, RecordsTotal: total}, nil
}

// UpdateRestaurant applies the full input to an existing restaurant. The
// owning organization never changes after creation.
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, actorID, id string, input RestaurantInput) (*domain.Restaurant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", ErrValidation)
	}

	restaurant, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	if input.StatusID != "" {
		if err := requireStatus(ctx, s.statuses, domain.EntityRestaurant, input.StatusID); err != nil {
			return nil, err
		}
		restaurant.StatusID = input.StatusID
	}

	restaurant.Name = name
	restaurant.Address = trimmedPtr(input.Address)
	restaurant.Phone = trimmedPtr(input.Phone)
	restaurant.UpdatedAt = time.Now().UTC()

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.restaurants.Update(ctx, *restaurant); err != nil {
			return fmt.Errorf("update restaurant: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditUpdate, actorID, restaurant.ID, domain.EntityRestaurant)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return restaurant, nil
}

// DeleteRestaurant soft-deletes a restaurant.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, actorID, id string) error {
	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.restaurants.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete restaurant: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditDelete, actorID, id, domain.EntityRestaurant)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
