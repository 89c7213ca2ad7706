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

// TableInput captures the payload for creating or updating a dining table.
type TableInput struct {
	RestaurantID string
	Label        string
	Seats        int
	StatusID     string
}

// TableListResult carries one page of tables plus the counters the list
// endpoints expose.
type TableListResult struct {
	Tables          []domain.DiningTable
	RecordsFiltered int
	RecordsTotal    int
}

// TableService manages dining tables.
type TableService struct {
	tables      port.TableRepository
	restaurants port.RestaurantRepository
	statuses    port.StatusRepository
	tx          port.Transactor
	audit       *AuditTrail
}

// NewTableService constructs a TableService.
func NewTableService(tables port.TableRepository, restaurants port.RestaurantRepository, statuses port.StatusRepository, tx port.Transactor, audit *AuditTrail) *TableService {
	return &TableService{tables: tables, restaurants: restaurants, statuses: statuses, tx: tx, audit: audit}
}

// CreateTable provisions a dining table under an existing restaurant.
func (s *TableService) CreateTable(ctx context.Context, actorID string, input TableInput) (*domain.DiningTable, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, fmt.Errorf("%w: table label is required", ErrValidation)
	}
	if input.RestaurantID == "" {
		return nil, fmt.Errorf("%w: restaurant id is required", ErrValidation)
	}
	if input.Seats < 1 {
		return nil, fmt.Errorf("%w: seats must be at least 1", ErrValidation)
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
		if statusID, err = defaultStatusID(ctx, s.statuses, domain.EntityTable); err != nil {
			return nil, err
		}
	} else if err := requireStatus(ctx, s.statuses, domain.EntityTable, statusID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	table := domain.DiningTable{
		ID:           uuid.NewString(),
		RestaurantID: input.RestaurantID,
		Label:        label,
		Seats:        input.Seats,
		StatusID:     statusID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tables.Create(ctx, table); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditCreate, actorID, table.ID, domain.EntityTable)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return &table, nil
}

// GetTable retrieves a dining table by ID.
func (s *TableService) GetTable(ctx context.Context, id string) (*domain.DiningTable, error) {
	table, err := s.tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	return table, nil
}

// ListTables returns one page of tables together with filtered and total
// counts.
func (s *TableService) ListTables(ctx context.Context, query port.ListQuery) (TableListResult, error) {
	tables, err := s.tables.List(ctx, query)
	if err != nil {
		return TableListResult{}, fmt.Errorf("list tables: %w", err)
	}

	filtered, err := s.tables.Count(ctx, query)
	if err != nil {
		return TableListResult{}, fmt.Errorf("count tables: %w", err)
	}

	total, err := s.tables.CountAll(ctx)
	if err != nil {
		return TableListResult{}, fmt.Errorf("count all tables: %w", err)
	}

	return TableListResult{Tables: tables, RecordsFiltered: filtered, RecordsTotal: total}, nil
}

// UpdateTable applies the full input to an existing table. The owning
// restaurant never changes after creation.
func (s *TableService) UpdateTable(ctx context.Context, actorID, id string, input TableInput) (*domain.DiningTable, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, fmt.Errorf("%w: table label is required", ErrValidation)
	}
	if input.Seats < 1 {
		return nil, fmt.Errorf("%w: seats must be at least 1", ErrValidation)
	}

	table, err := s.tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get table: %w", err)
	}

	if input.StatusID != "" {
		if err := requireStatus(ctx, s.statuses, domain.EntityTable, input.StatusID); err != nil {
			return nil, err
		}
		table.StatusID = input.StatusID
	}

	table.Label = label
	table.Seats = input.Seats
	table.UpdatedAt = time.Now().UTC()

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tables.Update(ctx, *table); err != nil {
			return fmt.Errorf("update table: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditUpdate, actorID, table.ID, domain.EntityTable)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return table, nil
}

// DeleteTable soft-deletes a dining table.
func (s *TableService) DeleteTable(ctx context.Context, actorID, id string) error {
	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tables.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete table: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditDelete, actorID, id, domain.EntityTable)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}
