package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// OrderListResult carries one page of orders plus the counters the list
// endpoints expose.
type OrderListResult struct {
	Orders          []domain.Order
	RecordsFiltered int
	RecordsTotal    int
}

// OrderService reads orders and advances their status. Orders enter the
// system through the customer-facing channel, so the back office never
// creates or deletes them.
type OrderService struct {
	orders   port.OrderRepository
	statuses port.StatusRepository
	tx       port.Transactor
	audit    *AuditTrail
}

// NewOrderService constructs an OrderService.
func NewOrderService(orders port.OrderRepository, statuses port.StatusRepository, tx port.Transactor, audit *AuditTrail) *OrderService {
	return &OrderService{orders: orders, statuses: statuses, tx: tx, audit: audit}
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListOrders returns one page of orders together with filtered and total
// counts.
func (s *OrderService) ListOrders(ctx context.Context, query port.ListQuery) (OrderListResult, error) {
	orders, err := s.orders.List(ctx, query)
	if err != nil {
		return OrderListResult{}, fmt.Errorf("list orders: %w", err)
	}

	filtered, err := s.orders.Count(ctx, query)
	if err != nil {
		return OrderListResult{}, fmt.Errorf("count orders: %w", err)
	}

	total, err := s.orders.CountAll(ctx)
	if err != nil {
		return OrderListResult{}, fmt.Errorf("count all orders: %w", err)
	}

	return OrderListResult{Orders: orders, RecordsFiltered: filtered, RecordsTotal: total}, nil
}

// UpdateOrderStatus advances an order to the given status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actorID, id, statusID string) error {
	if err := requireStatus(ctx, s.statuses, domain.EntityOrder, statusID); err != nil {
		return err
	}

	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.orders.UpdateStatus(ctx, id, statusID, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("update order status: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditUpdateStatus, actorID, id, domain.EntityOrder)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}
