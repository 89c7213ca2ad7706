package usecase

import (
	"context"
	"fmt"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
)

// MenuService reads the seeded menu catalog.
type MenuService struct {
	menus port.MenuRepository
}

// NewMenuService constructs a MenuService.
func NewMenuService(menus port.MenuRepository) *MenuService {
	return &MenuService{menus: menus}
}

// ListTree returns the menu catalog as a two-level tree.
func (s *MenuService) ListTree(ctx context.Context) ([]domain.MenuNode, error) {
	menus, err := s.menus.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}

	return domain.BuildMenuTree(menus), nil
}
