package port

import (
	"context"
	"time"

	"github.com/tablehive/backoffice/internal/core/domain"
)

// RoleRepository handles role CRUD. Reads exclude soft-deleted rows.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context, query ListQuery) ([]domain.Role, error)
	Count(ctx context.Context, query ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, role domain.Role) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
