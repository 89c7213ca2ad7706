package port

import (
	"context"
	"time"

	"github.com/tablehive/backoffice/internal/core/domain"
)

// UserRepository handles back-office user persistence. Reads exclude
// soft-deleted rows.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, query ListQuery) ([]domain.User, error)
	Count(ctx context.Context, query ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, user domain.User) error
	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
