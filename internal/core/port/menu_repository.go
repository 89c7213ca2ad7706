package port

import (
	"context"

	"github.com/tablehive/backoffice/internal/core/domain"
)

// MenuRepository reads the seeded menu catalog. There are no write
// operations; the catalog is immutable at runtime.
type MenuRepository interface {
	List(ctx context.Context) ([]domain.Menu, error)
	// ExistingIDs returns the subset of ids present in the catalog.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}
