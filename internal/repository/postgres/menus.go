package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
)

// MenuRepository reads the seeded menu catalog.
type MenuRepository struct {
	db      DB
	builder squirrel.StatementBuilderType
}

// NewMenuRepository constructs a PostgreSQL-backed menu repository.
func NewMenuRepository(db DB) *MenuRepository {
	return &MenuRepository{db: db, builder: newBuilder()}
}

// List retrieves the full catalog ordered for tree building.
func (r *MenuRepository) List(ctx context.Context) ([]domain.Menu, error) {
	stmt, args, err := r.builder.Select("id", "name", "parent_id", "sort_order").
		From("backoffice.menus").
		OrderBy("sort_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list menus sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query menus: %w", err)
	}
	defer rows.Close()

	menus := make([]domain.Menu, 0)
	for rows.Next() {
		var menu domain.Menu
		if err := rows.Scan(&menu.ID, &menu.Name, &menu.ParentID, &menu.SortOrder); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		menus = append(menus, menu)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menus: %w", err)
	}

	return menus, nil
}

// ExistingIDs returns the subset of ids present in the catalog.
func (r *MenuRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	stmt, args, err := r.builder.Select("id").
		From("backoffice.menus").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build menu ids sql: %w", err)
	}

	rows, err := exec(ctx, r.db).Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query menu ids: %w", err)
	}
	defer rows.Close()

	found := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan menu id: %w", err)
		}
		found = append(found, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu ids: %w", err)
	}

	return found, nil
}

var _ port.MenuRepository = (*MenuRepository)(nil)
