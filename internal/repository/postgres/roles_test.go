package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/repository"
)

func newRoleMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock
}

func TestRoleRepository_GetByID(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewRoleRepository(mock)

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "description", "organization_id", "created_at", "updated_at", "deleted_at"}).
		AddRow("role-1", "manager", (*string)(nil), (*string)(nil), now, now, (*time.Time)(nil))

	mock.ExpectQuery(`SELECT .+ FROM backoffice\.roles WHERE deleted_at IS NULL AND id = \$1`).
		WithArgs("role-1").
		WillReturnRows(rows)

	role, err := repo.GetByID(context.Background(), "role-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if role.Name != "manager" {
		t.Fatalf("expected name manager, got %q", role.Name)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_GetByID_NotFound(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewRoleRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM backoffice\.roles`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_Create(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewRoleRepository(mock)

	now := time.Now()
	role := domain.Role{
		ID:        "role-1",
		Name:      "manager",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO backoffice\.roles`).
		WithArgs(role.ID, role.Name, role.Description, role.OrganizationID, role.CreatedAt, role.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), role); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_Update_NotFound(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewRoleRepository(mock)

	mock.ExpectExec(`UPDATE backoffice\.roles SET`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), domain.Role{ID: "missing", Name: "ghost"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_SoftDelete(t *testing.T) {
	mock := newRoleMockPool(t)
	repo := NewRoleRepository(mock)

	at := time.Now()
	mock.ExpectExec(`UPDATE backoffice\.roles SET deleted_at = \$1, updated_at = \$2 WHERE deleted_at IS NULL AND id = \$3`).
		WithArgs(at, at, "role-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SoftDelete(context.Background(), "role-1", at); err != nil {
		t.Fatalf("SoftDelete returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	mock := newRoleMockPool(t)
	manager := NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := manager.WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTxManager_CommitsOnSuccess(t *testing.T) {
	mock := newRoleMockPool(t)
	manager := NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO backoffice\.roles`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := NewRoleRepository(mock)
	err := manager.WithinTx(context.Background(), func(ctx context.Context) error {
		return repo.Create(ctx, domain.Role{ID: "role-1", Name: "manager"})
	})
	if err != nil {
		t.Fatalf("WithinTx returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
