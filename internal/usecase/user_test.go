package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tablehive/backoffice/internal/core/domain"
)

func userFixture(t *testing.T) (*UserService, *userRepoMock, *auditRepoMock) {
	t.Helper()

	users := newUserRepoMock()
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "waiter"})
	statuses := newStatusRepoMock(
		domain.Status{ID: "st-user-active", EntityType: domain.EntityUser, Code: domain.StatusActive},
		domain.Status{ID: "st-user-inactive", EntityType: domain.EntityUser, Code: domain.StatusInactive},
		domain.Status{ID: "st-order-pending", EntityType: domain.EntityOrder, Code: "PENDING"},
	)
	logs := &auditRepoMock{}

	service := NewUserService(users, roles, statuses, &hasherMock{}, &policyMock{}, &txMock{}, newTestAuditTrail(logs, nil))
	return service, users, logs
}

func TestCreateUserHashesPasswordAndAudits(t *testing.T) {
	service, users, logs := userFixture(t)

	input := CreateUserInput{
		Username: "marie",
		Email:    "marie@example.com",
		Password: "correct horse battery staple",
		RoleID:   strPtr("r1"),
	}
	user, err := service.CreateUser(context.Background(), "actor-1", input)
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	stored := users.users[user.ID]
	if stored.PasswordHash == input.Password || !strings.HasPrefix(stored.PasswordHash, "hashed:") {
		t.Errorf("password was not hashed: %q", stored.PasswordHash)
	}
	if stored.StatusID != "st-user-active" {
		t.Errorf("status = %q, want default active", stored.StatusID)
	}
	if len(logs.entries) != 1 || logs.entries[0].Action != domain.AuditCreate {
		t.Errorf("unexpected audit entries: %+v", logs.entries)
	}
}

func TestCreateUserWeakPassword(t *testing.T) {
	service, users, _ := userFixture(t)

	_, err := service.CreateUser(context.Background(), "actor-1", CreateUserInput{
		Username: "marie",
		Email:    "marie@example.com",
		Password: "short",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("error = %v, want ErrWeakPassword", err)
	}
	if len(users.users) != 0 {
		t.Error("no user should be written when the password is weak")
	}
}

func TestCreateUserUnknownRole(t *testing.T) {
	service, _, _ := userFixture(t)

	_, err := service.CreateUser(context.Background(), "actor-1", CreateUserInput{
		Username: "marie",
		Email:    "marie@example.com",
		Password: "correct horse battery staple",
		RoleID:   strPtr("missing"),
	})
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("error = %v, want ErrUnknownRole", err)
	}
}

func TestCreateUserWrongEntityTypeStatus(t *testing.T) {
	service, _, _ := userFixture(t)

	_, err := service.CreateUser(context.Background(), "actor-1", CreateUserInput{
		Username: "marie",
		Email:    "marie@example.com",
		Password: "correct horse battery staple",
		StatusID: "st-order-pending",
	})
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("error = %v, want ErrUnknownStatus for cross-type status", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	service, _, _ := userFixture(t)

	input := CreateUserInput{
		Username: "marie",
		Email:    "marie@example.com",
		Password: "correct horse battery staple",
	}
	if _, err := service.CreateUser(context.Background(), "actor-1", input); err != nil {
		t.Fatalf("first CreateUser returned error: %v", err)
	}

	input.Email = "marie2@example.com"
	if _, err := service.CreateUser(context.Background(), "actor-1", input); !errors.Is(err, ErrUserExists) {
		t.Fatalf("error = %v, want ErrUserExists", err)
	}
}

func TestChangePasswordAudits(t *testing.T) {
	service, users, logs := userFixture(t)

	user, err := service.CreateUser(context.Background(), "actor-1", CreateUserInput{
		Username: "marie",
		Email:    "marie@example.com",
		Password: "correct horse battery staple",
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	if err := service.ChangePassword(context.Background(), "actor-1", user.ID, "another very strong one"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	stored := users.users[user.ID]
	if stored.PasswordHash != "hashed:another very strong one" {
		t.Errorf("password hash not replaced: %q", stored.PasswordHash)
	}

	last := logs.entries[len(logs.entries)-1]
	if last.Action != domain.AuditChangePassword || last.EntityID != user.ID {
		t.Errorf("unexpected audit entry: %+v", last)
	}
}

func TestChangePasswordRejectsWeak(t *testing.T) {
	service, users, _ := userFixture(t)

	user, err := service.CreateUser(context.Background(), "actor-1", CreateUserInput{
		Username: "marie",
		Email:    "marie@example.com",
		Password: "correct horse battery staple",
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	original := users.users[user.ID].PasswordHash
	if err := service.ChangePassword(context.Background(), "actor-1", user.ID, "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("error = %v, want ErrWeakPassword", err)
	}
	if users.users[user.ID].PasswordHash != original {
		t.Error("password hash must not change on rejected password")
	}
}
