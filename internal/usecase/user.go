package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

var (
	// ErrUserExists indicates a user with the provided username or email
	// already exists.
	ErrUserExists = errors.New("user already exists")
	// ErrUnknownRole indicates a referenced role does not exist or is
	// soft-deleted.
	ErrUnknownRole = errors.New("unknown role")
	// ErrWeakPassword indicates the password failed the strength policy.
	ErrWeakPassword = errors.New("password does not meet policy")
)

// CreateUserInput captures the payload for creating a user.
type CreateUserInput struct {
	Username       string
	Email          string
	Password       string
	RoleID         *string
	OrganizationID *string
	RestaurantID   *string
	StatusID       string
}

// UpdateUserInput captures the payload for updating a user. Password changes
// go through ChangePassword instead.
type UpdateUserInput struct {
	Username       string
	Email          string
	RoleID         *string
	OrganizationID *string
	RestaurantID   *string
	StatusID       string
}

// UserListResult carries one page of users plus the counters the list
// endpoints expose.
type UserListResult struct {
	Users           []domain.User
	RecordsFiltered int
	RecordsTotal    int
}

// UserService manages back-office users.
type UserService struct {
	users    port.UserRepository
	roles    port.RoleRepository
	statuses port.StatusRepository
	hasher   port.PasswordHasher
	policy   port.PasswordPolicyValidator
	tx       port.Transactor
	audit    *AuditTrail
}

// NewUserService constructs a UserService.
func NewUserService(users port.UserRepository, roles port.RoleRepository, statuses port.StatusRepository, hasher port.PasswordHasher, policy port.PasswordPolicyValidator, tx port.Transactor, audit *AuditTrail) *UserService {
	return &UserService{users: users, roles: roles, statuses: statuses, hasher: hasher, policy: policy, tx: tx, audit: audit}
}

// CreateUser provisions a back-office user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, actorID string, input CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	email := strings.TrimSpace(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	if err := s.policy.Validate(input.Password, domain.PasswordContext{Username: username, Email: email}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	if input.RoleID != nil {
		if _, err := s.roles.GetByID(ctx, *input.RoleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRole, *input.RoleID)
			}
			return nil, fmt.Errorf("get role: %w", err)
		}
	}

	statusID := input.StatusID
	if statusID == "" {
		var err error
		if statusID, err = defaultStatusID(ctx, s.statuses, domain.EntityUser); err != nil {
			return nil, err
		}
	} else if err := requireStatus(ctx, s.statuses, domain.EntityUser, statusID); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, ErrUserExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by username: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		RoleID:         input.RoleID,
		OrganizationID: input.OrganizationID,
		RestaurantID:   input.RestaurantID,
		StatusID:       statusID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditCreate, actorID, user.ID, domain.EntityUser)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return &user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns one page of users together with filtered and total
// counts.
func (s *UserService) ListUsers(ctx context.Context, query port.ListQuery) (UserListResult, error) {
	users, err := s.users.List(ctx, query)
	if err != nil {
		return UserListResult{}, fmt.Errorf("list users: %w", err)
	}

	filtered, err := s.users.Count(ctx, query)
	if err != nil {
		return UserListResult{}, fmt.Errorf("count users: %w", err)
	}

	total, err := s.users.CountAll(ctx)
	if err != nil {
		return UserListResult{}, fmt.Errorf("count all users: %w", err)
	}

	return UserListResult{Users: users, RecordsFiltered: filtered, RecordsTotal: total}, nil
}

// UpdateUser applies the full input to an existing user. The password hash is
// never touched here.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id string, input UpdateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	email := strings.TrimSpace(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.RoleID != nil {
		if _, err := s.roles.GetByID(ctx, *input.RoleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRole, *input.RoleID)
			}
			return nil, fmt.Errorf("get role: %w", err)
		}
	}

	if input.StatusID != "" {
		if err := requireStatus(ctx, s.statuses, domain.EntityUser, input.StatusID); err != nil {
			return nil, err
		}
		user.StatusID = input.StatusID
	}

	if existing, err := s.users.GetByUsername(ctx, username); err == nil && existing != nil && existing.ID != user.ID {
		return nil, ErrUserExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by username: %w", err)
	}

	user.Username = username
	user.Email = email
	user.RoleID = input.RoleID
	user.OrganizationID = input.OrganizationID
	user.RestaurantID = input.RestaurantID
	user.UpdatedAt = time.Now().UTC()

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Update(ctx, *user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditUpdate, actorID, user.ID, domain.EntityUser)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.audit.Announce(ctx, entry)
	return user, nil
}

// ChangePassword replaces the user's password hash after the new password
// clears the strength policy.
func (s *UserService) ChangePassword(ctx context.Context, actorID, id, password string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.policy.Validate(password, domain.PasswordContext{Username: user.Username, Email: user.Email}); err != nil {
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var entry domain.AuditLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.UpdatePasswordHash(ctx, id, hash, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("update password hash: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditChangePassword, actorID, id, domain.EntityUser)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}

// DeleteUser soft-deletes a user.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	var entry domain.AuditLog
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("delete user: %w", err)
		}
		var err error
		entry, err = s.audit.Record(ctx, domain.AuditDelete, actorID, id, domain.EntityUser)
		return err
	})
	if err != nil {
		return err
	}

	s.audit.Announce(ctx, entry)
	return nil
}
