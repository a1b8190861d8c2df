package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Credentials hashes passwords and ends logins. AuthService implements it.
type Credentials interface {
	HashPassword(password string) (string, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// UserService manages staff accounts.
type UserService struct {
	store repository.Transactor
	creds Credentials
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Transactor, creds Credentials, log zerolog.Logger) *UserService {
	return &UserService{store: store, creds: creds, log: log.With().Str("component", "users").Logger()}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}

// Create adds an active account.
func (s *UserService) Create(ctx context.Context, actor model.Actor, req model.CreateUserRequest) (*model.User, error) {
	hash, err := s.creds.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Username:     strings.TrimSpace(req.Username),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		return audit(ctx, q, actor, model.AuditUserCreated, model.EntityUser, user.ID.String(), map[string]any{
			"username": user.Username,
			"name":     user.Name,
			"role":     user.Role,
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update modifies an account. Changing the role, disabling the account or
// resetting the password ends its existing logins.
func (s *UserService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	isActive := user.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if id == actor.UserID && (!isActive || req.Role != user.Role) {
		return nil, ErrCannotDisableSelf
	}

	var hash string
	if req.Password != "" {
		if hash, err = s.creds.HashPassword(req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	revoke := req.Role != user.Role || (user.IsActive && !isActive) || hash != ""
	user.Name = strings.TrimSpace(req.Name)
	user.Role = req.Role
	user.IsActive = isActive

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateUser(ctx, user); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("update user: %w", err)
		}
		if hash != "" {
			if err := q.UpdateUserPassword(ctx, id, hash); err != nil {
				return fmt.Errorf("update password: %w", err)
			}
			user.PasswordHash = hash
		}
		return audit(ctx, q, actor, model.AuditUserUpdated, model.EntityUser, id.String(), map[string]any{
			"name":           user.Name,
			"role":           user.Role,
			"is_active":      user.IsActive,
			"password_reset": hash != "",
		})
	})
	if err != nil {
		return nil, err
	}

	if revoke {
		s.revoke(ctx, id)
	}
	return user, nil
}

// Disable deactivates an account and ends its logins.
func (s *UserService) Disable(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return ErrCannotDisableSelf
	}
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	user.IsActive = false

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("disable user: %w", err)
		}
		return audit(ctx, q, actor, model.AuditUserDisabled, model.EntityUser, id.String(), nil)
	})
	if err != nil {
		return err
	}
	s.revoke(ctx, id)
	return nil
}

func (s *UserService) revoke(ctx context.Context, id uuid.UUID) {
	if err := s.creds.RevokeAll(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id.String()).Msg("Failed to revoke logins")
	}
}
