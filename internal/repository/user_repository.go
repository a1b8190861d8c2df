package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

const userColumns = `id, username, name, password_hash, role, is_active, created_at, updated_at`

// UserRepository handles staff account data access.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByUsername retrieves a user by login name, case-insensitively.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username))
}

// ListUsers retrieves all users, active first.
func (r *UserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY is_active DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CreateUser inserts a new user.
func (r *UserRepository) CreateUser(ctx context.Context, u *model.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, name, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.Username, u.Name, u.PasswordHash, u.Role, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return mapErr(err)
}

// UpdateUser modifies name, role and active flag.
func (r *UserRepository) UpdateUser(ctx context.Context, u *model.User) error {
	err := r.db.QueryRow(ctx,
		`UPDATE users SET name = $1, role = $2, is_active = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING updated_at`,
		u.Name, u.Role, u.IsActive, u.ID,
	).Scan(&u.UpdatedAt)
	return mapErr(err)
}

// UpdateUserPassword replaces a user's password hash.
func (r *UserRepository) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id,
	))
}
