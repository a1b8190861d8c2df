package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor returns the acting identity of u.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role, Name: u.Name}
}

// LoginRequest is the payload for staff authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserRequest is the payload for creating a staff account.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanumunicode"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Role     Role   `json:"role" binding:"required,oneof=SUPER_ADMIN ADMIN GATE_ADMIN SERVANT"`
}

// UpdateUserRequest is the payload for updating a staff account. An empty
// password keeps the current one.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Role     Role   `json:"role" binding:"required,oneof=SUPER_ADMIN ADMIN GATE_ADMIN SERVANT"`
	IsActive *bool  `json:"is_active"`
	Password string `json:"password" binding:"omitempty,min=6,max=128"`
}
