package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassAssignment grants a servant responsibility for one class.
type ClassAssignment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ClassID   uuid.UUID `json:"class_id"`
	ClassName string    `json:"class_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignmentRequest adds or removes a class assignment.
type AssignmentRequest struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	ClassID uuid.UUID `json:"class_id" binding:"required"`
}
