package model

import (
	"time"

	"github.com/google/uuid"
)

// Class is a single-gender group of students within a grade.
type Class struct {
	ID           uuid.UUID `json:"id"`
	GradeID      uuid.UUID `json:"grade_id"`
	GradeName    string    `json:"grade_name,omitempty"`
	Name         string    `json:"name"`
	Gender       Gender    `json:"gender"`
	IsActive     bool      `json:"is_active"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	GradeID uuid.UUID `json:"grade_id" binding:"required"`
	Name    string    `json:"name" binding:"required,min=1,max=100"`
	Gender  Gender    `json:"gender" binding:"required,oneof=MALE FEMALE"`
}

// ClassFilter narrows a class listing. Zero values mean "any".
type ClassFilter struct {
	GradeID *uuid.UUID
	Gender  Gender
	Q       string
}
