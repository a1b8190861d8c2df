package model

import (
	"time"

	"github.com/google/uuid"
)

// Gender of a student or of a class.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Student is an enrolled child. Inactive students are kept for history.
type Student struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Gender         Gender    `json:"gender"`
	ClassID        uuid.UUID `json:"class_id"`
	ClassName      string    `json:"class_name,omitempty"`
	GuardianPhone1 string    `json:"guardian_phone1,omitempty"`
	GuardianPhone2 string    `json:"guardian_phone2,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	Name           string    `json:"name" binding:"required,min=2,max=100"`
	Gender         Gender    `json:"gender" binding:"required,oneof=MALE FEMALE"`
	ClassID        uuid.UUID `json:"class_id" binding:"required"`
	GuardianPhone1 string    `json:"guardian_phone1" binding:"omitempty,max=20"`
	GuardianPhone2 string    `json:"guardian_phone2" binding:"omitempty,max=20"`
	Notes          string    `json:"notes" binding:"omitempty,max=500"`
}

// StudentFilter narrows a student listing to active students.
type StudentFilter struct {
	Q       string
	ClassID *uuid.UUID
}
