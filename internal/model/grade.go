package model

import (
	"time"

	"github.com/google/uuid"
)

// Grade is a school year level that groups classes.
type Grade struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// GradeRequest is the payload for creating or updating a grade.
type GradeRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	SortOrder int    `json:"sort_order" binding:"min=0,max=1000"`
}
