package model

import (
	"time"

	"github.com/google/uuid"
)

// RewardItem is something students can buy with points. A nil Stock means
// unlimited.
type RewardItem struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CostPoints int       `json:"cost_points"`
	Stock      *int      `json:"stock"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RewardRequest is the payload for creating or updating a reward item.
type RewardRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	CostPoints int    `json:"cost_points" binding:"required,min=1,max=100000"`
	Stock      *int   `json:"stock" binding:"omitempty,min=0,max=1000000"`
	IsActive   *bool  `json:"is_active"`
}

// RewardFilter narrows a reward listing.
type RewardFilter struct {
	Q      string
	Active *bool
}

// Purchase records a student spending points on a reward item.
type Purchase struct {
	ID                 uuid.UUID  `json:"id"`
	StudentID          uuid.UUID  `json:"student_id"`
	ItemID             uuid.UUID  `json:"item_id"`
	Quantity           int        `json:"quantity"`
	TotalCost          int        `json:"total_cost"`
	PointTransactionID *uuid.UUID `json:"point_transaction_id"`
	CreatedBy          uuid.UUID  `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
}

// PurchaseRequest is the payload for buying a reward. Quantity defaults to 1.
type PurchaseRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	ItemID    uuid.UUID `json:"item_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1,max=100"`
}

// PurchaseResult is returned after a successful purchase.
type PurchaseResult struct {
	PurchaseID uuid.UUID `json:"purchase_id"`
	TotalCost  int       `json:"total_cost"`
	NewBalance int       `json:"new_balance"`
}
