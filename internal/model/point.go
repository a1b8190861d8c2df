package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ReasonCategory groups point reasons.
type ReasonCategory string

const (
	CategoryAttendance ReasonCategory = "ATTENDANCE"
	CategoryMass       ReasonCategory = "MASS"
	CategoryConfession ReasonCategory = "CONFESSION"
	CategoryDiscipline ReasonCategory = "DISCIPLINE"
	CategoryOther      ReasonCategory = "OTHER"
	CategoryPurchase   ReasonCategory = "PURCHASE"
)

// LimitType restricts how often a reason may be granted to one student.
type LimitType string

const (
	LimitNone                 LimitType = "NONE"
	LimitOncePerCalendarMonth LimitType = "ONCE_PER_CALENDAR_MONTH"
)

// PointReason is a catalog entry describing why points are granted.
type PointReason struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Points       int            `json:"points"`
	Category     ReasonCategory `json:"category"`
	LimitType    LimitType      `json:"limit_type"`
	AllowedRoles []Role         `json:"allowed_roles"`
	IsActive     bool           `json:"is_active"`
	CreatedBy    uuid.UUID      `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Allows reports whether role may invoke the reason.
func (r *PointReason) Allows(role Role) bool {
	return slices.Contains(r.AllowedRoles, role)
}

// ReasonRequest is the payload for creating or updating a point reason.
type ReasonRequest struct {
	Name         string         `json:"name" binding:"required,min=2,max=100"`
	Points       int            `json:"points" binding:"min=0,max=100000"`
	Category     ReasonCategory `json:"category" binding:"required,oneof=ATTENDANCE MASS CONFESSION DISCIPLINE OTHER PURCHASE"`
	LimitType    LimitType      `json:"limit_type" binding:"required,oneof=NONE ONCE_PER_CALENDAR_MONTH"`
	AllowedRoles []Role         `json:"allowed_roles" binding:"required,min=1,dive,oneof=SUPER_ADMIN ADMIN GATE_ADMIN SERVANT"`
	IsActive     *bool          `json:"is_active"`
}

// ReasonFilter narrows a reason listing.
type ReasonFilter struct {
	Q        string
	Category ReasonCategory
	Active   *bool
}

// PointTransaction is one immutable ledger entry. Exactly one of ReasonID
// and ManualText is set.
type PointTransaction struct {
	ID         uuid.UUID  `json:"id"`
	StudentID  uuid.UUID  `json:"student_id"`
	Points     int        `json:"points"`
	ReasonID   *uuid.UUID `json:"reason_id"`
	ReasonName string     `json:"reason_name,omitempty"`
	ManualText *string    `json:"manual_text"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GrantByReasonRequest grants a catalog reason to a student.
type GrantByReasonRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	ReasonID  uuid.UUID `json:"reason_id" binding:"required"`
}

// GrantManualRequest grants an ad-hoc amount with a free-text note.
type GrantManualRequest struct {
	StudentID  uuid.UUID `json:"student_id" binding:"required"`
	Points     int       `json:"points" binding:"max=100000"`
	ManualText string    `json:"manual_text" binding:"max=500"`
}

// Balance is a student's current point total.
type Balance struct {
	StudentID uuid.UUID `json:"student_id"`
	Balance   int       `json:"balance"`
}

// BalanceRow is one line of the balance report.
type BalanceRow struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	Gender      Gender    `json:"gender"`
	GradeName   string    `json:"grade_name"`
	ClassName   string    `json:"class_name"`
	Balance     int       `json:"balance"`
}
