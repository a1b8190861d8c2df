package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names a state change recorded in the audit trail.
type AuditAction string

const (
	AuditAttendanceMarked       AuditAction = "ATTENDANCE_MARKED"
	AuditSessionStatusChanged   AuditAction = "SESSION_STATUS_CHANGED"
	AuditTxnCreated             AuditAction = "TXN_CREATED"
	AuditTxnManualCreated       AuditAction = "TXN_MANUAL_CREATED"
	AuditPurchaseCreated        AuditAction = "PURCHASE_CREATED"
	AuditRewardCreated          AuditAction = "REWARD_CREATED"
	AuditRewardUpdated          AuditAction = "REWARD_UPDATED"
	AuditRewardDisabled         AuditAction = "REWARD_DISABLED"
	AuditReasonCreated          AuditAction = "REASON_CREATED"
	AuditReasonUpdated          AuditAction = "REASON_UPDATED"
	AuditReasonDisabled         AuditAction = "REASON_DISABLED"
	AuditUserCreated            AuditAction = "USER_CREATED"
	AuditUserUpdated            AuditAction = "USER_UPDATED"
	AuditUserDisabled           AuditAction = "USER_DISABLED"
	AuditClassAssignmentAdded   AuditAction = "CLASS_ASSIGNMENT_ADDED"
	AuditClassAssignmentRemoved AuditAction = "CLASS_ASSIGNMENT_REMOVED"
	AuditStudentCreated         AuditAction = "STUDENT_CREATED"
	AuditStudentUpdated         AuditAction = "STUDENT_UPDATED"
	AuditStudentDisabled        AuditAction = "STUDENT_DISABLED"
	AuditClassCreated           AuditAction = "CLASS_CREATED"
	AuditClassUpdated           AuditAction = "CLASS_UPDATED"
	AuditClassDisabled          AuditAction = "CLASS_DISABLED"
	AuditGradeCreated           AuditAction = "GRADE_CREATED"
	AuditGradeUpdated           AuditAction = "GRADE_UPDATED"
	AuditGradeDeleted           AuditAction = "GRADE_DELETED"
)

// Entity types referenced by audit entries.
const (
	EntityAttendance       = "Attendance"
	EntitySession          = "Session"
	EntityPointTransaction = "PointTransaction"
	EntityPurchase         = "Purchase"
	EntityRewardItem       = "RewardItem"
	EntityPointReason      = "PointReason"
	EntityUser             = "User"
	EntityClassAssignment  = "ClassAssignment"
	EntityStudent          = "Student"
	EntityClass            = "Class"
	EntityGrade            = "Grade"
)

// AuditLog is an append-only record of a mutation.
type AuditLog struct {
	ID          uuid.UUID      `json:"id"`
	ActorUserID uuid.UUID      `json:"actor_user_id"`
	ActorName   string         `json:"actor_name,omitempty"`
	Action      AuditAction    `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AuditFilter narrows the audit listing.
type AuditFilter struct {
	Q          string
	Action     AuditAction
	EntityType string
}
