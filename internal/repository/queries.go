package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// Queries is the full data-access contract. Implementations are bound either
// to the pool or to an open transaction.
type Queries interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, u *model.User) error
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	ListGrades(ctx context.Context) ([]model.Grade, error)
	GetGrade(ctx context.Context, id uuid.UUID) (*model.Grade, error)
	CreateGrade(ctx context.Context, g *model.Grade) error
	UpdateGrade(ctx context.Context, g *model.Grade) error
	DeleteGrade(ctx context.Context, id uuid.UUID) error
	CountActiveClassesInGrade(ctx context.Context, gradeID uuid.UUID) (int, error)

	ListClasses(ctx context.Context, f model.ClassFilter) ([]model.Class, error)
	GetClass(ctx context.Context, id uuid.UUID) (*model.Class, error)
	CreateClass(ctx context.Context, c *model.Class) error
	UpdateClass(ctx context.Context, c *model.Class) error
	DeactivateClass(ctx context.Context, id uuid.UUID) error
	CountActiveStudentsInClass(ctx context.Context, classID uuid.UUID, gender model.Gender) (int, error)

	ListStudents(ctx context.Context, f model.StudentFilter) ([]model.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error)
	LockStudent(ctx context.Context, id uuid.UUID) (*model.Student, error)
	ListActiveStudentsByClass(ctx context.Context, classID uuid.UUID) ([]model.Student, error)
	CreateStudent(ctx context.Context, s *model.Student) error
	UpdateStudent(ctx context.Context, s *model.Student) error
	DeactivateStudent(ctx context.Context, id uuid.UUID) error

	ListAssignmentsByUser(ctx context.Context, userID uuid.UUID) ([]model.ClassAssignment, error)
	IsAssigned(ctx context.Context, userID, classID uuid.UUID) (bool, error)
	CreateAssignment(ctx context.Context, a *model.ClassAssignment) error
	DeleteAssignment(ctx context.Context, userID, classID uuid.UUID) error

	EnsureSession(ctx context.Context, s *model.Session) error
	GetSessionByDate(ctx context.Context, date string) (*model.Session, error)
	UpdateSessionStatus(ctx context.Context, id uuid.UUID, status model.SessionStatus) error
	GetAttendance(ctx context.Context, sessionID, studentID uuid.UUID) (*model.Attendance, error)
	CreateAttendance(ctx context.Context, a *model.Attendance) error
	LinkAttendanceTransaction(ctx context.Context, attendanceID, txnID uuid.UUID) error
	ListAttendanceBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Attendance, error)

	ListReasons(ctx context.Context, f model.ReasonFilter) ([]model.PointReason, error)
	GetReason(ctx context.Context, id uuid.UUID) (*model.PointReason, error)
	FirstActiveReasonByCategory(ctx context.Context, category model.ReasonCategory) (*model.PointReason, error)
	CreateReason(ctx context.Context, r *model.PointReason) error
	UpdateReason(ctx context.Context, r *model.PointReason) error
	DisableReason(ctx context.Context, id uuid.UUID) error

	CreateTransaction(ctx context.Context, t *model.PointTransaction) error
	SumPoints(ctx context.Context, studentID uuid.UUID) (int, error)
	ReasonUsedBetween(ctx context.Context, studentID, reasonID uuid.UUID, from, to time.Time) (bool, error)
	ListTransactions(ctx context.Context, studentID uuid.UUID, limit int) ([]model.PointTransaction, error)
	ListBalances(ctx context.Context, classID *uuid.UUID) ([]model.BalanceRow, error)

	ListRewards(ctx context.Context, f model.RewardFilter) ([]model.RewardItem, error)
	GetReward(ctx context.Context, id uuid.UUID) (*model.RewardItem, error)
	CreateReward(ctx context.Context, item *model.RewardItem) error
	UpdateReward(ctx context.Context, item *model.RewardItem) error
	DisableReward(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, itemID uuid.UUID, quantity int) (bool, error)
	CreatePurchase(ctx context.Context, p *model.Purchase) error
	LinkPurchaseTransaction(ctx context.Context, purchaseID, txnID uuid.UUID) error

	CreateAuditLog(ctx context.Context, l *model.AuditLog) error
	ListAuditLogs(ctx context.Context, f model.AuditFilter, limit int) ([]model.AuditLog, error)
}

// Transactor is Queries plus the ability to run a unit of work atomically.
type Transactor interface {
	Queries
	InTx(ctx context.Context, fn func(q Queries) error) error
}
