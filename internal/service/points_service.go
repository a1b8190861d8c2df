package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
	"github.com/khedma/sunday-school-backend/internal/timewindow"
	"github.com/rs/zerolog"
)

const (
	historyLimit = 200
	// maxManualPoints matches the largest amount a catalog reason may carry.
	maxManualPoints = 100000
)

// PointsService grants points and answers balance queries. Every grant
// locks the student row first, so limit checks and inserts for one student
// never interleave.
type PointsService struct {
	store repository.Transactor
	clock timewindow.Clock
	// monthLoc defines calendar-month boundaries for reason limits. It is the
	// server's local zone, not the civil attendance zone.
	monthLoc *time.Location
	log      zerolog.Logger
}

// NewPointsService creates a new PointsService.
func NewPointsService(store repository.Transactor, clock timewindow.Clock, log zerolog.Logger) *PointsService {
	return &PointsService{
		store:    store,
		clock:    clock,
		monthLoc: time.Local,
		log:      log.With().Str("component", "points").Logger(),
	}
}

// monthBounds returns [first of month, first of next month) around now.
func monthBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// lockActiveStudent locks the student row inside q's transaction.
func lockActiveStudent(ctx context.Context, q repository.Queries, id uuid.UUID) (*model.Student, error) {
	student, err := q.LockStudent(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !student.IsActive) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock student: %w", err)
	}
	return student, nil
}

// GrantByReason credits a catalog reason to a student.
func (s *PointsService) GrantByReason(ctx context.Context, actor model.Actor, req model.GrantByReasonRequest) (*model.PointTransaction, error) {
	if !model.Can(actor.Role, model.CapPointsGrant) {
		return nil, ErrPermissionDenied
	}

	reason, err := s.store.GetReason(ctx, req.ReasonID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !reason.IsActive) {
		return nil, ErrReasonNotFound
	}
	if err != nil {
		return nil, err
	}
	if !reason.Allows(actor.Role) {
		return nil, ErrReasonNotAllowed
	}

	now := s.clock.Now()
	txn := &model.PointTransaction{
		StudentID:  req.StudentID,
		Points:     reason.Points,
		ReasonID:   &reason.ID,
		ReasonName: reason.Name,
		CreatedBy:  actor.UserID,
		CreatedAt:  now,
	}

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if _, err := lockActiveStudent(ctx, q, req.StudentID); err != nil {
			return err
		}

		if reason.LimitType == model.LimitOncePerCalendarMonth {
			from, to := monthBounds(now, s.monthLoc)
			used, err := q.ReasonUsedBetween(ctx, req.StudentID, reason.ID, from, to)
			if err != nil {
				return fmt.Errorf("check monthly limit: %w", err)
			}
			if used {
				return ErrMonthlyLimit
			}
		}

		if err := q.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return audit(ctx, q, actor, model.AuditTxnCreated, model.EntityPointTransaction, txn.ID.String(), map[string]any{
			"student_id":  req.StudentID,
			"reason_id":   reason.ID,
			"reason_name": reason.Name,
			"points":      reason.Points,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("student_id", req.StudentID.String()).
		Str("reason_id", reason.ID.String()).
		Int("points", reason.Points).
		Msg("Points granted")
	return txn, nil
}

// GrantManual credits an ad-hoc amount with a written justification.
func (s *PointsService) GrantManual(ctx context.Context, actor model.Actor, req model.GrantManualRequest) (*model.PointTransaction, error) {
	if !model.Can(actor.Role, model.CapPointsManual) {
		return nil, ErrManualForbidden
	}
	if req.Points <= 0 || req.Points > maxManualPoints {
		return nil, ErrInvalidPoints
	}
	text := strings.TrimSpace(req.ManualText)
	if text == "" {
		return nil, ErrManualTextRequired
	}

	txn := &model.PointTransaction{
		StudentID:  req.StudentID,
		Points:     req.Points,
		ManualText: &text,
		CreatedBy:  actor.UserID,
		CreatedAt:  s.clock.Now(),
	}

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if _, err := lockActiveStudent(ctx, q, req.StudentID); err != nil {
			return err
		}
		if err := q.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return audit(ctx, q, actor, model.AuditTxnManualCreated, model.EntityPointTransaction, txn.ID.String(), map[string]any{
			"student_id": req.StudentID,
			"points":     req.Points,
			"reason":     text,
		})
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Balance recomputes an active student's balance from the ledger.
func (s *PointsService) Balance(ctx context.Context, studentID uuid.UUID) (*model.Balance, error) {
	if _, err := activeStudent(ctx, s.store, studentID); err != nil {
		return nil, err
	}
	sum, err := s.store.SumPoints(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &model.Balance{StudentID: studentID, Balance: sum}, nil
}

// History lists a student's most recent ledger entries, newest first.
func (s *PointsService) History(ctx context.Context, studentID uuid.UUID) ([]model.PointTransaction, error) {
	if _, err := s.store.GetStudent(ctx, studentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s.store.ListTransactions(ctx, studentID, historyLimit)
}

// activeStudent fetches a student outside a transaction, treating inactive
// students as missing.
func activeStudent(ctx context.Context, q repository.Queries, id uuid.UUID) (*model.Student, error) {
	student, err := q.GetStudent(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !student.IsActive) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}
