package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/timewindow"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AttendanceService manages the daily session and student check-ins.
type AttendanceService struct {
	store    repository.Transactor
	resolver *timewindow.Resolver
	clock    timewindow.Clock
	feed     FeedPublisher
	log      zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService. A nil feed disables
// live broadcasting.
func NewAttendanceService(store repository.Transactor, resolver *timewindow.Resolver, clock timewindow.Clock, feed FeedPublisher, log zerolog.Logger) *AttendanceService {
	if feed == nil {
		feed = nopPublisher{}
	}
	return &AttendanceService{
		store:    store,
		resolver: resolver,
		clock:    clock,
		feed:     feed,
		log:      log.With().Str("component", "attendance").Logger(),
	}
}

// EnsureSessionForToday returns today's session, creating it on first use.
// It fails with ErrNotAttendanceDay on any other weekday.
func (s *AttendanceService) EnsureSessionForToday(ctx context.Context, actor model.Actor) (*model.Session, error) {
	return s.ensureSession(ctx, actor, s.clock.Now())
}

func (s *AttendanceService) ensureSession(ctx context.Context, actor model.Actor, now time.Time) (*model.Session, error) {
	if !s.resolver.IsAttendanceDay(now) {
		return nil, ErrNotAttendanceDay
	}
	w := s.resolver.Window(now)
	session := &model.Session{
		Date:      w.Date.String(),
		StartAt:   w.StartAt,
		CutoffAt:  w.CutoffAt,
		CreatedBy: actor.UserID,
	}
	if err := s.store.EnsureSession(ctx, session); err != nil {
		return nil, fmt.Errorf("ensure session %s: %w", session.Date, err)
	}
	return session, nil
}

// TodayRoster lists the active students of a class with their check-in for
// today. Outside the attendance weekday no session is created and every
// attendance is nil.
func (s *AttendanceService) TodayRoster(ctx context.Context, actor model.Actor, classID uuid.UUID) (*model.TodayRoster, error) {
	if _, err := s.store.GetClass(ctx, classID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	now := s.clock.Now()
	roster := &model.TodayRoster{
		IsAttendanceDay: s.resolver.IsAttendanceDay(now),
		Date:            s.resolver.CivilDate(now).String(),
	}

	if !roster.IsAttendanceDay {
		students, err := s.store.ListActiveStudentsByClass(ctx, classID)
		if err != nil {
			return nil, err
		}
		roster.Message = response.GetMessage(response.ErrNotAttendanceDay)
		roster.Students = make([]model.RosterEntry, len(students))
		for i, st := range students {
			roster.Students[i] = model.RosterEntry{Student: st}
		}
		return roster, nil
	}

	session, err := s.ensureSession(ctx, actor, now)
	if err != nil {
		return nil, err
	}
	roster.Session = session

	var (
		students    []model.Student
		attendances []model.Attendance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = s.store.ListActiveStudentsByClass(gctx, classID)
		return err
	})
	g.Go(func() error {
		var err error
		attendances, err = s.store.ListAttendanceBySession(gctx, session.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byStudent := make(map[uuid.UUID]*model.Attendance, len(attendances))
	for i := range attendances {
		byStudent[attendances[i].StudentID] = &attendances[i]
	}
	roster.Students = make([]model.RosterEntry, len(students))
	for i, st := range students {
		roster.Students[i] = model.RosterEntry{Student: st, Attendance: byStudent[st.ID]}
	}
	return roster, nil
}

// MarkAttendance checks a student in to today's session and credits the
// attendance reason's points when on time. Attendance, ledger entry and audit
// entry are written together or not at all.
func (s *AttendanceService) MarkAttendance(ctx context.Context, actor model.Actor, studentID uuid.UUID) (*model.MarkAttendanceResult, error) {
	if !model.Can(actor.Role, model.CapAttendanceMark) {
		return nil, ErrPermissionDenied
	}

	now := s.clock.Now()
	if !s.resolver.IsAttendanceDay(now) {
		return nil, ErrNotAttendanceDay
	}

	student, err := s.store.GetStudent(ctx, studentID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !student.IsActive) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}

	if !model.Can(actor.Role, model.CapAttendanceMarkAny) {
		assigned, err := s.store.IsAssigned(ctx, actor.UserID, student.ClassID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, ErrNotAssigned
		}
	}

	session, err := s.ensureSession(ctx, actor, now)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionOpen {
		return nil, ErrSessionNotOpen
	}

	if _, err := s.store.GetAttendance(ctx, session.ID, student.ID); err == nil {
		return nil, ErrAttendanceExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	reason, err := s.store.FirstActiveReasonByCategory(ctx, model.CategoryAttendance)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoAttendanceReason
	}
	if err != nil {
		return nil, err
	}

	status := timewindow.Classify(now, session.CutoffAt)
	points := 0
	if status == model.AttendanceOnTime {
		points = reason.Points
	}

	attendance := &model.Attendance{
		SessionID: session.ID,
		StudentID: student.ID,
		Status:    status,
		TakenBy:   actor.UserID,
		TakenAt:   now,
	}

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateAttendance(ctx, attendance); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAttendanceExists
			}
			return fmt.Errorf("create attendance: %w", err)
		}

		txn := &model.PointTransaction{
			StudentID: student.ID,
			Points:    points,
			ReasonID:  &reason.ID,
			CreatedBy: actor.UserID,
			CreatedAt: now,
		}
		if err := q.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := q.LinkAttendanceTransaction(ctx, attendance.ID, txn.ID); err != nil {
			return fmt.Errorf("link transaction: %w", err)
		}
		attendance.PointTransactionID = &txn.ID

		return audit(ctx, q, actor, model.AuditAttendanceMarked, model.EntityAttendance, attendance.ID.String(), map[string]any{
			"student_id": student.ID,
			"session_id": session.ID,
			"status":     status,
			"points":     points,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("student_id", student.ID.String()).
		Str("status", string(status)).
		Int("points", points).
		Str("taken_by", actor.UserID.String()).
		Msg("Attendance marked")

	if err := s.feed.Publish(ctx, model.AttendanceEvent{
		SessionID:   session.ID,
		Date:        session.Date,
		StudentID:   student.ID,
		StudentName: student.Name,
		ClassID:     student.ClassID,
		Status:      status,
		Points:      points,
		TakenBy:     actor.Name,
		TakenAt:     now,
	}); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish attendance event")
	}

	return &model.MarkAttendanceResult{Attendance: *attendance, Points: points}, nil
}

// SetTodaySessionStatus opens, closes or cancels today's session.
func (s *AttendanceService) SetTodaySessionStatus(ctx context.Context, actor model.Actor, status model.SessionStatus) (*model.Session, error) {
	if !model.Can(actor.Role, model.CapSessionsManage) {
		return nil, ErrPermissionDenied
	}

	session, err := s.ensureSession(ctx, actor, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if session.Status == status {
		return session, nil
	}

	previous := session.Status
	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateSessionStatus(ctx, session.ID, status); err != nil {
			return fmt.Errorf("update session status: %w", err)
		}
		return audit(ctx, q, actor, model.AuditSessionStatusChanged, model.EntitySession, session.ID.String(), map[string]any{
			"date": session.Date,
			"from": previous,
			"to":   status,
		})
	})
	if err != nil {
		return nil, err
	}
	session.Status = status
	return session, nil
}
