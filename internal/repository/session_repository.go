package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// SessionRepository handles attendance sessions and check-ins.
type SessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, to_char(session_date, 'YYYY-MM-DD'), start_at, cutoff_at, status, created_by, created_at`

func scanSession(row interface{ Scan(...any) error }) (*model.Session, error) {
	s := &model.Session{}
	err := row.Scan(&s.ID, &s.Date, &s.StartAt, &s.CutoffAt, &s.Status, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return s, nil
}

// EnsureSession returns the session of s.Date, creating it from s if absent.
// Concurrent callers for the same date all receive the one stored row; an
// existing row is never modified.
func (r *SessionRepository) EnsureSession(ctx context.Context, s *model.Session) error {
	stored, err := scanSession(r.db.QueryRow(ctx,
		`INSERT INTO sessions (session_date, start_at, cutoff_at, status, created_by)
		 VALUES ($1::date, $2, $3, $4, $5)
		 ON CONFLICT (session_date) DO UPDATE SET session_date = EXCLUDED.session_date
		 RETURNING `+sessionColumns,
		s.Date, s.StartAt, s.CutoffAt, model.SessionOpen, s.CreatedBy,
	))
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

// GetSessionByDate retrieves the session of a civil date (YYYY-MM-DD).
func (r *SessionRepository) GetSessionByDate(ctx context.Context, date string) (*model.Session, error) {
	return scanSession(r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE session_date = $1::date`, date))
}

// UpdateSessionStatus sets the status of a session.
func (r *SessionRepository) UpdateSessionStatus(ctx context.Context, id uuid.UUID, status model.SessionStatus) error {
	return expectOne(r.db.Exec(ctx, `UPDATE sessions SET status = $1 WHERE id = $2`, status, id))
}

const attendanceColumns = `id, session_id, student_id, status, taken_by, taken_at, point_transaction_id`

func scanAttendance(row interface{ Scan(...any) error }) (*model.Attendance, error) {
	a := &model.Attendance{}
	err := row.Scan(&a.ID, &a.SessionID, &a.StudentID, &a.Status, &a.TakenBy, &a.TakenAt, &a.PointTransactionID)
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

// GetAttendance retrieves a student's check-in for a session.
func (r *SessionRepository) GetAttendance(ctx context.Context, sessionID, studentID uuid.UUID) (*model.Attendance, error) {
	return scanAttendance(r.db.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE session_id = $1 AND student_id = $2`,
		sessionID, studentID))
}

// CreateAttendance inserts a check-in. A second check-in of the same student
// in the same session yields ErrDuplicate.
func (r *SessionRepository) CreateAttendance(ctx context.Context, a *model.Attendance) error {
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO attendances (session_id, student_id, status, taken_by, taken_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		a.SessionID, a.StudentID, a.Status, a.TakenBy, a.TakenAt,
	).Scan(&a.ID))
}

// LinkAttendanceTransaction records the ledger entry produced by a check-in.
func (r *SessionRepository) LinkAttendanceTransaction(ctx context.Context, attendanceID, txnID uuid.UUID) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE attendances SET point_transaction_id = $1 WHERE id = $2`, txnID, attendanceID))
}

// ListAttendanceBySession retrieves every check-in of a session.
func (r *SessionRepository) ListAttendanceBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Attendance, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE session_id = $1 ORDER BY taken_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}
