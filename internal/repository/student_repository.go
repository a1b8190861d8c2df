package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// StudentRepository handles student data access.
type StudentRepository struct {
	db DBTX
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentSelect = `
	SELECT s.id, s.name, s.gender, s.class_id, c.name,
	       COALESCE(s.guardian_phone1, ''), COALESCE(s.guardian_phone2, ''), COALESCE(s.notes, ''),
	       s.is_active, s.created_at, s.updated_at
	FROM students s
	JOIN classes c ON c.id = s.class_id`

func scanStudent(row interface{ Scan(...any) error }) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.Name, &s.Gender, &s.ClassID, &s.ClassName,
		&s.GuardianPhone1, &s.GuardianPhone2, &s.Notes,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return s, nil
}

func (r *StudentRepository) list(ctx context.Context, query string, args ...any) ([]model.Student, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// ListStudents retrieves active students matching the filter. Q matches the
// name or either guardian phone.
func (r *StudentRepository) ListStudents(ctx context.Context, f model.StudentFilter) ([]model.Student, error) {
	query := studentSelect + ` WHERE s.is_active`
	var args []any

	if f.ClassID != nil {
		args = append(args, *f.ClassID)
		query += ` AND s.class_id = $` + strconv.Itoa(len(args))
	}
	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (s.name ILIKE $` + n + ` OR s.guardian_phone1 ILIKE $` + n + ` OR s.guardian_phone2 ILIKE $` + n + `)`
	}
	query += ` ORDER BY s.name`

	return r.list(ctx, query, args...)
}

// GetStudent retrieves a student by ID, active or not.
func (r *StudentRepository) GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return scanStudent(r.db.QueryRow(ctx, studentSelect+` WHERE s.id = $1`, id))
}

// LockStudent retrieves a student and holds a row lock on it until the
// surrounding transaction ends. Writers of one student's ledger serialize
// on this lock.
func (r *StudentRepository) LockStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return scanStudent(r.db.QueryRow(ctx, studentSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id))
}

// ListActiveStudentsByClass retrieves the active roster of a class.
func (r *StudentRepository) ListActiveStudentsByClass(ctx context.Context, classID uuid.UUID) ([]model.Student, error) {
	return r.list(ctx, studentSelect+` WHERE s.class_id = $1 AND s.is_active ORDER BY s.name`, classID)
}

// CreateStudent inserts a new active student.
func (r *StudentRepository) CreateStudent(ctx context.Context, s *model.Student) error {
	s.IsActive = true
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO students (name, gender, class_id, guardian_phone1, guardian_phone2, notes, is_active)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), TRUE)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.Gender, s.ClassID, s.GuardianPhone1, s.GuardianPhone2, s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt))
}

// UpdateStudent modifies a student's profile and class.
func (r *StudentRepository) UpdateStudent(ctx context.Context, s *model.Student) error {
	return mapErr(r.db.QueryRow(ctx,
		`UPDATE students
		 SET name = $1, gender = $2, class_id = $3,
		     guardian_phone1 = NULLIF($4, ''), guardian_phone2 = NULLIF($5, ''), notes = NULLIF($6, ''),
		     updated_at = now()
		 WHERE id = $7
		 RETURNING is_active, created_at, updated_at`,
		s.Name, s.Gender, s.ClassID, s.GuardianPhone1, s.GuardianPhone2, s.Notes, s.ID,
	).Scan(&s.IsActive, &s.CreatedAt, &s.UpdatedAt))
}

// DeactivateStudent soft-deletes a student.
func (r *StudentRepository) DeactivateStudent(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE students SET is_active = FALSE, updated_at = now() WHERE id = $1`, id))
}
