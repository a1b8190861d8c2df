package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	db DBTX
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(db DBTX) *ClassRepository {
	return &ClassRepository{db: db}
}

const classSelect = `
	SELECT c.id, c.grade_id, g.name, c.name, c.gender, c.is_active,
	       (SELECT COUNT(*) FROM students s WHERE s.class_id = c.id AND s.is_active),
	       c.created_at, c.updated_at
	FROM classes c
	JOIN grades g ON g.id = c.grade_id`

func scanClass(row interface{ Scan(...any) error }) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.GradeID, &c.GradeName, &c.Name, &c.Gender, &c.IsActive,
		&c.StudentCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

// ListClasses retrieves active classes matching the filter, ordered by
// grade then name.
func (r *ClassRepository) ListClasses(ctx context.Context, f model.ClassFilter) ([]model.Class, error) {
	query := classSelect + ` WHERE c.is_active`
	var args []any

	if f.GradeID != nil {
		args = append(args, *f.GradeID)
		query += ` AND c.grade_id = $` + strconv.Itoa(len(args))
	}
	if f.Gender != "" {
		args = append(args, f.Gender)
		query += ` AND c.gender = $` + strconv.Itoa(len(args))
	}
	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		query += ` AND c.name ILIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY g.sort_order, c.name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// GetClass retrieves a class by ID, active or not.
func (r *ClassRepository) GetClass(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return scanClass(r.db.QueryRow(ctx, classSelect+` WHERE c.id = $1`, id))
}

// CreateClass inserts a new active class.
func (r *ClassRepository) CreateClass(ctx context.Context, c *model.Class) error {
	c.IsActive = true
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO classes (grade_id, name, gender, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, created_at, updated_at`,
		c.GradeID, c.Name, c.Gender,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

// UpdateClass modifies grade, name and gender of a class.
func (r *ClassRepository) UpdateClass(ctx context.Context, c *model.Class) error {
	return mapErr(r.db.QueryRow(ctx,
		`UPDATE classes SET grade_id = $1, name = $2, gender = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING is_active, created_at, updated_at`,
		c.GradeID, c.Name, c.Gender, c.ID,
	).Scan(&c.IsActive, &c.CreatedAt, &c.UpdatedAt))
}

// DeactivateClass soft-deletes a class.
func (r *ClassRepository) DeactivateClass(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE classes SET is_active = FALSE, updated_at = now() WHERE id = $1`, id))
}

// CountActiveStudentsInClass counts active students of a class with the
// given gender.
func (r *ClassRepository) CountActiveStudentsInClass(ctx context.Context, classID uuid.UUID, gender model.Gender) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE class_id = $1 AND gender = $2 AND is_active`,
		classID, gender,
	).Scan(&n)
	return n, err
}
