package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// GradeRepository handles grade data access.
type GradeRepository struct {
	db DBTX
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(db DBTX) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListGrades retrieves all grades in display order.
func (r *GradeRepository) ListGrades(ctx context.Context) ([]model.Grade, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, sort_order, created_at FROM grades ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grades := []model.Grade{}
	for rows.Next() {
		var g model.Grade
		if err := rows.Scan(&g.ID, &g.Name, &g.SortOrder, &g.CreatedAt); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// GetGrade retrieves a grade by ID.
func (r *GradeRepository) GetGrade(ctx context.Context, id uuid.UUID) (*model.Grade, error) {
	g := &model.Grade{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, sort_order, created_at FROM grades WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.SortOrder, &g.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return g, nil
}

// CreateGrade inserts a new grade.
func (r *GradeRepository) CreateGrade(ctx context.Context, g *model.Grade) error {
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO grades (name, sort_order) VALUES ($1, $2) RETURNING id, created_at`,
		g.Name, g.SortOrder,
	).Scan(&g.ID, &g.CreatedAt))
}

// UpdateGrade modifies an existing grade.
func (r *GradeRepository) UpdateGrade(ctx context.Context, g *model.Grade) error {
	return mapErr(r.db.QueryRow(ctx,
		`UPDATE grades SET name = $1, sort_order = $2 WHERE id = $3 RETURNING created_at`,
		g.Name, g.SortOrder, g.ID,
	).Scan(&g.CreatedAt))
}

// DeleteGrade removes a grade. Inactive classes still reference their grade,
// so this fails with ErrReferenced when any class row remains.
func (r *GradeRepository) DeleteGrade(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.db.Exec(ctx, `DELETE FROM grades WHERE id = $1`, id))
}

// CountActiveClassesInGrade counts active classes of a grade.
func (r *GradeRepository) CountActiveClassesInGrade(ctx context.Context, gradeID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM classes WHERE grade_id = $1 AND is_active`, gradeID,
	).Scan(&n)
	return n, err
}
