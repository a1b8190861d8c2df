package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// AssignmentRepository handles servant-to-class assignments.
type AssignmentRepository struct {
	db DBTX
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListAssignmentsByUser retrieves the classes assigned to a user.
func (r *AssignmentRepository) ListAssignmentsByUser(ctx context.Context, userID uuid.UUID) ([]model.ClassAssignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.user_id, a.class_id, c.name, a.created_at
		 FROM class_assignments a
		 JOIN classes c ON c.id = a.class_id
		 WHERE a.user_id = $1
		 ORDER BY c.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.ClassAssignment{}
	for rows.Next() {
		var a model.ClassAssignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.ClassID, &a.ClassName, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// IsAssigned reports whether userID is assigned to classID.
func (r *AssignmentRepository) IsAssigned(ctx context.Context, userID, classID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM class_assignments WHERE user_id = $1 AND class_id = $2)`,
		userID, classID,
	).Scan(&ok)
	return ok, err
}

// CreateAssignment inserts an assignment. A repeated pair yields ErrDuplicate.
func (r *AssignmentRepository) CreateAssignment(ctx context.Context, a *model.ClassAssignment) error {
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO class_assignments (user_id, class_id) VALUES ($1, $2) RETURNING id, created_at`,
		a.UserID, a.ClassID,
	).Scan(&a.ID, &a.CreatedAt))
}

// DeleteAssignment removes an assignment.
func (r *AssignmentRepository) DeleteAssignment(ctx context.Context, userID, classID uuid.UUID) error {
	return expectOne(r.db.Exec(ctx,
		`DELETE FROM class_assignments WHERE user_id = $1 AND class_id = $2`, userID, classID))
}
