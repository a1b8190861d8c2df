package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// ReasonRepository handles the point reason catalog.
type ReasonRepository struct {
	db DBTX
}

// NewReasonRepository creates a new ReasonRepository.
func NewReasonRepository(db DBTX) *ReasonRepository {
	return &ReasonRepository{db: db}
}

const reasonColumns = `id, name, points, category, limit_type, allowed_roles, is_active, created_by, created_at, updated_at`

func scanReason(row interface{ Scan(...any) error }) (*model.PointReason, error) {
	r := &model.PointReason{}
	var roles []string
	err := row.Scan(&r.ID, &r.Name, &r.Points, &r.Category, &r.LimitType, &roles,
		&r.IsActive, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	r.AllowedRoles = make([]model.Role, len(roles))
	for i, role := range roles {
		r.AllowedRoles[i] = model.Role(role)
	}
	return r, nil
}

func roleStrings(roles []model.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// ListReasons retrieves reasons matching the filter, by category then name.
func (r *ReasonRepository) ListReasons(ctx context.Context, f model.ReasonFilter) ([]model.PointReason, error) {
	query := `SELECT ` + reasonColumns + ` FROM point_reasons WHERE TRUE`
	var args []any

	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		query += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		query += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reasons := []model.PointReason{}
	for rows.Next() {
		reason, err := scanReason(rows)
		if err != nil {
			return nil, err
		}
		reasons = append(reasons, *reason)
	}
	return reasons, rows.Err()
}

// GetReason retrieves a reason by ID.
func (r *ReasonRepository) GetReason(ctx context.Context, id uuid.UUID) (*model.PointReason, error) {
	return scanReason(r.db.QueryRow(ctx, `SELECT `+reasonColumns+` FROM point_reasons WHERE id = $1`, id))
}

// FirstActiveReasonByCategory retrieves the earliest-created active reason
// of a category.
func (r *ReasonRepository) FirstActiveReasonByCategory(ctx context.Context, category model.ReasonCategory) (*model.PointReason, error) {
	return scanReason(r.db.QueryRow(ctx,
		`SELECT `+reasonColumns+` FROM point_reasons
		 WHERE category = $1 AND is_active
		 ORDER BY created_at, id
		 LIMIT 1`, category))
}

// CreateReason inserts a new reason.
func (r *ReasonRepository) CreateReason(ctx context.Context, reason *model.PointReason) error {
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO point_reasons (name, points, category, limit_type, allowed_roles, is_active, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		reason.Name, reason.Points, reason.Category, reason.LimitType, roleStrings(reason.AllowedRoles),
		reason.IsActive, reason.CreatedBy,
	).Scan(&reason.ID, &reason.CreatedAt, &reason.UpdatedAt))
}

// UpdateReason modifies an existing reason.
func (r *ReasonRepository) UpdateReason(ctx context.Context, reason *model.PointReason) error {
	return mapErr(r.db.QueryRow(ctx,
		`UPDATE point_reasons
		 SET name = $1, points = $2, category = $3, limit_type = $4, allowed_roles = $5, is_active = $6,
		     updated_at = now()
		 WHERE id = $7
		 RETURNING created_by, created_at, updated_at`,
		reason.Name, reason.Points, reason.Category, reason.LimitType, roleStrings(reason.AllowedRoles),
		reason.IsActive, reason.ID,
	).Scan(&reason.CreatedBy, &reason.CreatedAt, &reason.UpdatedAt))
}

// DisableReason soft-deletes a reason.
func (r *ReasonRepository) DisableReason(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE point_reasons SET is_active = FALSE, updated_at = now() WHERE id = $1`, id))
}
