package repository

import (
	"context"
	"strconv"

	"github.com/khedma/sunday-school-backend/internal/model"
)

// AuditRepository handles the append-only audit trail.
type AuditRepository struct {
	db DBTX
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog appends an audit entry.
func (r *AuditRepository) CreateAuditLog(ctx context.Context, l *model.AuditLog) error {
	if l.Metadata == nil {
		l.Metadata = map[string]any{}
	}
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO audit_logs (actor_user_id, action, entity_type, entity_id, metadata)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		l.ActorUserID, l.Action, l.EntityType, l.EntityID, l.Metadata,
	).Scan(&l.ID, &l.CreatedAt))
}

// ListAuditLogs retrieves entries matching the filter, newest first. Q
// matches the entity id, the action or the actor's name.
func (r *AuditRepository) ListAuditLogs(ctx context.Context, f model.AuditFilter, limit int) ([]model.AuditLog, error) {
	query := `SELECT l.id, l.actor_user_id, COALESCE(u.name, ''), l.action, l.entity_type, l.entity_id, l.metadata, l.created_at
		FROM audit_logs l
		LEFT JOIN users u ON u.id = l.actor_user_id
		WHERE TRUE`
	var args []any

	if f.Action != "" {
		args = append(args, f.Action)
		query += ` AND l.action = $` + strconv.Itoa(len(args))
	}
	if f.EntityType != "" {
		args = append(args, f.EntityType)
		query += ` AND l.entity_type = $` + strconv.Itoa(len(args))
	}
	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (l.entity_id ILIKE $` + n + ` OR l.action ILIKE $` + n + ` OR u.name ILIKE $` + n + `)`
	}
	args = append(args, limit)
	query += ` ORDER BY l.created_at DESC, l.id LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.AuditLog{}
	for rows.Next() {
		var l model.AuditLog
		if err := rows.Scan(&l.ID, &l.ActorUserID, &l.ActorName, &l.Action, &l.EntityType, &l.EntityID, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
