package service

import (
	"context"

	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
)

// auditListLimit caps one page of the audit trail.
const auditListLimit = 250

// AuditService exposes the audit trail to super admins.
type AuditService struct {
	store repository.Queries
}

// NewAuditService creates a new AuditService.
func NewAuditService(store repository.Queries) *AuditService {
	return &AuditService{store: store}
}

// List returns the newest audit entries matching the filter.
func (s *AuditService) List(ctx context.Context, f model.AuditFilter) ([]model.AuditLog, error) {
	return s.store.ListAuditLogs(ctx, f, auditListLimit)
}

// audit appends an entry through q, which is the caller's transaction.
func audit(ctx context.Context, q repository.Queries, actor model.Actor, action model.AuditAction, entityType, entityID string, metadata map[string]any) error {
	return q.CreateAuditLog(ctx, &model.AuditLog{
		ActorUserID: actor.UserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Metadata:    metadata,
	})
}
