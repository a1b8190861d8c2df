package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
)

// ReasonService manages the point reason catalog.
type ReasonService struct {
	store repository.Transactor
}

// NewReasonService creates a new ReasonService.
func NewReasonService(store repository.Transactor) *ReasonService {
	return &ReasonService{store: store}
}

// List returns reasons matching the filter.
func (s *ReasonService) List(ctx context.Context, f model.ReasonFilter) ([]model.PointReason, error) {
	f.Q = strings.TrimSpace(f.Q)
	return s.store.ListReasons(ctx, f)
}

// Usable returns the active reasons role may grant.
func (s *ReasonService) Usable(ctx context.Context, role model.Role) ([]model.PointReason, error) {
	active := true
	all, err := s.store.ListReasons(ctx, model.ReasonFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	usable := make([]model.PointReason, 0, len(all))
	for _, r := range all {
		if r.Allows(role) {
			usable = append(usable, r)
		}
	}
	return usable, nil
}

// Create adds a reason to the catalog.
func (s *ReasonService) Create(ctx context.Context, actor model.Actor, req model.ReasonRequest) (*model.PointReason, error) {
	reason := &model.PointReason{CreatedBy: actor.UserID, IsActive: true}
	applyReason(reason, req)

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateReason(ctx, reason); err != nil {
			return fmt.Errorf("create reason: %w", err)
		}
		return audit(ctx, q, actor, model.AuditReasonCreated, model.EntityPointReason, reason.ID.String(), reasonMetadata(reason))
	})
	if err != nil {
		return nil, err
	}
	return reason, nil
}

// Update modifies a reason.
func (s *ReasonService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req model.ReasonRequest) (*model.PointReason, error) {
	reason, err := s.store.GetReason(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReasonNotFound
	}
	if err != nil {
		return nil, err
	}
	applyReason(reason, req)

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateReason(ctx, reason); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReasonNotFound
			}
			return fmt.Errorf("update reason: %w", err)
		}
		return audit(ctx, q, actor, model.AuditReasonUpdated, model.EntityPointReason, reason.ID.String(), reasonMetadata(reason))
	})
	if err != nil {
		return nil, err
	}
	return reason, nil
}

// Disable soft-deletes a reason. Past ledger entries keep referencing it.
func (s *ReasonService) Disable(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.DisableReason(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReasonNotFound
			}
			return err
		}
		return audit(ctx, q, actor, model.AuditReasonDisabled, model.EntityPointReason, id.String(), nil)
	})
}

func applyReason(r *model.PointReason, req model.ReasonRequest) {
	r.Name = strings.TrimSpace(req.Name)
	r.Points = req.Points
	r.Category = req.Category
	r.LimitType = req.LimitType
	roles := make([]model.Role, 0, len(req.AllowedRoles))
	for _, role := range req.AllowedRoles {
		if !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	r.AllowedRoles = roles
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
}

func reasonMetadata(r *model.PointReason) map[string]any {
	return map[string]any{
		"name":          r.Name,
		"points":        r.Points,
		"category":      r.Category,
		"limit_type":    r.LimitType,
		"allowed_roles": r.AllowedRoles,
		"is_active":     r.IsActive,
	}
}
