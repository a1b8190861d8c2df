package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
)

// AssignmentService manages which classes a servant is responsible for.
type AssignmentService struct {
	store repository.Transactor
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(store repository.Transactor) *AssignmentService {
	return &AssignmentService{store: store}
}

// ListByUser returns the classes assigned to a user.
func (s *AssignmentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ClassAssignment, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.store.ListAssignmentsByUser(ctx, userID)
}

// Add assigns a class to a user.
func (s *AssignmentService) Add(ctx context.Context, actor model.Actor, req model.AssignmentRequest) (*model.ClassAssignment, error) {
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	class, err := s.store.GetClass(ctx, req.ClassID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}

	a := &model.ClassAssignment{UserID: req.UserID, ClassID: req.ClassID, ClassName: class.Name}
	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateAssignment(ctx, a); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAssignmentExists
			}
			return fmt.Errorf("create assignment: %w", err)
		}
		return audit(ctx, q, actor, model.AuditClassAssignmentAdded, model.EntityClassAssignment, a.ID.String(), map[string]any{
			"user_id":  req.UserID,
			"class_id": req.ClassID,
		})
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Remove unassigns a class from a user.
func (s *AssignmentService) Remove(ctx context.Context, actor model.Actor, req model.AssignmentRequest) error {
	return s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.DeleteAssignment(ctx, req.UserID, req.ClassID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}
		return audit(ctx, q, actor, model.AuditClassAssignmentRemoved, model.EntityClassAssignment,
			req.UserID.String()+"/"+req.ClassID.String(), map[string]any{
				"user_id":  req.UserID,
				"class_id": req.ClassID,
			})
	})
}
