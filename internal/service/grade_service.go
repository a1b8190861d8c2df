package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
)

// GradeService manages grades.
type GradeService struct {
	store repository.Transactor
}

// NewGradeService creates a new GradeService.
func NewGradeService(store repository.Transactor) *GradeService {
	return &GradeService{store: store}
}

// List returns all grades in display order.
func (s *GradeService) List(ctx context.Context) ([]model.Grade, error) {
	return s.store.ListGrades(ctx)
}

// Create adds a grade.
func (s *GradeService) Create(ctx context.Context, actor model.Actor, req model.GradeRequest) (*model.Grade, error) {
	g := &model.Grade{Name: req.Name, SortOrder: req.SortOrder}
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateGrade(ctx, g); err != nil {
			return fmt.Errorf("create grade: %w", err)
		}
		return audit(ctx, q, actor, model.AuditGradeCreated, model.EntityGrade, g.ID.String(), gradeMetadata(g))
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Update renames or reorders a grade.
func (s *GradeService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req model.GradeRequest) (*model.Grade, error) {
	g := &model.Grade{ID: id, Name: req.Name, SortOrder: req.SortOrder}
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateGrade(ctx, g); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrGradeNotFound
			}
			return fmt.Errorf("update grade: %w", err)
		}
		return audit(ctx, q, actor, model.AuditGradeUpdated, model.EntityGrade, id.String(), gradeMetadata(g))
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a grade that no class uses.
func (s *GradeService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	n, err := s.store.CountActiveClassesInGrade(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrGradeInUse
	}

	return s.store.InTx(ctx, func(q repository.Queries) error {
		err := q.DeleteGrade(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrGradeNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrGradeInUse
		case err != nil:
			return err
		}
		return audit(ctx, q, actor, model.AuditGradeDeleted, model.EntityGrade, id.String(), nil)
	})
}

func gradeMetadata(g *model.Grade) map[string]any {
	return map[string]any{
		"name":       g.Name,
		"sort_order": g.SortOrder,
	}
}
