package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
)

// ClassService manages classes.
type ClassService struct {
	store repository.Transactor
}

// NewClassService creates a new ClassService.
func NewClassService(store repository.Transactor) *ClassService {
	return &ClassService{store: store}
}

// List returns active classes matching the filter.
func (s *ClassService) List(ctx context.Context, f model.ClassFilter) ([]model.Class, error) {
	return s.store.ListClasses(ctx, f)
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	c, err := s.store.GetClass(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrClassNotFound
	}
	return c, err
}

// Create adds a class to an existing grade.
func (s *ClassService) Create(ctx context.Context, actor model.Actor, req model.ClassRequest) (*model.Class, error) {
	if err := s.requireGrade(ctx, req.GradeID); err != nil {
		return nil, err
	}
	c := &model.Class{GradeID: req.GradeID, Name: req.Name, Gender: req.Gender}

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateClass(ctx, c); err != nil {
			return fmt.Errorf("create class: %w", err)
		}
		return audit(ctx, q, actor, model.AuditClassCreated, model.EntityClass, c.ID.String(), classMetadata(c))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, c.ID)
}

// Update modifies a class. The gender may only change while no active
// student of the other gender is enrolled.
func (s *ClassService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req model.ClassRequest) (*model.Class, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireGrade(ctx, req.GradeID); err != nil {
		return nil, err
	}

	if req.Gender != current.Gender {
		n, err := s.store.CountActiveStudentsInClass(ctx, id, opposite(req.Gender))
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrClassGenderLocked
		}
	}

	c := &model.Class{ID: id, GradeID: req.GradeID, Name: req.Name, Gender: req.Gender}
	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateClass(ctx, c); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrClassNotFound
			}
			return fmt.Errorf("update class: %w", err)
		}
		return audit(ctx, q, actor, model.AuditClassUpdated, model.EntityClass, id.String(), classMetadata(c))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes a class.
func (s *ClassService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.DeactivateClass(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrClassNotFound
			}
			return err
		}
		return audit(ctx, q, actor, model.AuditClassDisabled, model.EntityClass, id.String(), nil)
	})
}

func (s *ClassService) requireGrade(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetGrade(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGradeNotFound
		}
		return err
	}
	return nil
}

func opposite(g model.Gender) model.Gender {
	if g == model.GenderMale {
		return model.GenderFemale
	}
	return model.GenderMale
}

func classMetadata(c *model.Class) map[string]any {
	return map[string]any{
		"name":     c.Name,
		"gender":   c.Gender,
		"grade_id": c.GradeID,
	}
}
