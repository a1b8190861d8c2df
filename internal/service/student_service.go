package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
)

// StudentService manages student enrollment.
type StudentService struct {
	store repository.Transactor
}

// NewStudentService creates a new StudentService.
func NewStudentService(store repository.Transactor) *StudentService {
	return &StudentService{store: store}
}

// List returns active students matching the filter.
func (s *StudentService) List(ctx context.Context, f model.StudentFilter) ([]model.Student, error) {
	f.Q = strings.TrimSpace(f.Q)
	return s.store.ListStudents(ctx, f)
}

// Get returns an active student.
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return activeStudent(ctx, s.store, id)
}

// Create enrolls a student in an active class of the same gender.
func (s *StudentService) Create(ctx context.Context, actor model.Actor, req model.StudentRequest) (*model.Student, error) {
	if err := s.checkClass(ctx, req.ClassID, req.Gender); err != nil {
		return nil, err
	}
	st := fromRequest(req)

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateStudent(ctx, st); err != nil {
			return fmt.Errorf("create student: %w", err)
		}
		return audit(ctx, q, actor, model.AuditStudentCreated, model.EntityStudent, st.ID.String(), studentMetadata(st))
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetStudent(ctx, st.ID)
}

// Update modifies an active student.
func (s *StudentService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req model.StudentRequest) (*model.Student, error) {
	if _, err := activeStudent(ctx, s.store, id); err != nil {
		return nil, err
	}
	if err := s.checkClass(ctx, req.ClassID, req.Gender); err != nil {
		return nil, err
	}
	st := fromRequest(req)
	st.ID = id

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateStudent(ctx, st); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStudentNotFound
			}
			return fmt.Errorf("update student: %w", err)
		}
		return audit(ctx, q, actor, model.AuditStudentUpdated, model.EntityStudent, id.String(), studentMetadata(st))
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetStudent(ctx, id)
}

// Delete soft-deletes a student; their ledger and attendance are kept.
func (s *StudentService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.DeactivateStudent(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStudentNotFound
			}
			return err
		}
		return audit(ctx, q, actor, model.AuditStudentDisabled, model.EntityStudent, id.String(), nil)
	})
}

func (s *StudentService) checkClass(ctx context.Context, classID uuid.UUID, gender model.Gender) error {
	class, err := s.store.GetClass(ctx, classID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !class.IsActive) {
		return ErrClassNotFound
	}
	if err != nil {
		return err
	}
	if class.Gender != gender {
		return ErrGenderMismatch
	}
	return nil
}

func fromRequest(req model.StudentRequest) *model.Student {
	return &model.Student{
		Name:           strings.TrimSpace(req.Name),
		Gender:         req.Gender,
		ClassID:        req.ClassID,
		GuardianPhone1: strings.TrimSpace(req.GuardianPhone1),
		GuardianPhone2: strings.TrimSpace(req.GuardianPhone2),
		Notes:          strings.TrimSpace(req.Notes),
	}
}

func studentMetadata(st *model.Student) map[string]any {
	return map[string]any{
		"name":     st.Name,
		"gender":   st.Gender,
		"class_id": st.ClassID,
	}
}
