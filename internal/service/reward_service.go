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

// RewardService manages the reward catalog.
type RewardService struct {
	store repository.Transactor
}

// NewRewardService creates a new RewardService.
func NewRewardService(store repository.Transactor) *RewardService {
	return &RewardService{store: store}
}

// List returns reward items matching the filter.
func (s *RewardService) List(ctx context.Context, f model.RewardFilter) ([]model.RewardItem, error) {
	f.Q = strings.TrimSpace(f.Q)
	return s.store.ListRewards(ctx, f)
}

// Create adds a reward item.
func (s *RewardService) Create(ctx context.Context, actor model.Actor, req model.RewardRequest) (*model.RewardItem, error) {
	item := &model.RewardItem{IsActive: true}
	applyReward(item, req)

	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateReward(ctx, item); err != nil {
			return fmt.Errorf("create reward: %w", err)
		}
		return audit(ctx, q, actor, model.AuditRewardCreated, model.EntityRewardItem, item.ID.String(), rewardMetadata(item))
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update modifies a reward item. A nil stock makes it unlimited.
func (s *RewardService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req model.RewardRequest) (*model.RewardItem, error) {
	item, err := s.store.GetReward(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	applyReward(item, req)

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateReward(ctx, item); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("update reward: %w", err)
		}
		return audit(ctx, q, actor, model.AuditRewardUpdated, model.EntityRewardItem, item.ID.String(), rewardMetadata(item))
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Disable soft-deletes a reward item.
func (s *RewardService) Disable(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.DisableReward(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		return audit(ctx, q, actor, model.AuditRewardDisabled, model.EntityRewardItem, id.String(), nil)
	})
}

func applyReward(item *model.RewardItem, req model.RewardRequest) {
	item.Name = strings.TrimSpace(req.Name)
	item.CostPoints = req.CostPoints
	item.Stock = req.Stock
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
}

func rewardMetadata(item *model.RewardItem) map[string]any {
	return map[string]any{
		"name":        item.Name,
		"cost_points": item.CostPoints,
		"stock":       item.Stock,
		"is_active":   item.IsActive,
	}
}
