package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/repository"
	"github.com/rs/zerolog"
)

// PurchaseService spends student points on reward items.
type PurchaseService struct {
	store repository.Transactor
	log   zerolog.Logger
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(store repository.Transactor, log zerolog.Logger) *PurchaseService {
	return &PurchaseService{store: store, log: log.With().Str("component", "purchase").Logger()}
}

// Purchase buys quantity units of an item for a student. The purchase, its
// negative ledger entry, the stock decrement and the audit entry commit
// together; a refusal leaves balance and stock untouched.
func (s *PurchaseService) Purchase(ctx context.Context, actor model.Actor, req model.PurchaseRequest) (*model.PurchaseResult, error) {
	if !model.Can(actor.Role, model.CapPurchasesCreate) {
		return nil, ErrPermissionDenied
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := activeStudent(ctx, s.store, req.StudentID); err != nil {
		return nil, err
	}
	item, err := s.store.GetReward(ctx, req.ItemID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !item.IsActive) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	totalCost := item.CostPoints * quantity

	balance, err := s.store.SumPoints(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if balance < totalCost {
		return nil, &InsufficientBalanceError{Balance: balance, Required: totalCost}
	}
	if item.Stock != nil && *item.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	result := &model.PurchaseResult{TotalCost: totalCost}
	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if _, err := lockActiveStudent(ctx, q, req.StudentID); err != nil {
			return err
		}
		// Recheck under the lock; another purchase may have committed since.
		balance, err := q.SumPoints(ctx, req.StudentID)
		if err != nil {
			return err
		}
		if balance < totalCost {
			return &InsufficientBalanceError{Balance: balance, Required: totalCost}
		}

		purchase := &model.Purchase{
			StudentID: req.StudentID,
			ItemID:    item.ID,
			Quantity:  quantity,
			TotalCost: totalCost,
			CreatedBy: actor.UserID,
		}
		if err := q.CreatePurchase(ctx, purchase); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}

		text := "شراء: " + item.Name
		txn := &model.PointTransaction{
			StudentID:  req.StudentID,
			Points:     -totalCost,
			ManualText: &text,
			CreatedBy:  actor.UserID,
		}
		if err := q.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := q.LinkPurchaseTransaction(ctx, purchase.ID, txn.ID); err != nil {
			return fmt.Errorf("link transaction: %w", err)
		}

		ok, err := q.DecrementStock(ctx, item.ID, quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if !ok {
			return ErrInsufficientStock
		}

		if err := audit(ctx, q, actor, model.AuditPurchaseCreated, model.EntityPurchase, purchase.ID.String(), map[string]any{
			"student_id": req.StudentID,
			"item_id":    item.ID,
			"quantity":   quantity,
			"total_cost": totalCost,
		}); err != nil {
			return err
		}

		newBalance, err := q.SumPoints(ctx, req.StudentID)
		if err != nil {
			return err
		}
		result.PurchaseID = purchase.ID
		result.NewBalance = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("student_id", req.StudentID.String()).
		Str("item_id", item.ID.String()).
		Int("quantity", quantity).
		Int("total_cost", totalCost).
		Msg("Purchase recorded")
	return result, nil
}
