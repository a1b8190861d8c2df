package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// RewardRepository handles reward items and purchases.
type RewardRepository struct {
	db DBTX
}

// NewRewardRepository creates a new RewardRepository.
func NewRewardRepository(db DBTX) *RewardRepository {
	return &RewardRepository{db: db}
}

const rewardColumns = `id, name, cost_points, stock, is_active, created_at, updated_at`

func scanReward(row interface{ Scan(...any) error }) (*model.RewardItem, error) {
	item := &model.RewardItem{}
	err := row.Scan(&item.ID, &item.Name, &item.CostPoints, &item.Stock, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return item, nil
}

// ListRewards retrieves reward items matching the filter.
func (r *RewardRepository) ListRewards(ctx context.Context, f model.RewardFilter) ([]model.RewardItem, error) {
	query := `SELECT ` + rewardColumns + ` FROM reward_items WHERE TRUE`
	var args []any

	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		query += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		query += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY cost_points, name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.RewardItem{}
	for rows.Next() {
		item, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetReward retrieves a reward item by ID.
func (r *RewardRepository) GetReward(ctx context.Context, id uuid.UUID) (*model.RewardItem, error) {
	return scanReward(r.db.QueryRow(ctx, `SELECT `+rewardColumns+` FROM reward_items WHERE id = $1`, id))
}

// CreateReward inserts a reward item.
func (r *RewardRepository) CreateReward(ctx context.Context, item *model.RewardItem) error {
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO reward_items (name, cost_points, stock, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		item.Name, item.CostPoints, item.Stock, item.IsActive,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt))
}

// UpdateReward modifies a reward item.
func (r *RewardRepository) UpdateReward(ctx context.Context, item *model.RewardItem) error {
	return mapErr(r.db.QueryRow(ctx,
		`UPDATE reward_items SET name = $1, cost_points = $2, stock = $3, is_active = $4, updated_at = now()
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		item.Name, item.CostPoints, item.Stock, item.IsActive, item.ID,
	).Scan(&item.CreatedAt, &item.UpdatedAt))
}

// DisableReward soft-deletes a reward item.
func (r *RewardRepository) DisableReward(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE reward_items SET is_active = FALSE, updated_at = now() WHERE id = $1`, id))
}

// DecrementStock takes quantity units from a tracked stock. It reports false
// when the remaining stock is too small; untracked stock always succeeds.
func (r *RewardRepository) DecrementStock(ctx context.Context, itemID uuid.UUID, quantity int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE reward_items
		 SET stock = CASE WHEN stock IS NULL THEN NULL ELSE stock - $2 END, updated_at = now()
		 WHERE id = $1 AND (stock IS NULL OR stock >= $2)`,
		itemID, quantity)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() == 1, nil
}

// CreatePurchase inserts a purchase.
func (r *RewardRepository) CreatePurchase(ctx context.Context, p *model.Purchase) error {
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO purchases (student_id, item_id, quantity, total_cost, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.StudentID, p.ItemID, p.Quantity, p.TotalCost, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt))
}

// LinkPurchaseTransaction records the ledger entry that paid for a purchase.
func (r *RewardRepository) LinkPurchaseTransaction(ctx context.Context, purchaseID, txnID uuid.UUID) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE purchases SET point_transaction_id = $1 WHERE id = $2`, txnID, purchaseID))
}
