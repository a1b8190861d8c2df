package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/model"
)

// LedgerRepository handles the append-only point ledger. Balances are always
// recomputed from the entries.
type LedgerRepository struct {
	db DBTX
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db DBTX) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateTransaction appends a ledger entry. A zero CreatedAt is stamped by
// the database.
func (r *LedgerRepository) CreateTransaction(ctx context.Context, t *model.PointTransaction) error {
	var createdAt *time.Time
	if !t.CreatedAt.IsZero() {
		createdAt = &t.CreatedAt
	}
	return mapErr(r.db.QueryRow(ctx,
		`INSERT INTO point_transactions (student_id, points, reason_id, manual_text, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
		 RETURNING id, created_at`,
		t.StudentID, t.Points, t.ReasonID, t.ManualText, t.CreatedBy, createdAt,
	).Scan(&t.ID, &t.CreatedAt))
}

// SumPoints returns the balance of a student; zero when there are no entries.
func (r *LedgerRepository) SumPoints(ctx context.Context, studentID uuid.UUID) (int, error) {
	var sum int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM point_transactions WHERE student_id = $1`, studentID,
	).Scan(&sum)
	return sum, err
}

// ReasonUsedBetween reports whether the student received reasonID within
// [from, to).
func (r *LedgerRepository) ReasonUsedBetween(ctx context.Context, studentID, reasonID uuid.UUID, from, to time.Time) (bool, error) {
	var used bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM point_transactions
		   WHERE student_id = $1 AND reason_id = $2 AND created_at >= $3 AND created_at < $4
		 )`,
		studentID, reasonID, from, to,
	).Scan(&used)
	return used, err
}

// ListTransactions retrieves a student's ledger, newest first.
func (r *LedgerRepository) ListTransactions(ctx context.Context, studentID uuid.UUID, limit int) ([]model.PointTransaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.student_id, t.points, t.reason_id, COALESCE(pr.name, ''), t.manual_text, t.created_by, t.created_at
		 FROM point_transactions t
		 LEFT JOIN point_reasons pr ON pr.id = t.reason_id
		 WHERE t.student_id = $1
		 ORDER BY t.created_at DESC, t.id
		 LIMIT $2`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.PointTransaction{}
	for rows.Next() {
		var t model.PointTransaction
		if err := rows.Scan(&t.ID, &t.StudentID, &t.Points, &t.ReasonID, &t.ReasonName, &t.ManualText, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ListBalances computes the balance of every active student, optionally for
// one class, ordered by grade, class and name.
func (r *LedgerRepository) ListBalances(ctx context.Context, classID *uuid.UUID) ([]model.BalanceRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.name, s.gender, g.name, c.name, COALESCE(SUM(t.points), 0)
		 FROM students s
		 JOIN classes c ON c.id = s.class_id
		 JOIN grades g ON g.id = c.grade_id
		 LEFT JOIN point_transactions t ON t.student_id = s.id
		 WHERE s.is_active AND ($1::uuid IS NULL OR s.class_id = $1)
		 GROUP BY s.id, s.name, s.gender, g.name, g.sort_order, c.name
		 ORDER BY g.sort_order, c.name, s.name`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.BalanceRow{}
	for rows.Next() {
		var b model.BalanceRow
		if err := rows.Scan(&b.StudentID, &b.StudentName, &b.Gender, &b.GradeName, &b.ClassName, &b.Balance); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
