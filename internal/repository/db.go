package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when a lookup or targeted update matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a write violates a foreign key.
	ErrReferenced = errors.New("record is referenced or references a missing row")
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// runs unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// mapErr translates driver errors into the package sentinels. The original
// error stays in the chain for logging.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w (%s): %w", ErrDuplicate, pgErr.ConstraintName, err)
		case "23503":
			return fmt.Errorf("%w (%s): %w", ErrReferenced, pgErr.ConstraintName, err)
		}
	}
	return err
}

// expectOne turns a zero-row update into ErrNotFound.
func expectOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Repos bundles every repository bound to one DBTX. Its promoted methods
// make it a Queries.
type Repos struct {
	*UserRepository
	*GradeRepository
	*ClassRepository
	*StudentRepository
	*AssignmentRepository
	*SessionRepository
	*ReasonRepository
	*LedgerRepository
	*RewardRepository
	*AuditRepository
}

// NewRepos binds all repositories to db.
func NewRepos(db DBTX) Repos {
	return Repos{
		UserRepository:       NewUserRepository(db),
		GradeRepository:      NewGradeRepository(db),
		ClassRepository:      NewClassRepository(db),
		StudentRepository:    NewStudentRepository(db),
		AssignmentRepository: NewAssignmentRepository(db),
		SessionRepository:    NewSessionRepository(db),
		ReasonRepository:     NewReasonRepository(db),
		LedgerRepository:     NewLedgerRepository(db),
		RewardRepository:     NewRewardRepository(db),
		AuditRepository:      NewAuditRepository(db),
	}
}

// Store is the pool-backed Transactor used by the services.
type Store struct {
	Repos
	pool *pgxpool.Pool
}

// NewStore creates a Store over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Repos: NewRepos(pool), pool: pool}
}

// InTx runs fn inside one database transaction. fn returning an error rolls
// everything back; so does a panic.
func (s *Store) InTx(ctx context.Context, fn func(q Queries) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
}

var (
	_ Queries    = Repos{}
	_ Transactor = (*Store)(nil)
)
