package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/quickpay/quickpay_backend/internal/core/ports/repositories"
)

// txCtxKey is the context key carrying the active pgx transaction. Using a
// private type prevents collisions.
type txCtxKey struct{}

// querier is the subset of pgx operations the repositories need, satisfied by
// both *pgxpool.Pool and pgx.Tx so repository methods participate in an
// ambient transaction transparently.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// queryEngine returns the transaction from the context when one is active,
// otherwise the pool.
func queryEngine(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// TxManager runs a function inside a single database transaction. The
// transaction handle is injected into the context so every repository call
// made through that context joins the same unit of work.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a TxManager backed by the given pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// Ensure TxManager implements portsrepo.TxManager
var _ portsrepo.TxManager = (*TxManager)(nil)

// Run begins a transaction, executes fn, and commits or rolls back. If fn
// returns an error (or panics), nothing fn persisted survives.
func (m *TxManager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op after a successful commit.
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
