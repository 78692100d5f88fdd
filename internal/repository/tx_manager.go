package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs a function inside one database transaction. All writes
// made through the provided Stores commit together or not at all.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, st Stores) error) error
}

// PgxTxManager is the pgx-backed TxManager.
type PgxTxManager struct {
	pool *pgxpool.Pool
}

// NewPgxTxManager creates a new PgxTxManager.
func NewPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

// WithTx begins a transaction, builds transactional stores over it, and
// commits if fn returns nil. Any error from fn rolls everything back.
func (m *PgxTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, st Stores) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, NewStores(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}
